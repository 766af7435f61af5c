package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
)

func miembro(rol entity.RolCadena, verTodos bool, visibles ...string) *entity.MiembroCadena {
	return &entity.MiembroCadena{
		ID:              "m1",
		CadenaID:        "c1",
		UserID:          "u1",
		Rol:             rol,
		VerTodos:        verTodos,
		KioscosVisibles: visibles,
	}
}

func TestPuedeVer_OwnerVeTodo(t *testing.T) {
	m := miembro(entity.RolCadenaOwner, false, "k1")
	assert.True(t, m.PuedeVer("k1"))
	assert.True(t, m.PuedeVer("k99"), "owner ignora la allow-list")
}

func TestPuedeVer_FlagVerTodos(t *testing.T) {
	m := miembro(entity.RolCadenaViewer, true, "k1")
	assert.True(t, m.PuedeVer("k2"))
}

func TestPuedeVer_AllowListRestringe(t *testing.T) {
	m := miembro(entity.RolCadenaViewer, false, "k1", "k2")
	assert.True(t, m.PuedeVer("k1"))
	assert.True(t, m.PuedeVer("k2"))
	assert.False(t, m.PuedeVer("k3"))
}

// Allow-list vacía o nil significa visibilidad total, incluso para viewer.
// Comportamiento documentado del sistema: la ausencia de restricción
// explícita equivale a "ver todos".
func TestPuedeVer_AllowListVaciaVeTodos(t *testing.T) {
	assert.True(t, miembro(entity.RolCadenaViewer, false).PuedeVer("k7"))

	conNil := miembro(entity.RolCadenaViewer, false)
	conNil.KioscosVisibles = nil
	assert.True(t, conNil.PuedeVer("k7"))
}

func TestRolValido(t *testing.T) {
	assert.True(t, entity.RolOwner.Valido())
	assert.True(t, entity.RolAdmin.Valido())
	assert.True(t, entity.RolCajero.Valido())
	assert.False(t, entity.Rol("superuser").Valido())
}

func TestEstadoVigente(t *testing.T) {
	assert.True(t, entity.EstadoActiva.Vigente())
	assert.True(t, entity.EstadoTrial.Vigente())
	assert.False(t, entity.EstadoVencida.Vigente())
	assert.False(t, entity.EstadoCancelada.Vigente())
}
