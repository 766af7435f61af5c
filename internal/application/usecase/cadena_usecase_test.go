package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

type memCadenas struct {
	repository.CadenaRepository
	cadena   *entity.Cadena
	miembros []*entity.MiembroCadena
}

func (r *memCadenas) Create(_ context.Context, c *entity.Cadena) error {
	r.cadena = c
	return nil
}

func (r *memCadenas) GetByID(_ context.Context, id string) (*entity.Cadena, error) {
	if r.cadena != nil && r.cadena.ID == id {
		return r.cadena, nil
	}
	return nil, nil
}

func (r *memCadenas) GetMiembro(_ context.Context, cadenaID, userID string) (*entity.MiembroCadena, error) {
	for _, m := range r.miembros {
		if m.CadenaID == cadenaID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memCadenas) CreateMiembro(_ context.Context, m *entity.MiembroCadena) error {
	r.miembros = append(r.miembros, m)
	return nil
}

type cadenaKioscos struct {
	repository.KioscoRepository
	kioscos []*entity.Kiosco
}

func (r *cadenaKioscos) ListByCadena(_ context.Context, _ string) ([]*entity.Kiosco, error) {
	return r.kioscos, nil
}

func armarCadena(t *testing.T) (*usecase.CadenaUseCase, *memCadenas, string) {
	t.Helper()
	cadenas := &memCadenas{}
	kioscos := &cadenaKioscos{kioscos: []*entity.Kiosco{
		{ID: "k1", Name: "Centro"},
		{ID: "k2", Name: "Norte"},
		{ID: "k3", Name: "Sur"},
	}}
	uc := usecase.NewCadenaUseCase(cadenas, kioscos)
	out, err := uc.Create(context.Background(), "owner-1", dto.CreateCadenaRequest{Name: "Mi Cadena"})
	require.NoError(t, err)
	return uc, cadenas, out.ID
}

// El creador queda como miembro owner con visibilidad total.
func TestCadenaCreate_OwnerVeTodo(t *testing.T) {
	uc, cadenas, cadenaID := armarCadena(t)
	require.Len(t, cadenas.miembros, 1)
	assert.Equal(t, entity.RolCadenaOwner, cadenas.miembros[0].Rol)

	visibles, err := uc.KioscosVisibles(context.Background(), cadenaID, "owner-1")
	require.NoError(t, err)
	assert.Len(t, visibles, 3)
}

// Un viewer con allow-list solo ve los kioscos listados.
func TestKioscosVisibles_ViewerConAllowList(t *testing.T) {
	uc, _, cadenaID := armarCadena(t)
	_, err := uc.AgregarMiembro(context.Background(), cadenaID, dto.AgregarMiembroRequest{
		UserID: "viewer-1", Rol: "viewer", KioscosVisibles: []string{"k2"},
	})
	require.NoError(t, err)

	visibles, err := uc.KioscosVisibles(context.Background(), cadenaID, "viewer-1")
	require.NoError(t, err)
	require.Len(t, visibles, 1)
	assert.Equal(t, "k2", visibles[0].ID)
}

// Allow-list vacía significa visibilidad total, no visibilidad nula.
func TestKioscosVisibles_AllowListVaciaVeTodo(t *testing.T) {
	uc, _, cadenaID := armarCadena(t)
	_, err := uc.AgregarMiembro(context.Background(), cadenaID, dto.AgregarMiembroRequest{
		UserID: "viewer-2", Rol: "viewer",
	})
	require.NoError(t, err)

	visibles, err := uc.KioscosVisibles(context.Background(), cadenaID, "viewer-2")
	require.NoError(t, err)
	assert.Len(t, visibles, 3)
}

func TestKioscosVisibles_NoMiembroForbidden(t *testing.T) {
	uc, _, cadenaID := armarCadena(t)
	_, err := uc.KioscosVisibles(context.Background(), cadenaID, "extraño")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAgregarMiembro_RolInvalidoFalla(t *testing.T) {
	uc, _, cadenaID := armarCadena(t)
	_, err := uc.AgregarMiembro(context.Background(), cadenaID, dto.AgregarMiembroRequest{UserID: "u", Rol: "dios"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
