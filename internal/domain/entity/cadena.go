package entity

import "time"

// RolCadena es el rol de un miembro dentro de una cadena. Enum cerrado.
type RolCadena string

const (
	RolCadenaOwner  RolCadena = "owner"
	RolCadenaAdmin  RolCadena = "admin"
	RolCadenaViewer RolCadena = "viewer"
)

// Cadena agrupa varios kioscos bajo una misma organización.
type Cadena struct {
	ID        string
	Name      string
	OwnerID   string // user dueño de la organización
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MiembroCadena es la pertenencia de un usuario a una cadena, con su rol y
// una lista opcional de kioscos visibles.
//
// KioscosVisibles nil o vacía significa "ve todos los kioscos de la cadena",
// no "no ve ninguno": la ausencia de restricción explícita equivale a
// visibilidad total. Es el comportamiento documentado del sistema, no un bug.
type MiembroCadena struct {
	ID              string
	CadenaID        string
	UserID          string
	Rol             RolCadena
	VerTodos        bool
	KioscosVisibles []string
	CreatedAt       time.Time
}

// PuedeVer decide si el miembro puede ver el kiosco indicado. Predicado puro,
// sin efectos; debe reevaluarse en cada llamada porque la membresía puede
// cambiar entre requests.
func (m *MiembroCadena) PuedeVer(kioscoID string) bool {
	if m.Rol == RolCadenaOwner || m.VerTodos {
		return true
	}
	if len(m.KioscosVisibles) == 0 {
		return true // sin allow-list configurada: visibilidad total
	}
	for _, id := range m.KioscosVisibles {
		if id == kioscoID {
			return true
		}
	}
	return false
}
