package entity

import "time"

// Rol de un usuario dentro de un kiosco. Enum cerrado: cualquier otro valor
// es inválido y debe rechazarse al crear la membresía.
type Rol string

const (
	RolOwner  Rol = "owner"
	RolAdmin  Rol = "admin"
	RolCajero Rol = "cashier"
)

// Valido informa si el rol es uno de los tres conocidos.
func (r Rol) Valido() bool {
	switch r {
	case RolOwner, RolAdmin, RolCajero:
		return true
	}
	return false
}

// Membership une User con Kiosco y fija el rol. Invariante: exactamente una
// fila por par (user, kiosco).
type Membership struct {
	ID        string
	UserID    string
	KioscoID  string
	Rol       Rol
	CreatedAt time.Time
}
