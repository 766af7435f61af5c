package entity

import "time"

// User representa una persona que puede iniciar sesión. La relación con los
// kioscos vive en Membership: un usuario puede pertenecer a varios kioscos.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
