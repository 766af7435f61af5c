package dto

import "time"

// CreateKioscoRequest alta de un kiosco (tenant).
type CreateKioscoRequest struct {
	Name     string  `json:"name"`
	PlanName string  `json:"planName"`
	CadenaID *string `json:"cadenaId,omitempty"`
}

// AgregarUsuarioRequest alta de un usuario existente dentro de un kiosco.
type AgregarUsuarioRequest struct {
	Email string `json:"email"`
	Rol   string `json:"rol"`
}

// MembershipResponse membresía expuesta por la API.
type MembershipResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	KioscoID  string    `json:"kioscoId"`
	Rol       string    `json:"rol"`
	UserEmail string    `json:"userEmail"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// KioscoResponse kiosco expuesto por la API.
type KioscoResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	PlanName     string    `json:"planName"`
	Activo       bool      `json:"activo"`
	CadenaID     *string   `json:"cadenaId,omitempty"`
	EsCasaMatriz bool      `json:"esCasaMatriz"`
	SchemaName   string    `json:"schemaName"`
	CreatedAt    time.Time `json:"createdAt"`
}
