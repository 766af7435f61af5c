package dto

import "time"

// CreateCadenaRequest alta de una cadena de kioscos.
type CreateCadenaRequest struct {
	Name string `json:"name"`
}

// CadenaResponse cadena expuesta por la API.
type CadenaResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// AgregarMiembroRequest agrega un usuario a la cadena. KioscosVisibles vacío
// o ausente significa visibilidad total (comportamiento documentado).
type AgregarMiembroRequest struct {
	UserID          string   `json:"userId"`
	Rol             string   `json:"rol"` // owner | admin | viewer
	VerTodos        bool     `json:"verTodos"`
	KioscosVisibles []string `json:"kioscosVisibles,omitempty"`
}

// MiembroCadenaResponse membresía de cadena expuesta por la API.
type MiembroCadenaResponse struct {
	ID              string   `json:"id"`
	CadenaID        string   `json:"cadenaId"`
	UserID          string   `json:"userId"`
	Rol             string   `json:"rol"`
	VerTodos        bool     `json:"verTodos"`
	KioscosVisibles []string `json:"kioscosVisibles,omitempty"`
}
