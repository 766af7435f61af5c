package dto

import "time"

// RegisterRequest alta de un usuario dueño con su kiosco (signup).
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	KioscoName string `json:"kioscoName"`
	PlanName   string `json:"planName"` // vacío = plan free
}

// LoginRequest credenciales de entrada. KioscoID es opcional: si el usuario
// pertenece a varios kioscos y no indica uno, recibe un token de selección.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	KioscoID string `json:"kioscoId,omitempty"`
}

// KioscoDisponible es un kiosco al que el usuario puede entrar.
type KioscoDisponible struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rol  string `json:"rol"`
}

// LoginResponse resultado del login. Si NecesitaSeleccion es true, Token es
// un token de selección de cuenta (sin tenant) y Kioscos lista las opciones.
type LoginResponse struct {
	Token             string             `json:"token"`
	NecesitaSeleccion bool               `json:"necesitaSeleccion,omitempty"`
	Kioscos           []KioscoDisponible `json:"kioscos,omitempty"`
	User              *UserResponse      `json:"user,omitempty"`
}

// SeleccionarKioscoRequest canjea un token de selección por uno con tenant.
type SeleccionarKioscoRequest struct {
	KioscoID string `json:"kioscoId"`
}

// UserResponse usuario sin campos sensibles.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// KioscosNoDisponiblesResponse es el cuerpo del 403 cuando el login no
// encuentra ningún kiosco válido: lista cada uno con su motivo.
type KioscosNoDisponiblesResponse struct {
	Code    string              `json:"code"` // NO_AVAILABLE_KIOSCOS
	Message string              `json:"message"`
	Kioscos []KioscoNoDisponible `json:"kioscos"`
}

// KioscoNoDisponible kiosco filtrado del login y el porqué.
type KioscoNoDisponible struct {
	KioscoName string `json:"kioscoName"`
	Motivo     string `json:"motivo"` // INACTIVO | SUSCRIPCION_VENCIDA | SUSCRIPCION_CANCELADA
}
