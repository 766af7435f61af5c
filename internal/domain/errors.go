package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrKioscoInactivo     = errors.New("kiosco inactivo")
	ErrSeleccionInvalida  = errors.New("el kiosco seleccionado no es un destino válido")
	ErrSchemaCollision    = errors.New("colisión de schema de tenant")
)

// CuotaExcedidaError indica que crear un recurso superaría el límite del plan.
// Lleva la información necesaria para un mensaje preciso al usuario.
type CuotaExcedidaError struct {
	Tipo     string // PRODUCTOS | USUARIOS | VENTAS
	Actual   int
	Limite   int
	PlanName string
}

func (e *CuotaExcedidaError) Error() string {
	return fmt.Sprintf("límite de %s alcanzado para el plan %s (%d/%d)", e.Tipo, e.PlanName, e.Actual, e.Limite)
}

// KioscoNoDisponible describe por qué un kiosco no es un destino válido de login.
type KioscoNoDisponible struct {
	KioscoName string `json:"kioscoName"`
	Motivo     string `json:"motivo"` // INACTIVO | SUSCRIPCION_VENCIDA | SUSCRIPCION_CANCELADA
}

// Motivos por los que un kiosco queda fuera del login.
const (
	MotivoInactivo             = "INACTIVO"
	MotivoSuscripcionVencida   = "SUSCRIPCION_VENCIDA"
	MotivoSuscripcionCancelada = "SUSCRIPCION_CANCELADA"
)

// SinKioscosDisponiblesError se devuelve cuando ninguna membresía del usuario
// apunta a un kiosco activo con suscripción vigente. Mapea a HTTP 403.
type SinKioscosDisponiblesError struct {
	Kioscos []KioscoNoDisponible
}

func (e *SinKioscosDisponiblesError) Error() string {
	return fmt.Sprintf("ningún kiosco disponible para el usuario (%d filtrados)", len(e.Kioscos))
}
