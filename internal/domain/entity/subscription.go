package entity

import "time"

// EstadoSuscripcion es el ciclo de vida de una suscripción. Enum cerrado.
type EstadoSuscripcion string

const (
	EstadoActiva    EstadoSuscripcion = "ACTIVA"
	EstadoTrial     EstadoSuscripcion = "TRIAL"
	EstadoVencida   EstadoSuscripcion = "VENCIDA"
	EstadoCancelada EstadoSuscripcion = "CANCELADA"
)

// Vigente informa si el estado habilita el uso del servicio.
func (e EstadoSuscripcion) Vigente() bool {
	return e == EstadoActiva || e == EstadoTrial
}

// Suscripcion liga un kiosco con un plan y su estado de pago.
// Invariante: a lo sumo una suscripción ACTIVA o TRIAL por kiosco a la vez
// (lo garantiza la lógica de negocio, no un constraint de la tabla).
type Suscripcion struct {
	ID            string
	KioscoID      string
	PlanID        string
	Estado        EstadoSuscripcion
	FechaInicio   time.Time
	FechaFin      time.Time
	PeriodoFactur string // monthly, yearly
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Vencida informa si la suscripción ya pasó su fecha de fin. El sweep
// periódico usa esto para transicionar ACTIVA/TRIAL -> VENCIDA.
func (s *Suscripcion) Vencida(ahora time.Time) bool {
	return !s.FechaFin.IsZero() && ahora.After(s.FechaFin)
}
