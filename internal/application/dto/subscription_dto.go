package dto

import "time"

// SuscripcionResponse estado de suscripción de un kiosco.
type SuscripcionResponse struct {
	ID            string    `json:"id"`
	KioscoID      string    `json:"kioscoId"`
	PlanID        string    `json:"planId"`
	PlanName      string    `json:"planName,omitempty"`
	Estado        string    `json:"estado"` // ACTIVA | TRIAL | VENCIDA | CANCELADA
	FechaInicio   time.Time `json:"fechaInicio"`
	FechaFin      time.Time `json:"fechaFin"`
	PeriodoFactur string    `json:"periodoFacturacion"`
}

// RenovarSuscripcionRequest lo envía el webhook de pagos al confirmarse un
// cobro: reactiva o crea la suscripción del kiosco.
type RenovarSuscripcionRequest struct {
	KioscoID string `json:"kioscoId"`
	PlanName string `json:"planName"`
	Periodo  string `json:"periodo"` // monthly | yearly
}

// PlanResponse plan del catálogo.
type PlanResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PrecioMensual   string  `json:"precioMensual"`
	MaxProductos    *int    `json:"maxProductos"`    // null = ilimitado
	MaxUsuarios     *int    `json:"maxUsuarios"`     // null = ilimitado
	MaxVentasPorMes *int    `json:"maxVentasPorMes"` // null = ilimitado
	PermiteCadenas  bool    `json:"permiteCadenas"`
}
