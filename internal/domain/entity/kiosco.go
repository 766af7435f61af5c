package entity

import "time"

// Kiosco representa un tenant del sistema. Cada kiosco es dueño de su propio
// schema de datos (ver tenant.SchemaName) y de su suscripción.
type Kiosco struct {
	ID           string
	Name         string
	Slug         string
	PlanName     string
	Activo       bool
	CadenaID     *string // nil si no pertenece a una cadena
	EsCasaMatriz bool
	SchemaName   string // kiosco_ + 8 hex, calculado al crear y verificado contra colisiones
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
