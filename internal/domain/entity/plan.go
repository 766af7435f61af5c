package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoLimite identifica el recurso sobre el que aplica una cuota. Enum cerrado.
type TipoLimite string

const (
	LimiteProductos TipoLimite = "PRODUCTOS"
	LimiteUsuarios  TipoLimite = "USUARIOS"
	LimiteVentas    TipoLimite = "VENTAS"
)

// Plan define los topes de recursos de un nivel de suscripción.
// Un límite nil significa ilimitado.
type Plan struct {
	ID               string
	Name             string
	PrecioMensual    decimal.Decimal
	MaxProductos     *int
	MaxUsuarios      *int
	MaxVentasPorMes  *int
	PermiteCadenas   bool
	PermiteFacturaEl bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Limite devuelve el tope para un tipo de recurso (nil = ilimitado).
func (p *Plan) Limite(tipo TipoLimite) *int {
	switch tipo {
	case LimiteProductos:
		return p.MaxProductos
	case LimiteUsuarios:
		return p.MaxUsuarios
	case LimiteVentas:
		return p.MaxVentasPorMes
	}
	return nil
}
