package repository

import (
	"context"
	"time"
)

// UsageRepository cuenta el uso actual de recursos de un kiosco para la
// validación de cuotas. La capa de entidades (productos, ventas) está fuera
// de este núcleo; aquí solo se necesitan sus conteos.
type UsageRepository interface {
	// CountProductos cuenta los productos vivos del kiosco.
	CountProductos(ctx context.Context, kioscoID string) (int, error)
	// CountUsuarios cuenta las membresías del kiosco.
	CountUsuarios(ctx context.Context, kioscoID string) (int, error)
	// CountVentasDelMes cuenta las ventas del mes calendario de ref,
	// excluyendo las anuladas.
	CountVentasDelMes(ctx context.Context, kioscoID string, ref time.Time) (int, error)
}
