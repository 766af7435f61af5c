package repository

import (
	"context"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
)

// KioscoRepository define el puerto de persistencia para Kiosco (DIP).
// La implementación vive en infrastructure.
type KioscoRepository interface {
	Create(ctx context.Context, kiosco *entity.Kiosco) error
	GetByID(ctx context.Context, id string) (*entity.Kiosco, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Kiosco, error)
	// ExistsSchema informa si algún kiosco ya resolvió a ese schema.
	// Se usa al crear para detectar colisiones del truncado a 8 hex.
	ExistsSchema(ctx context.Context, schemaName string) (bool, error)
	Update(ctx context.Context, kiosco *entity.Kiosco) error
	List(ctx context.Context, limit, offset int) ([]*entity.Kiosco, error)
	ListByCadena(ctx context.Context, cadenaID string) ([]*entity.Kiosco, error)
	// Desactivar marca el kiosco como inactivo (no se borra).
	Desactivar(ctx context.Context, id string) error
}
