package repository

import (
	"context"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
)

// CadenaRepository define el puerto de persistencia para Cadena (DIP).
type CadenaRepository interface {
	Create(ctx context.Context, c *entity.Cadena) error
	GetByID(ctx context.Context, id string) (*entity.Cadena, error)
	// GetMiembro devuelve la membresía del usuario en la cadena, o (nil, nil).
	// El predicado de visibilidad debe leerla en cada request, nunca cachearla.
	GetMiembro(ctx context.Context, cadenaID, userID string) (*entity.MiembroCadena, error)
	CreateMiembro(ctx context.Context, m *entity.MiembroCadena) error
	ListMiembros(ctx context.Context, cadenaID string) ([]*entity.MiembroCadena, error)
}
