package repository

import (
	"context"
	"time"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
)

// SuscripcionRepository define el puerto de persistencia para Suscripcion (DIP).
type SuscripcionRepository interface {
	Create(ctx context.Context, s *entity.Suscripcion) error
	GetByID(ctx context.Context, id string) (*entity.Suscripcion, error)
	// GetVigenteByKiosco devuelve la suscripción ACTIVA o TRIAL del kiosco,
	// o (nil, nil) si no hay ninguna.
	GetVigenteByKiosco(ctx context.Context, kioscoID string) (*entity.Suscripcion, error)
	// GetUltimaByKiosco devuelve la suscripción más reciente del kiosco sin
	// importar estado, o (nil, nil). La usa el login para distinguir
	// "vencida" de "cancelada" de "nunca tuvo".
	GetUltimaByKiosco(ctx context.Context, kioscoID string) (*entity.Suscripcion, error)
	Update(ctx context.Context, s *entity.Suscripcion) error
	// MarcarVencidas pasa a VENCIDA toda suscripción ACTIVA o TRIAL cuya
	// fecha de fin ya pasó. Devuelve cuántas filas cambió.
	MarcarVencidas(ctx context.Context, ahora time.Time) (int, error)
}
