package repository

import (
	"context"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
)

// MembershipRepository define el puerto de persistencia para Membership (DIP).
type MembershipRepository interface {
	Create(ctx context.Context, m *entity.Membership) error
	GetByUserAndKiosco(ctx context.Context, userID, kioscoID string) (*entity.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Membership, error)
	ListByKiosco(ctx context.Context, kioscoID string) ([]*entity.Membership, error)
	Delete(ctx context.Context, id string) error
}
