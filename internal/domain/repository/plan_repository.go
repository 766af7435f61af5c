package repository

import (
	"context"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
)

// PlanRepository define el puerto de persistencia para Plan (DIP).
type PlanRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	GetByName(ctx context.Context, name string) (*entity.Plan, error)
	List(ctx context.Context) ([]*entity.Plan, error)
}
