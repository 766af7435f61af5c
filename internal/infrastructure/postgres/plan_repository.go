package postgres

import (
	"context"
	"fmt"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo implementación del puerto PlanRepository sobre PostgreSQL.
// Los planes se cargan por seed/migración; este adaptador solo lee.
type PlanRepo struct {
	db querier
}

// NewPlanRepository construye el adaptador de persistencia para planes.
func NewPlanRepository(db querier) *PlanRepo {
	return &PlanRepo{db: db}
}

const planCols = `id, name, precio_mensual, max_productos, max_usuarios, max_ventas_mes, permite_cadenas, permite_factura_el, created_at, updated_at`

// GetByID obtiene un plan por ID, o (nil, nil).
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetByName obtiene un plan por nombre, o (nil, nil).
func (r *PlanRepo) GetByName(ctx context.Context, name string) (*entity.Plan, error) {
	return r.getWhere(ctx, "name = $1", name)
}

// List devuelve el catálogo completo de planes ordenado por precio.
func (r *PlanRepo) List(ctx context.Context) ([]*entity.Plan, error) {
	query := `SELECT ` + planCols + ` FROM planes ORDER BY precio_mensual`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list planes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Plan
	for rows.Next() {
		var p entity.Plan
		if err := rows.Scan(
			&p.ID, &p.Name, &p.PrecioMensual, &p.MaxProductos, &p.MaxUsuarios,
			&p.MaxVentasPorMes, &p.PermiteCadenas, &p.PermiteFacturaEl, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PlanRepo) getWhere(ctx context.Context, where string, arg any) (*entity.Plan, error) {
	query := `SELECT ` + planCols + ` FROM planes WHERE ` + where
	var p entity.Plan
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.PrecioMensual, &p.MaxProductos, &p.MaxUsuarios,
		&p.MaxVentasPorMes, &p.PermiteCadenas, &p.PermiteFacturaEl, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}
