package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jortega/kiosco-cloud/internal/domain/repository"
	"github.com/jortega/kiosco-cloud/internal/domain/tenant"
)

var _ repository.UsageRepository = (*UsageRepo)(nil)

// UsageRepo cuenta recursos dentro del schema del kiosco. Los datos
// operativos (productos, ventas) viven en schemas por tenant; las membresías
// en la tabla compartida.
type UsageRepo struct {
	db querier
}

// NewUsageRepository construye el adaptador de conteo de uso.
func NewUsageRepository(db querier) *UsageRepo {
	return &UsageRepo{db: db}
}

// CountProductos cuenta los productos no eliminados del kiosco.
func (r *UsageRepo) CountProductos(ctx context.Context, kioscoID string) (int, error) {
	schema, err := schemaDe(kioscoID)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s.productos WHERE deleted_at IS NULL`, schema)
	return r.count(ctx, query)
}

// CountUsuarios cuenta las membresías del kiosco en la tabla compartida.
func (r *UsageRepo) CountUsuarios(ctx context.Context, kioscoID string) (int, error) {
	query := `SELECT COUNT(*) FROM memberships WHERE kiosco_id = $1`
	return r.count(ctx, query, kioscoID)
}

// CountVentasDelMes cuenta las ventas del mes calendario de ref, excluyendo
// las anuladas. El corte es [primer día del mes, primer día del mes siguiente).
func (r *UsageRepo) CountVentasDelMes(ctx context.Context, kioscoID string, ref time.Time) (int, error) {
	schema, err := schemaDe(kioscoID)
	if err != nil {
		return 0, err
	}
	desde := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	hasta := desde.AddDate(0, 1, 0)
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s.ventas WHERE created_at >= $1 AND created_at < $2 AND anulada = FALSE`,
		schema,
	)
	return r.count(ctx, query, desde, hasta)
}

func (r *UsageRepo) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// schemaDe resuelve y valida el nombre de schema del kiosco antes de
// interpolarlo en SQL. Solo pasa el formato kiosco_ + 8 hex.
func schemaDe(kioscoID string) (string, error) {
	schema, err := tenant.SchemaName(kioscoID)
	if err != nil {
		return "", err
	}
	if !tenant.EsSchemaValido(schema) {
		return "", fmt.Errorf("schema inválido para kiosco %s", kioscoID)
	}
	return schema, nil
}
