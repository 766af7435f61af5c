package postgres

import (
	"context"
	"fmt"

	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

// Asegura que KioscoRepo implementa repository.KioscoRepository.
var _ repository.KioscoRepository = (*KioscoRepo)(nil)

// KioscoRepo implementación del puerto KioscoRepository sobre PostgreSQL.
type KioscoRepo struct {
	db querier
}

// NewKioscoRepository construye el adaptador de persistencia para kioscos.
// Acepta el pool o una transacción.
func NewKioscoRepository(db querier) *KioscoRepo {
	return &KioscoRepo{db: db}
}

const kioscoCols = `id, name, slug, plan_name, activo, cadena_id, es_casa_matriz, schema_name, created_at, updated_at`

// Create persiste un nuevo kiosco. schema_name tiene constraint único: una
// colisión del truncado a 8 hex que se cuele entre el check y el insert
// termina acá como ErrSchemaCollision, nunca como dos tenants compartiendo
// schema.
func (r *KioscoRepo) Create(ctx context.Context, k *entity.Kiosco) error {
	query := `
		INSERT INTO kioscos (` + kioscoCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		k.ID, k.Name, k.Slug, k.PlanName, k.Activo, k.CadenaID, k.EsCasaMatriz,
		k.SchemaName, k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSchemaCollision
		}
		return fmt.Errorf("insert kiosco: %w", err)
	}
	return nil
}

// GetByID obtiene un kiosco por ID, o (nil, nil) si no existe.
func (r *KioscoRepo) GetByID(ctx context.Context, id string) (*entity.Kiosco, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetBySlug obtiene un kiosco por slug, o (nil, nil).
func (r *KioscoRepo) GetBySlug(ctx context.Context, slug string) (*entity.Kiosco, error) {
	return r.getWhere(ctx, "slug = $1", slug)
}

// ExistsSchema informa si algún kiosco ya resolvió a ese schema.
func (r *KioscoRepo) ExistsSchema(ctx context.Context, schemaName string) (bool, error) {
	var existe bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM kioscos WHERE schema_name = $1)`, schemaName).Scan(&existe)
	if err != nil {
		return false, fmt.Errorf("exists schema: %w", err)
	}
	return existe, nil
}

// Update actualiza un kiosco.
func (r *KioscoRepo) Update(ctx context.Context, k *entity.Kiosco) error {
	query := `
		UPDATE kioscos SET name = $2, slug = $3, plan_name = $4, activo = $5,
			cadena_id = $6, es_casa_matriz = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		k.ID, k.Name, k.Slug, k.PlanName, k.Activo, k.CadenaID, k.EsCasaMatriz, k.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update kiosco: %w", err)
	}
	return nil
}

// List lista kioscos con paginación.
func (r *KioscoRepo) List(ctx context.Context, limit, offset int) ([]*entity.Kiosco, error) {
	query := `SELECT ` + kioscoCols + ` FROM kioscos ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// ListByCadena lista los kioscos de una cadena.
func (r *KioscoRepo) ListByCadena(ctx context.Context, cadenaID string) ([]*entity.Kiosco, error) {
	query := `SELECT ` + kioscoCols + ` FROM kioscos WHERE cadena_id = $1 ORDER BY created_at`
	return r.list(ctx, query, cadenaID)
}

// Desactivar marca el kiosco como inactivo.
func (r *KioscoRepo) Desactivar(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE kioscos SET activo = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("desactivar kiosco: %w", err)
	}
	return nil
}

func (r *KioscoRepo) getWhere(ctx context.Context, where string, arg any) (*entity.Kiosco, error) {
	query := `SELECT ` + kioscoCols + ` FROM kioscos WHERE ` + where
	var k entity.Kiosco
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&k.ID, &k.Name, &k.Slug, &k.PlanName, &k.Activo, &k.CadenaID, &k.EsCasaMatriz,
		&k.SchemaName, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kiosco: %w", err)
	}
	return &k, nil
}

func (r *KioscoRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Kiosco, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list kioscos: %w", err)
	}
	defer rows.Close()
	var out []*entity.Kiosco
	for rows.Next() {
		var k entity.Kiosco
		if err := rows.Scan(&k.ID, &k.Name, &k.Slug, &k.PlanName, &k.Activo, &k.CadenaID,
			&k.EsCasaMatriz, &k.SchemaName, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan kiosco: %w", err)
		}
		out = append(out, &k)
	}
	return out, rows.Err()
}
