package postgres

import (
	"context"
	"fmt"

	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

var _ repository.CadenaRepository = (*CadenaRepo)(nil)

// CadenaRepo implementación del puerto CadenaRepository sobre PostgreSQL.
type CadenaRepo struct {
	db querier
}

// NewCadenaRepository construye el adaptador de persistencia para cadenas.
func NewCadenaRepository(db querier) *CadenaRepo {
	return &CadenaRepo{db: db}
}

// Create persiste una cadena.
func (r *CadenaRepo) Create(ctx context.Context, c *entity.Cadena) error {
	query := `INSERT INTO cadenas (id, name, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, c.ID, c.Name, c.OwnerID, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("insert cadena: %w", err)
	}
	return nil
}

// GetByID obtiene una cadena por ID, o (nil, nil).
func (r *CadenaRepo) GetByID(ctx context.Context, id string) (*entity.Cadena, error) {
	query := `SELECT id, name, owner_id, created_at, updated_at FROM cadenas WHERE id = $1`
	var c entity.Cadena
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cadena: %w", err)
	}
	return &c, nil
}

const miembroCols = `id, cadena_id, user_id, rol, ver_todos, kioscos_visibles, created_at`

// GetMiembro devuelve la membresía del usuario en la cadena, o (nil, nil).
// Siempre lee de la base: la visibilidad se decide contra el estado actual.
func (r *CadenaRepo) GetMiembro(ctx context.Context, cadenaID, userID string) (*entity.MiembroCadena, error) {
	query := `SELECT ` + miembroCols + ` FROM cadena_miembros WHERE cadena_id = $1 AND user_id = $2`
	var m entity.MiembroCadena
	err := r.db.QueryRow(ctx, query, cadenaID, userID).Scan(
		&m.ID, &m.CadenaID, &m.UserID, &m.Rol, &m.VerTodos, &m.KioscosVisibles, &m.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get miembro cadena: %w", err)
	}
	return &m, nil
}

// CreateMiembro persiste un miembro de cadena. kioscos_visibles es un array
// de texto; vacío significa sin restricción.
func (r *CadenaRepo) CreateMiembro(ctx context.Context, m *entity.MiembroCadena) error {
	query := `INSERT INTO cadena_miembros (` + miembroCols + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.CadenaID, m.UserID, m.Rol, m.VerTodos, m.KioscosVisibles, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert miembro cadena: %w", err)
	}
	return nil
}

// ListMiembros devuelve todos los miembros de la cadena.
func (r *CadenaRepo) ListMiembros(ctx context.Context, cadenaID string) ([]*entity.MiembroCadena, error) {
	query := `SELECT ` + miembroCols + ` FROM cadena_miembros WHERE cadena_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, cadenaID)
	if err != nil {
		return nil, fmt.Errorf("list miembros cadena: %w", err)
	}
	defer rows.Close()

	var out []*entity.MiembroCadena
	for rows.Next() {
		var m entity.MiembroCadena
		if err := rows.Scan(
			&m.ID, &m.CadenaID, &m.UserID, &m.Rol, &m.VerTodos, &m.KioscosVisibles, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan miembro cadena: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
