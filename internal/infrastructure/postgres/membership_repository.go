package postgres

import (
	"context"
	"fmt"

	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implementación del puerto MembershipRepository sobre PostgreSQL.
type MembershipRepo struct {
	db querier
}

// NewMembershipRepository construye el adaptador de persistencia para membresías.
func NewMembershipRepository(db querier) *MembershipRepo {
	return &MembershipRepo{db: db}
}

const membershipCols = `id, user_id, kiosco_id, rol, created_at`

// Create persiste una membresía. El par (user_id, kiosco_id) tiene constraint
// único; una segunda membresía del mismo usuario en el mismo kiosco falla.
func (r *MembershipRepo) Create(ctx context.Context, m *entity.Membership) error {
	query := `INSERT INTO memberships (` + membershipCols + `) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, m.ID, m.UserID, m.KioscoID, m.Rol, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// GetByUserAndKiosco devuelve la membresía del usuario en el kiosco, o (nil, nil).
func (r *MembershipRepo) GetByUserAndKiosco(ctx context.Context, userID, kioscoID string) (*entity.Membership, error) {
	query := `SELECT ` + membershipCols + ` FROM memberships WHERE user_id = $1 AND kiosco_id = $2`
	var m entity.Membership
	err := r.db.QueryRow(ctx, query, userID, kioscoID).Scan(
		&m.ID, &m.UserID, &m.KioscoID, &m.Rol, &m.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}

// ListByUser devuelve todas las membresías del usuario.
func (r *MembershipRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Membership, error) {
	query := `SELECT ` + membershipCols + ` FROM memberships WHERE user_id = $1 ORDER BY created_at`
	return r.list(ctx, query, userID)
}

// ListByKiosco devuelve todas las membresías del kiosco.
func (r *MembershipRepo) ListByKiosco(ctx context.Context, kioscoID string) ([]*entity.Membership, error) {
	query := `SELECT ` + membershipCols + ` FROM memberships WHERE kiosco_id = $1 ORDER BY created_at`
	return r.list(ctx, query, kioscoID)
}

// Delete elimina una membresía por ID.
func (r *MembershipRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM memberships WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}

func (r *MembershipRepo) list(ctx context.Context, query string, arg any) ([]*entity.Membership, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []*entity.Membership
	for rows.Next() {
		var m entity.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.KioscoID, &m.Rol, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
