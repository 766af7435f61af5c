package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

var _ usecase.CuotaTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// ConCuotaUsuarios valida la cuota de usuarios y ejecuta fn con un repo de
// membresías atado a la misma transacción. La fila del kiosco se toma FOR
// UPDATE, de modo que dos altas concurrentes sobre el mismo kiosco se
// serializan y ninguna puede colarse por encima del tope entre el conteo y
// la inserción.
func (r *TxRunner) ConCuotaUsuarios(ctx context.Context, kioscoID string, plan *entity.Plan, fn func(members repository.MembershipRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT id FROM kioscos WHERE id = $1 FOR UPDATE`, kioscoID); err != nil {
		return fmt.Errorf("lock kiosco: %w", err)
	}

	usageRepo := NewUsageRepository(tx)
	if err := usecase.ValidarCuota(ctx, entity.LimiteUsuarios, kioscoID, plan, usageRepo, time.Now()); err != nil {
		return err
	}
	if err := fn(NewMembershipRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
