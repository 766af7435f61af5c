package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

var _ repository.SuscripcionRepository = (*SuscripcionRepo)(nil)

// SuscripcionRepo implementación del puerto SuscripcionRepository sobre PostgreSQL.
type SuscripcionRepo struct {
	db querier
}

// NewSuscripcionRepository construye el adaptador de persistencia para suscripciones.
func NewSuscripcionRepository(db querier) *SuscripcionRepo {
	return &SuscripcionRepo{db: db}
}

const suscripcionCols = `id, kiosco_id, plan_id, estado, fecha_inicio, fecha_fin, periodo_factur, created_at, updated_at`

// Create persiste una suscripción. fecha_fin cero se guarda como NULL
// (suscripción sin vencimiento, caso del plan gratuito).
func (r *SuscripcionRepo) Create(ctx context.Context, s *entity.Suscripcion) error {
	query := `INSERT INTO suscripciones (` + suscripcionCols + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.KioscoID, s.PlanID, s.Estado, s.FechaInicio, nullTime(s.FechaFin),
		s.PeriodoFactur, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert suscripcion: %w", err)
	}
	return nil
}

// GetByID obtiene una suscripción por ID, o (nil, nil).
func (r *SuscripcionRepo) GetByID(ctx context.Context, id string) (*entity.Suscripcion, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

// GetVigenteByKiosco devuelve la suscripción ACTIVA o TRIAL del kiosco, o (nil, nil).
func (r *SuscripcionRepo) GetVigenteByKiosco(ctx context.Context, kioscoID string) (*entity.Suscripcion, error) {
	return r.getWhere(ctx, `kiosco_id = $1 AND estado IN ('ACTIVA', 'TRIAL') ORDER BY created_at DESC LIMIT 1`, kioscoID)
}

// GetUltimaByKiosco devuelve la suscripción más reciente del kiosco sin
// importar su estado, o (nil, nil).
func (r *SuscripcionRepo) GetUltimaByKiosco(ctx context.Context, kioscoID string) (*entity.Suscripcion, error) {
	return r.getWhere(ctx, `kiosco_id = $1 ORDER BY created_at DESC LIMIT 1`, kioscoID)
}

// Update actualiza estado y fechas de una suscripción.
func (r *SuscripcionRepo) Update(ctx context.Context, s *entity.Suscripcion) error {
	query := `
		UPDATE suscripciones
		SET plan_id = $2, estado = $3, fecha_inicio = $4, fecha_fin = $5,
		    periodo_factur = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.PlanID, s.Estado, s.FechaInicio, nullTime(s.FechaFin), s.PeriodoFactur, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update suscripcion: %w", err)
	}
	return nil
}

// MarcarVencidas pasa a VENCIDA toda suscripción ACTIVA o TRIAL con fecha de
// fin en el pasado. Las de fecha_fin NULL nunca vencen.
func (r *SuscripcionRepo) MarcarVencidas(ctx context.Context, ahora time.Time) (int, error) {
	query := `
		UPDATE suscripciones
		SET estado = 'VENCIDA', updated_at = $1
		WHERE estado IN ('ACTIVA', 'TRIAL') AND fecha_fin IS NOT NULL AND fecha_fin < $1`
	tag, err := r.db.Exec(ctx, query, ahora)
	if err != nil {
		return 0, fmt.Errorf("marcar vencidas: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *SuscripcionRepo) getWhere(ctx context.Context, where string, arg any) (*entity.Suscripcion, error) {
	query := `SELECT ` + suscripcionCols + ` FROM suscripciones WHERE ` + where
	var s entity.Suscripcion
	var fin *time.Time
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.KioscoID, &s.PlanID, &s.Estado, &s.FechaInicio, &fin,
		&s.PeriodoFactur, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get suscripcion: %w", err)
	}
	if fin != nil {
		s.FechaFin = *fin
	}
	return &s, nil
}

// nullTime mapea el tiempo cero de Go a NULL en la base.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
