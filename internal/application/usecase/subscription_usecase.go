package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
	"github.com/jortega/kiosco-cloud/pkg/logger"
)

// EstadoGate es la decisión del gate de suscripción para un kiosco.
type EstadoGate struct {
	Permitido bool
	Code      string // SUBSCRIPTION_EXPIRED | SUBSCRIPTION_CANCELLED | NO_SUBSCRIPTION si bloquea
}

// Codes estables del bloqueo 402.
const (
	CodeSuscripcionVencida   = "SUBSCRIPTION_EXPIRED"
	CodeSuscripcionCancelada = "SUBSCRIPTION_CANCELLED"
	CodeSinSuscripcion       = "NO_SUBSCRIPTION"
)

// SuscripcionUseCase estado de suscripciones, renovación vía webhook de pagos
// y barrido periódico de vencimientos.
type SuscripcionUseCase struct {
	susRepo  repository.SuscripcionRepository
	planRepo repository.PlanRepository
	log      *logger.Logger
	ahora    func() time.Time
}

// NewSuscripcionUseCase construye el caso de uso de suscripciones.
func NewSuscripcionUseCase(susRepo repository.SuscripcionRepository, planRepo repository.PlanRepository, log *logger.Logger) *SuscripcionUseCase {
	return &SuscripcionUseCase{susRepo: susRepo, planRepo: planRepo, log: log, ahora: time.Now}
}

// EstadoPara evalúa la máquina de estados del gate para un kiosco:
// ACTIVA/TRIAL permiten; VENCIDA, CANCELADA o ausencia bloquean con su code.
// Una suscripción vigente con fecha de fin ya pasada cuenta como vencida
// aunque el barrido todavía no la haya marcado.
func (uc *SuscripcionUseCase) EstadoPara(ctx context.Context, kioscoID string) (EstadoGate, error) {
	vigente, err := uc.susRepo.GetVigenteByKiosco(ctx, kioscoID)
	if err != nil {
		return EstadoGate{}, err
	}
	if vigente != nil {
		if vigente.Vencida(uc.ahora()) {
			return EstadoGate{Code: CodeSuscripcionVencida}, nil
		}
		return EstadoGate{Permitido: true}, nil
	}
	ultima, err := uc.susRepo.GetUltimaByKiosco(ctx, kioscoID)
	if err != nil {
		return EstadoGate{}, err
	}
	switch {
	case ultima == nil:
		return EstadoGate{Code: CodeSinSuscripcion}, nil
	case ultima.Estado == entity.EstadoCancelada:
		return EstadoGate{Code: CodeSuscripcionCancelada}, nil
	default:
		return EstadoGate{Code: CodeSuscripcionVencida}, nil
	}
}

// Actual devuelve la suscripción más reciente del kiosco con el nombre del plan.
func (uc *SuscripcionUseCase) Actual(ctx context.Context, kioscoID string) (*dto.SuscripcionResponse, error) {
	s, err := uc.susRepo.GetUltimaByKiosco(ctx, kioscoID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	resp := toSuscripcionResponse(s)
	if plan, err := uc.planRepo.GetByID(ctx, s.PlanID); err == nil && plan != nil {
		resp.PlanName = plan.Name
	}
	return resp, nil
}

// Renovar procesa la confirmación de pago del webhook: si hay una suscripción
// vigente extiende su fecha de fin; si no, crea una nueva ACTIVA. Garantiza
// el invariante de a lo sumo una ACTIVA/TRIAL por kiosco.
func (uc *SuscripcionUseCase) Renovar(ctx context.Context, in dto.RenovarSuscripcionRequest) (*dto.SuscripcionResponse, error) {
	if in.KioscoID == "" || in.PlanName == "" {
		return nil, domain.ErrInvalidInput
	}
	plan, err := uc.planRepo.GetByName(ctx, in.PlanName)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.ahora()
	fin := now.AddDate(0, 1, 0)
	if in.Periodo == "yearly" {
		fin = now.AddDate(1, 0, 0)
	}

	vigente, err := uc.susRepo.GetVigenteByKiosco(ctx, in.KioscoID)
	if err != nil {
		return nil, err
	}
	if vigente != nil {
		vigente.Estado = entity.EstadoActiva
		vigente.PlanID = plan.ID
		vigente.FechaFin = fin
		vigente.PeriodoFactur = periodoODefault(in.Periodo)
		vigente.UpdatedAt = now
		if err := uc.susRepo.Update(ctx, vigente); err != nil {
			return nil, err
		}
		return toSuscripcionResponse(vigente), nil
	}

	nueva := &entity.Suscripcion{
		ID:            uuid.New().String(),
		KioscoID:      in.KioscoID,
		PlanID:        plan.ID,
		Estado:        entity.EstadoActiva,
		FechaInicio:   now,
		FechaFin:      fin,
		PeriodoFactur: periodoODefault(in.Periodo),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.susRepo.Create(ctx, nueva); err != nil {
		return nil, err
	}
	return toSuscripcionResponse(nueva), nil
}

// Cancelar marca como CANCELADA la suscripción vigente del kiosco.
func (uc *SuscripcionUseCase) Cancelar(ctx context.Context, kioscoID string) error {
	vigente, err := uc.susRepo.GetVigenteByKiosco(ctx, kioscoID)
	if err != nil {
		return err
	}
	if vigente == nil {
		return domain.ErrNotFound
	}
	vigente.Estado = entity.EstadoCancelada
	vigente.UpdatedAt = uc.ahora()
	return uc.susRepo.Update(ctx, vigente)
}

// Sweep marca como VENCIDA toda suscripción ACTIVA/TRIAL cuya fecha de fin ya
// pasó. Se invoca desde un ticker en main.
func (uc *SuscripcionUseCase) Sweep(ctx context.Context) {
	n, err := uc.susRepo.MarcarVencidas(ctx, uc.ahora())
	if err != nil {
		uc.log.Error().Err(err).Msg("barrido de suscripciones vencidas")
		return
	}
	if n > 0 {
		uc.log.Info().Int("vencidas", n).Msg("suscripciones marcadas como vencidas")
	}
}

func periodoODefault(p string) string {
	if p == "" {
		return "monthly"
	}
	return p
}

func toSuscripcionResponse(s *entity.Suscripcion) *dto.SuscripcionResponse {
	return &dto.SuscripcionResponse{
		ID:            s.ID,
		KioscoID:      s.KioscoID,
		PlanID:        s.PlanID,
		Estado:        string(s.Estado),
		FechaInicio:   s.FechaInicio,
		FechaFin:      s.FechaFin,
		PeriodoFactur: s.PeriodoFactur,
	}
}
