package usecase

import (
	"context"
	"time"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

// CuotaTxRunner ejecuta el cierre "validar cuota + insertar" dentro de una
// transacción, con el repo de membresías atado a esa transacción. La
// implementación vive en infrastructure/postgres.
type CuotaTxRunner interface {
	ConCuotaUsuarios(ctx context.Context, kioscoID string, plan *entity.Plan, fn func(members repository.MembershipRepository) error) error
}

// CuotaUseCase valida cuotas de plan y arma la foto de consumo de un kiosco.
type CuotaUseCase struct {
	kioscoRepo repository.KioscoRepository
	planRepo   repository.PlanRepository
	usageRepo  repository.UsageRepository
	ahora      func() time.Time
}

// NewCuotaUseCase construye el servicio de cuotas.
func NewCuotaUseCase(kioscoRepo repository.KioscoRepository, planRepo repository.PlanRepository, usageRepo repository.UsageRepository) *CuotaUseCase {
	return &CuotaUseCase{kioscoRepo: kioscoRepo, planRepo: planRepo, usageRepo: usageRepo, ahora: time.Now}
}

// ValidateCanCreate verifica que crear un recurso del tipo dado no supere el
// tope del plan del kiosco. En el tope exacto (actual == límite) ya falla: se
// exige estricto menor para crear. Límite nil pasa siempre.
//
// La verificación lee el conteo actual sin lock propio; para cierres
// atómicos junto a la inserción usar la variante dentro de una transacción
// (ver postgres.TxRunner.CrearConCuota).
func (uc *CuotaUseCase) ValidateCanCreate(ctx context.Context, tipo entity.TipoLimite, kioscoID string) error {
	plan, err := uc.planDeKiosco(ctx, kioscoID)
	if err != nil {
		return err
	}
	return ValidarCuota(ctx, tipo, kioscoID, plan, uc.usageRepo, uc.ahora())
}

// ValidarCuota es la comprobación pura de cuota contra un UsageRepository
// dado. Separada para poder ejecutarla con repos atados a una transacción.
func ValidarCuota(ctx context.Context, tipo entity.TipoLimite, kioscoID string, plan *entity.Plan, usage repository.UsageRepository, ahora time.Time) error {
	limite := plan.Limite(tipo)
	if limite == nil {
		return nil // ilimitado
	}
	actual, err := contar(ctx, tipo, kioscoID, usage, ahora)
	if err != nil {
		return err
	}
	if actual >= *limite {
		return &domain.CuotaExcedidaError{
			Tipo:     string(tipo),
			Actual:   actual,
			Limite:   *limite,
			PlanName: plan.Name,
		}
	}
	return nil
}

// Uso devuelve el consumo actual por recurso, su porcentaje contra el tope y
// el recurso más cercano a su límite. Con todos los límites ilimitados,
// ProximoLimite queda en nil.
func (uc *CuotaUseCase) Uso(ctx context.Context, kioscoID string) (*dto.UsoResponse, error) {
	plan, err := uc.planDeKiosco(ctx, kioscoID)
	if err != nil {
		return nil, err
	}
	tipos := []entity.TipoLimite{entity.LimiteProductos, entity.LimiteUsuarios, entity.LimiteVentas}
	resp := &dto.UsoResponse{KioscoID: kioscoID, PlanName: plan.Name}

	var masAlto float64 = -1
	for _, tipo := range tipos {
		actual, err := contar(ctx, tipo, kioscoID, uc.usageRepo, uc.ahora())
		if err != nil {
			return nil, err
		}
		uso := dto.RecursoUso{Tipo: string(tipo), Actual: actual, Limite: plan.Limite(tipo)}
		if uso.Limite != nil {
			pct := 0.0
			if *uso.Limite > 0 {
				pct = float64(actual) / float64(*uso.Limite) * 100
			} else if actual > 0 {
				pct = 100
			}
			uso.Porcentaje = &pct
			if pct > masAlto {
				masAlto = pct
				t := string(tipo)
				resp.ProximoLimite = &t
			}
		}
		resp.Recursos = append(resp.Recursos, uso)
	}
	return resp, nil
}

func (uc *CuotaUseCase) planDeKiosco(ctx context.Context, kioscoID string) (*entity.Plan, error) {
	kiosco, err := uc.kioscoRepo.GetByID(ctx, kioscoID)
	if err != nil {
		return nil, err
	}
	if kiosco == nil {
		return nil, domain.ErrNotFound
	}
	plan, err := uc.planRepo.GetByName(ctx, kiosco.PlanName)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

// contar despacha el conteo según tipo. Las ventas se cuentan sobre el mes
// calendario de la fecha de referencia, excluyendo anuladas (lo resuelve el
// repositorio).
func contar(ctx context.Context, tipo entity.TipoLimite, kioscoID string, usage repository.UsageRepository, ahora time.Time) (int, error) {
	switch tipo {
	case entity.LimiteProductos:
		return usage.CountProductos(ctx, kioscoID)
	case entity.LimiteUsuarios:
		return usage.CountUsuarios(ctx, kioscoID)
	case entity.LimiteVentas:
		return usage.CountVentasDelMes(ctx, kioscoID, ahora)
	}
	return 0, domain.ErrInvalidInput
}
