package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositorios
// ──────────────────────────────────────────────────────────────────────────────

type fakeUsage struct {
	productos, usuarios, ventas int
}

func (f fakeUsage) CountProductos(_ context.Context, _ string) (int, error) { return f.productos, nil }
func (f fakeUsage) CountUsuarios(_ context.Context, _ string) (int, error)  { return f.usuarios, nil }
func (f fakeUsage) CountVentasDelMes(_ context.Context, _ string, _ time.Time) (int, error) {
	return f.ventas, nil
}

type fakeKioscoRepo struct {
	repository.KioscoRepository
	kiosco *entity.Kiosco
}

func (f fakeKioscoRepo) GetByID(_ context.Context, _ string) (*entity.Kiosco, error) {
	return f.kiosco, nil
}

type fakePlanRepo struct {
	repository.PlanRepository
	plan *entity.Plan
}

func (f fakePlanRepo) GetByName(_ context.Context, _ string) (*entity.Plan, error) {
	return f.plan, nil
}

func intPtr(n int) *int { return &n }

func planConLimites(prod, usu, ventas *int) *entity.Plan {
	return &entity.Plan{
		ID:              "plan-1",
		Name:            "basico",
		MaxProductos:    prod,
		MaxUsuarios:     usu,
		MaxVentasPorMes: ventas,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidarCuota
// ──────────────────────────────────────────────────────────────────────────────

// Debajo del tope se puede crear.
func TestValidarCuota_DebajoDelLimitePasa(t *testing.T) {
	plan := planConLimites(intPtr(100), nil, nil)
	err := usecase.ValidarCuota(context.Background(), entity.LimiteProductos, "k1", plan, fakeUsage{productos: 99}, time.Now())
	assert.NoError(t, err)
}

// En el tope exacto ya no: la regla es estricto menor para crear.
func TestValidarCuota_EnElLimiteExactoFalla(t *testing.T) {
	plan := planConLimites(intPtr(100), nil, nil)
	err := usecase.ValidarCuota(context.Background(), entity.LimiteProductos, "k1", plan, fakeUsage{productos: 100}, time.Now())

	var cuota *domain.CuotaExcedidaError
	require.ErrorAs(t, err, &cuota)
	assert.Equal(t, "PRODUCTOS", cuota.Tipo)
	assert.Equal(t, 100, cuota.Actual)
	assert.Equal(t, 100, cuota.Limite)
	assert.Equal(t, "basico", cuota.PlanName)
}

// Límite nil significa ilimitado: nunca bloquea, sin importar el conteo.
func TestValidarCuota_LimiteNilEsIlimitado(t *testing.T) {
	plan := planConLimites(nil, nil, nil)
	err := usecase.ValidarCuota(context.Background(), entity.LimiteProductos, "k1", plan, fakeUsage{productos: 1_000_000}, time.Now())
	assert.NoError(t, err)
}

func TestValidarCuota_UsuariosYVentas(t *testing.T) {
	plan := planConLimites(nil, intPtr(3), intPtr(500))

	err := usecase.ValidarCuota(context.Background(), entity.LimiteUsuarios, "k1", plan, fakeUsage{usuarios: 3}, time.Now())
	assert.Error(t, err, "tres usuarios con tope 3 no admite un cuarto")

	err = usecase.ValidarCuota(context.Background(), entity.LimiteVentas, "k1", plan, fakeUsage{ventas: 499}, time.Now())
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Uso (foto de consumo)
// ──────────────────────────────────────────────────────────────────────────────

func nuevoCuotaUC(plan *entity.Plan, usage fakeUsage) *usecase.CuotaUseCase {
	kiosco := &entity.Kiosco{ID: "k1", Name: "Kiosco Uno", PlanName: plan.Name, Activo: true}
	return usecase.NewCuotaUseCase(fakeKioscoRepo{kiosco: kiosco}, fakePlanRepo{plan: plan}, usage)
}

func TestUso_PorcentajesYProximoLimite(t *testing.T) {
	plan := planConLimites(intPtr(100), intPtr(10), intPtr(500))
	uc := nuevoCuotaUC(plan, fakeUsage{productos: 50, usuarios: 9, ventas: 100})

	uso, err := uc.Uso(context.Background(), "k1")
	require.NoError(t, err)
	require.Len(t, uso.Recursos, 3)

	porTipo := map[string]float64{}
	for _, r := range uso.Recursos {
		require.NotNil(t, r.Porcentaje, "con límite finito el porcentaje se informa")
		porTipo[r.Tipo] = *r.Porcentaje
	}
	assert.InDelta(t, 50.0, porTipo["PRODUCTOS"], 0.01)
	assert.InDelta(t, 90.0, porTipo["USUARIOS"], 0.01)
	assert.InDelta(t, 20.0, porTipo["VENTAS"], 0.01)

	require.NotNil(t, uso.ProximoLimite)
	assert.Equal(t, "USUARIOS", *uso.ProximoLimite,
		"el recurso más cerca de su tope es el próximo límite a tocar")
}

// Con todos los límites ilimitados no hay próximo límite ni porcentajes.
func TestUso_TodoIlimitadoSinProximoLimite(t *testing.T) {
	plan := planConLimites(nil, nil, nil)
	uc := nuevoCuotaUC(plan, fakeUsage{productos: 5000, usuarios: 40, ventas: 9999})

	uso, err := uc.Uso(context.Background(), "k1")
	require.NoError(t, err)

	assert.Nil(t, uso.ProximoLimite)
	for _, r := range uso.Recursos {
		assert.Nil(t, r.Limite)
		assert.Nil(t, r.Porcentaje)
	}
}

func TestValidateCanCreate_ResuelvePlanDelKiosco(t *testing.T) {
	plan := planConLimites(intPtr(1), nil, nil)
	uc := nuevoCuotaUC(plan, fakeUsage{productos: 1})

	err := uc.ValidateCanCreate(context.Background(), entity.LimiteProductos, "k1")
	var cuota *domain.CuotaExcedidaError
	require.ErrorAs(t, err, &cuota)
	assert.Equal(t, 1, cuota.Limite)
}
