package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
	"github.com/jortega/kiosco-cloud/internal/domain/tenant"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memKioscos struct {
	repository.KioscoRepository
	porID          map[string]*entity.Kiosco
	schemaOcupado  bool
	schemasPedidos []string
}

func (r *memKioscos) Create(_ context.Context, k *entity.Kiosco) error {
	r.porID[k.ID] = k
	return nil
}

func (r *memKioscos) GetByID(_ context.Context, id string) (*entity.Kiosco, error) {
	return r.porID[id], nil
}

func (r *memKioscos) ExistsSchema(_ context.Context, schema string) (bool, error) {
	r.schemasPedidos = append(r.schemasPedidos, schema)
	return r.schemaOcupado, nil
}

type memPlanes struct {
	repository.PlanRepository
	porNombre map[string]*entity.Plan
}

func (r *memPlanes) GetByName(_ context.Context, name string) (*entity.Plan, error) {
	return r.porNombre[name], nil
}

type memSuscripciones struct {
	repository.SuscripcionRepository
	creadas []*entity.Suscripcion
}

func (r *memSuscripciones) Create(_ context.Context, s *entity.Suscripcion) error {
	r.creadas = append(r.creadas, s)
	return nil
}

type memUsers struct {
	repository.UserRepository
	porEmail map[string]*entity.User
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.porEmail[email], nil
}

// fakeTxRunner simula el cierre transaccional: valida la cuota contra el
// conteo configurado y entrega un repo de membresías en memoria.
type fakeTxRunner struct {
	usuariosActuales int
	creadas          []*entity.Membership
}

type txMembers struct {
	repository.MembershipRepository
	runner *fakeTxRunner
}

func (m txMembers) Create(_ context.Context, mb *entity.Membership) error {
	m.runner.creadas = append(m.runner.creadas, mb)
	return nil
}

func (f *fakeTxRunner) ConCuotaUsuarios(ctx context.Context, kioscoID string, plan *entity.Plan, fn func(repository.MembershipRepository) error) error {
	err := usecase.ValidarCuota(ctx, entity.LimiteUsuarios, kioscoID, plan, fakeUsage{usuarios: f.usuariosActuales}, time.Now())
	if err != nil {
		return err
	}
	return fn(txMembers{runner: f})
}

type entorno struct {
	kioscos *memKioscos
	planes  *memPlanes
	sus     *memSuscripciones
	users   *memUsers
	tx      *fakeTxRunner
	uc      *usecase.KioscoUseCase
}

func nuevoEntorno() *entorno {
	e := &entorno{
		kioscos: &memKioscos{porID: map[string]*entity.Kiosco{}},
		planes: &memPlanes{porNombre: map[string]*entity.Plan{
			"free":   {ID: "p-free", Name: "free"},
			"basico": {ID: "p-basico", Name: "basico", MaxUsuarios: intPtr(2)},
		}},
		sus:   &memSuscripciones{},
		users: &memUsers{porEmail: map[string]*entity.User{}},
		tx:    &fakeTxRunner{},
	}
	e.uc = usecase.NewKioscoUseCase(e.kioscos, e.planes, e.sus, e.users, e.tx)
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateKiosco_ResuelveSchemaYObligaUnicidad(t *testing.T) {
	e := nuevoEntorno()
	out, err := e.uc.Create(context.Background(), dto.CreateKioscoRequest{Name: "Kiosco Río"})
	require.NoError(t, err)

	assert.True(t, tenant.EsSchemaValido(out.SchemaName),
		"el schema debe ser kiosco_ más 8 hex")
	esperado, err := tenant.SchemaName(out.ID)
	require.NoError(t, err)
	assert.Equal(t, esperado, out.SchemaName)

	require.Len(t, e.kioscos.schemasPedidos, 1,
		"la creación debe consultar si el schema ya está tomado")
	assert.Equal(t, esperado, e.kioscos.schemasPedidos[0])
}

func TestCreateKiosco_ColisionDeSchemaFalla(t *testing.T) {
	e := nuevoEntorno()
	e.kioscos.schemaOcupado = true

	_, err := e.uc.Create(context.Background(), dto.CreateKioscoRequest{Name: "Kiosco"})
	assert.ErrorIs(t, err, domain.ErrSchemaCollision)
	assert.Empty(t, e.kioscos.porID, "ante colisión no debe persistirse nada")
}

// El plan free arranca ACTIVA sin vencimiento; un plan pago arranca en TRIAL
// de 30 días.
func TestCreateKiosco_SuscripcionInicialSegunPlan(t *testing.T) {
	e := nuevoEntorno()

	_, err := e.uc.Create(context.Background(), dto.CreateKioscoRequest{Name: "Gratis"})
	require.NoError(t, err)
	require.Len(t, e.sus.creadas, 1)
	assert.Equal(t, entity.EstadoActiva, e.sus.creadas[0].Estado)
	assert.True(t, e.sus.creadas[0].FechaFin.IsZero(), "el plan free no vence")

	_, err = e.uc.Create(context.Background(), dto.CreateKioscoRequest{Name: "Pago", PlanName: "basico"})
	require.NoError(t, err)
	require.Len(t, e.sus.creadas, 2)
	assert.Equal(t, entity.EstadoTrial, e.sus.creadas[1].Estado)
	assert.False(t, e.sus.creadas[1].FechaFin.IsZero(), "el trial tiene vencimiento")
}

func TestCreateKiosco_PlanDesconocidoFalla(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.uc.Create(context.Background(), dto.CreateKioscoRequest{Name: "Kiosco", PlanName: "inexistente"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Slugify
// ──────────────────────────────────────────────────────────────────────────────

func TestSlugify(t *testing.T) {
	casos := map[string]string{
		"Kiosco Río":       "kiosco-rio",
		"El Kiosco   Azul": "el-kiosco-azul",
		"Café & Más!":      "cafe-mas",
		"ÑANDÚ":            "nandu",
	}
	for entrada, esperado := range casos {
		assert.Equal(t, esperado, usecase.Slugify(entrada), "slug de %q", entrada)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AgregarUsuario (cuota + inserción en una transacción)
// ──────────────────────────────────────────────────────────────────────────────

func prepararKioscoConUsuario(e *entorno, t *testing.T) string {
	t.Helper()
	out, err := e.uc.Create(context.Background(), dto.CreateKioscoRequest{Name: "Kiosco", PlanName: "basico"})
	require.NoError(t, err)
	e.users.porEmail["cajero@kiosco.test"] = &entity.User{ID: "u-2", Email: "cajero@kiosco.test", Name: "Caja"}
	return out.ID
}

func TestAgregarUsuario_DebajoDelTopeCrea(t *testing.T) {
	e := nuevoEntorno()
	kioscoID := prepararKioscoConUsuario(e, t)
	e.tx.usuariosActuales = 1 // tope del plan basico: 2

	out, err := e.uc.AgregarUsuario(context.Background(), kioscoID, dto.AgregarUsuarioRequest{Email: "cajero@kiosco.test", Rol: "cashier"})
	require.NoError(t, err)
	assert.Equal(t, "u-2", out.UserID)
	assert.Equal(t, "cashier", out.Rol)
	require.Len(t, e.tx.creadas, 1, "la membresía se crea dentro del cierre transaccional")
}

func TestAgregarUsuario_EnElTopeFallaConCuota(t *testing.T) {
	e := nuevoEntorno()
	kioscoID := prepararKioscoConUsuario(e, t)
	e.tx.usuariosActuales = 2

	_, err := e.uc.AgregarUsuario(context.Background(), kioscoID, dto.AgregarUsuarioRequest{Email: "cajero@kiosco.test", Rol: "cashier"})
	var cuota *domain.CuotaExcedidaError
	require.ErrorAs(t, err, &cuota)
	assert.Equal(t, "USUARIOS", cuota.Tipo)
	assert.Empty(t, e.tx.creadas, "ante cuota excedida no se inserta nada")
}

func TestAgregarUsuario_RolInvalidoFalla(t *testing.T) {
	e := nuevoEntorno()
	kioscoID := prepararKioscoConUsuario(e, t)

	_, err := e.uc.AgregarUsuario(context.Background(), kioscoID, dto.AgregarUsuarioRequest{Email: "cajero@kiosco.test", Rol: "superadmin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
