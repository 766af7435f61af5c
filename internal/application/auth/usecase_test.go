package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jortega/kiosco-cloud/internal/application/auth"
	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
	"github.com/jortega/kiosco-cloud/pkg/token"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	repository.UserRepository
	porEmail map[string]*entity.User
	creados  []*entity.User
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.porEmail[email], nil
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.porEmail[u.Email] = u
	r.creados = append(r.creados, u)
	return nil
}

type memMemberRepo struct {
	repository.MembershipRepository
	miembros []*entity.Membership
}

func (r *memMemberRepo) ListByUser(_ context.Context, userID string) ([]*entity.Membership, error) {
	var out []*entity.Membership
	for _, m := range r.miembros {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMemberRepo) GetByUserAndKiosco(_ context.Context, userID, kioscoID string) (*entity.Membership, error) {
	for _, m := range r.miembros {
		if m.UserID == userID && m.KioscoID == kioscoID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMemberRepo) Create(_ context.Context, m *entity.Membership) error {
	r.miembros = append(r.miembros, m)
	return nil
}

type memKioscoRepo struct {
	repository.KioscoRepository
	porID map[string]*entity.Kiosco
}

func (r *memKioscoRepo) GetByID(_ context.Context, id string) (*entity.Kiosco, error) {
	return r.porID[id], nil
}

type memSusRepo struct {
	repository.SuscripcionRepository
	vigentes map[string]*entity.Suscripcion // por kiosco
	ultimas  map[string]*entity.Suscripcion
}

func (r *memSusRepo) GetVigenteByKiosco(_ context.Context, kioscoID string) (*entity.Suscripcion, error) {
	return r.vigentes[kioscoID], nil
}

func (r *memSusRepo) GetUltimaByKiosco(_ context.Context, kioscoID string) (*entity.Suscripcion, error) {
	return r.ultimas[kioscoID], nil
}

type fakeKioscoCreator struct {
	creado *dto.KioscoResponse
}

func (f *fakeKioscoCreator) Create(_ context.Context, in dto.CreateKioscoRequest) (*dto.KioscoResponse, error) {
	f.creado = &dto.KioscoResponse{ID: "aabbccdd-0000-0000-0000-00000000000f", Name: in.Name, PlanName: in.PlanName, Activo: true}
	return f.creado, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado de escenarios
// ──────────────────────────────────────────────────────────────────────────────

const (
	passwordOK = "secreto-muy-largo"
	emailJuana = "juana@kiosco.test"
)

type escenario struct {
	users   *memUserRepo
	members *memMemberRepo
	kioscos *memKioscoRepo
	sus     *memSusRepo
	creator *fakeKioscoCreator
	tokens  *token.Service
	uc      *auth.AuthUseCase
	user    *entity.User
}

func nuevoEscenario(t *testing.T) *escenario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passwordOK), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entity.User{
		ID:           "00000000-0000-0000-0000-0000000000aa",
		Email:        emailJuana,
		PasswordHash: string(hash),
		Name:         "Juana",
		Status:       "active",
	}
	e := &escenario{
		users:   &memUserRepo{porEmail: map[string]*entity.User{user.Email: user}},
		members: &memMemberRepo{},
		kioscos: &memKioscoRepo{porID: map[string]*entity.Kiosco{}},
		sus:     &memSusRepo{vigentes: map[string]*entity.Suscripcion{}, ultimas: map[string]*entity.Suscripcion{}},
		creator: &fakeKioscoCreator{},
		user:    user,
	}
	e.tokens, err = token.New("secreto-de-test-para-auth", "kiosco-cloud-test", time.Hour)
	require.NoError(t, err)
	e.uc = auth.NewAuthUseCase(e.users, e.members, e.kioscos, e.sus, e.creator, e.tokens, nil)
	return e
}

// agregarKiosco registra un kiosco con membresía de Juana y el estado de
// suscripción indicado: "ACTIVA", "TRIAL", "VENCIDA", "CANCELADA" o "" (sin
// registro alguno).
func (e *escenario) agregarKiosco(id, name string, activo bool, estadoSus entity.EstadoSuscripcion) {
	e.kioscos.porID[id] = &entity.Kiosco{ID: id, Name: name, PlanName: "basico", Activo: activo}
	e.members.miembros = append(e.members.miembros, &entity.Membership{
		ID: "m-" + id, UserID: e.user.ID, KioscoID: id, Rol: entity.RolOwner,
	})
	if estadoSus == "" {
		return
	}
	s := &entity.Suscripcion{ID: "s-" + id, KioscoID: id, Estado: estadoSus, FechaFin: time.Now().Add(time.Hour)}
	if estadoSus.Vigente() {
		e.sus.vigentes[id] = s
	}
	e.sus.ultimas[id] = s
}

func login(t *testing.T, e *escenario, kioscoID string) (*dto.LoginResponse, error) {
	t.Helper()
	return e.uc.Login(context.Background(), dto.LoginRequest{Email: emailJuana, Password: passwordOK, KioscoID: kioscoID})
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

// Un solo kiosco disponible: token atado al tenant, sin paso de selección.
func TestLogin_UnSoloKioscoEmiteTokenConTenant(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Centro", true, entity.EstadoActiva)

	resp, err := login(t, e, "")
	require.NoError(t, err)
	assert.False(t, resp.NecesitaSeleccion)

	claims, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "aabbccdd-1111-0000-0000-000000000001", claims.KioscoID)
	assert.Equal(t, "owner", claims.KioscoRole)
	assert.Equal(t, e.user.ID, claims.UserID)
}

// Kioscos inactivos y sin suscripción vigente se filtran en silencio si
// queda al menos uno válido.
func TestLogin_FiltraInactivosYVencidosSiQuedaUno(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Centro", true, entity.EstadoActiva)
	e.agregarKiosco("aabbccdd-2222-0000-0000-000000000002", "Kiosco Cerrado", false, entity.EstadoActiva)
	e.agregarKiosco("aabbccdd-3333-0000-0000-000000000003", "Kiosco Moroso", true, entity.EstadoVencida)

	resp, err := login(t, e, "")
	require.NoError(t, err)
	assert.False(t, resp.NecesitaSeleccion, "con un único disponible no hay selección")

	claims, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "aabbccdd-1111-0000-0000-000000000001", claims.KioscoID)
}

// Varios disponibles: token de selección sin tenant y lista de opciones.
func TestLogin_VariosKioscosPideSeleccion(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Centro", true, entity.EstadoActiva)
	e.agregarKiosco("aabbccdd-2222-0000-0000-000000000002", "Kiosco Norte", true, entity.EstadoTrial)

	resp, err := login(t, e, "")
	require.NoError(t, err)
	assert.True(t, resp.NecesitaSeleccion)
	assert.Len(t, resp.Kioscos, 2)

	claims, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Empty(t, claims.KioscoID, "el token de selección no lleva tenant")
	assert.Empty(t, claims.KioscoRole)
}

// La selección explícita de un kiosco no disponible se rechaza aunque el
// usuario tenga otro kiosco perfectamente válido.
func TestLogin_SeleccionExplicitaDeInactivoSeRechaza(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Centro", true, entity.EstadoActiva)
	e.agregarKiosco("aabbccdd-2222-0000-0000-000000000002", "Kiosco Cerrado", false, entity.EstadoActiva)

	_, err := login(t, e, "aabbccdd-2222-0000-0000-000000000002")
	assert.ErrorIs(t, err, domain.ErrSeleccionInvalida)
}

// Sin ningún kiosco disponible el login falla listando cada motivo.
func TestLogin_SinDisponiblesDevuelveMotivos(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Cerrado", false, entity.EstadoActiva)
	e.agregarKiosco("aabbccdd-2222-0000-0000-000000000002", "Kiosco Moroso", true, entity.EstadoVencida)
	e.agregarKiosco("aabbccdd-3333-0000-0000-000000000003", "Kiosco Baja", true, entity.EstadoCancelada)

	_, err := login(t, e, "")
	var sinKioscos *domain.SinKioscosDisponiblesError
	require.ErrorAs(t, err, &sinKioscos)
	require.Len(t, sinKioscos.Kioscos, 3)

	motivos := map[string]string{}
	for _, k := range sinKioscos.Kioscos {
		motivos[k.KioscoName] = k.Motivo
	}
	assert.Equal(t, domain.MotivoInactivo, motivos["Kiosco Cerrado"])
	assert.Equal(t, domain.MotivoSuscripcionVencida, motivos["Kiosco Moroso"])
	assert.Equal(t, domain.MotivoSuscripcionCancelada, motivos["Kiosco Baja"])
}

// Un kiosco que jamás tuvo suscripción se trata como vencido.
func TestLogin_SinRegistroDeSuscripcionCuentaComoVencida(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Nuevo", true, "")

	_, err := login(t, e, "")
	var sinKioscos *domain.SinKioscosDisponiblesError
	require.ErrorAs(t, err, &sinKioscos)
	require.Len(t, sinKioscos.Kioscos, 1)
	assert.Equal(t, domain.MotivoSuscripcionVencida, sinKioscos.Kioscos[0].Motivo)
}

func TestLogin_PasswordIncorrectoFalla(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Centro", true, entity.EstadoActiva)

	_, err := e.uc.Login(context.Background(), dto.LoginRequest{Email: emailJuana, Password: "equivocado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailInexistenteFalla(t *testing.T) {
	e := nuevoEscenario(t)
	_, err := e.uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@kiosco.test", Password: passwordOK})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// SeleccionarKiosco (canje del token de selección)
// ──────────────────────────────────────────────────────────────────────────────

func claimsDeSeleccion(t *testing.T, e *escenario) *token.Claims {
	t.Helper()
	tok, err := e.tokens.Issue(e.user.Email, e.user.ID, e.user.Name, "", "")
	require.NoError(t, err)
	claims, err := e.tokens.Verify(tok)
	require.NoError(t, err)
	return claims
}

func TestSeleccionarKiosco_CanjeaPorTokenConTenant(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Centro", true, entity.EstadoActiva)

	resp, err := e.uc.SeleccionarKiosco(context.Background(), claimsDeSeleccion(t, e), "aabbccdd-1111-0000-0000-000000000001")
	require.NoError(t, err)

	claims, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "aabbccdd-1111-0000-0000-000000000001", claims.KioscoID)
	assert.Equal(t, "owner", claims.KioscoRole)
}

// La situación pudo cambiar entre el login y el canje: se revalida todo.
func TestSeleccionarKiosco_KioscoDesactivadoEntreMediasSeRechaza(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Centro", true, entity.EstadoActiva)
	claims := claimsDeSeleccion(t, e)

	e.kioscos.porID["aabbccdd-1111-0000-0000-000000000001"].Activo = false

	_, err := e.uc.SeleccionarKiosco(context.Background(), claims, "aabbccdd-1111-0000-0000-000000000001")
	assert.ErrorIs(t, err, domain.ErrSeleccionInvalida)
}

func TestSeleccionarKiosco_SinMembresiaSeRechaza(t *testing.T) {
	e := nuevoEscenario(t)
	e.agregarKiosco("aabbccdd-1111-0000-0000-000000000001", "Kiosco Centro", true, entity.EstadoActiva)

	_, err := e.uc.SeleccionarKiosco(context.Background(), claimsDeSeleccion(t, e), "aabbccdd-9999-0000-0000-000000000009")
	assert.ErrorIs(t, err, domain.ErrSeleccionInvalida)
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaUsuarioKioscoYMembresiaOwner(t *testing.T) {
	e := nuevoEscenario(t)
	resp, err := e.uc.Register(context.Background(), dto.RegisterRequest{
		Email:      "nuevo@kiosco.test",
		Password:   "otra-clave-larga",
		Name:       "Nuevo",
		KioscoName: "Mi Kiosco",
	})
	require.NoError(t, err)
	require.NotNil(t, e.creator.creado, "debe crearse el kiosco")

	require.Len(t, e.members.miembros, 1)
	assert.Equal(t, entity.RolOwner, e.members.miembros[0].Rol)

	claims, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, e.creator.creado.ID, claims.KioscoID)
	assert.Equal(t, "owner", claims.KioscoRole)
}

func TestRegister_EmailDuplicadoFalla(t *testing.T) {
	e := nuevoEscenario(t)
	_, err := e.uc.Register(context.Background(), dto.RegisterRequest{
		Email:      emailJuana,
		Password:   "clave",
		KioscoName: "Otro",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
