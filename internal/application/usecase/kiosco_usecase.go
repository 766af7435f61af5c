package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
	"github.com/jortega/kiosco-cloud/internal/domain/tenant"
)

var slugInvalido = regexp.MustCompile(`[^a-z0-9]+`)

// KioscoUseCase alta y gestión de kioscos (tenants).
type KioscoUseCase struct {
	kioscoRepo repository.KioscoRepository
	planRepo   repository.PlanRepository
	susRepo    repository.SuscripcionRepository
	userRepo   repository.UserRepository
	cuotaTx    CuotaTxRunner
	ahora      func() time.Time
}

// NewKioscoUseCase construye el caso de uso de kioscos.
func NewKioscoUseCase(kioscoRepo repository.KioscoRepository, planRepo repository.PlanRepository, susRepo repository.SuscripcionRepository, userRepo repository.UserRepository, cuotaTx CuotaTxRunner) *KioscoUseCase {
	return &KioscoUseCase{kioscoRepo: kioscoRepo, planRepo: planRepo, susRepo: susRepo, userRepo: userRepo, cuotaTx: cuotaTx, ahora: time.Now}
}

// Create da de alta un kiosco: genera id y slug, resuelve el schema y
// verifica que ningún kiosco existente resuelva al mismo (el truncado a 8 hex
// admite colisiones; acá se detectan y se falla ruidosamente en vez de dejar
// que dos tenants compartan namespace). Crea además la suscripción inicial
// según el plan: free -> ACTIVA sin vencimiento, pago -> TRIAL de 30 días.
func (uc *KioscoUseCase) Create(ctx context.Context, in dto.CreateKioscoRequest) (*dto.KioscoResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	planName := in.PlanName
	if planName == "" {
		planName = "free"
	}
	plan, err := uc.planRepo.GetByName(ctx, planName)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	id := uuid.New().String()
	schema, err := tenant.SchemaName(id)
	if err != nil {
		return nil, err
	}
	ocupado, err := uc.kioscoRepo.ExistsSchema(ctx, schema)
	if err != nil {
		return nil, err
	}
	if ocupado {
		return nil, domain.ErrSchemaCollision
	}

	now := uc.ahora()
	kiosco := &entity.Kiosco{
		ID:           id,
		Name:         in.Name,
		Slug:         Slugify(in.Name),
		PlanName:     plan.Name,
		Activo:       true,
		CadenaID:     in.CadenaID,
		EsCasaMatriz: false,
		SchemaName:   schema,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.kioscoRepo.Create(ctx, kiosco); err != nil {
		return nil, err
	}

	sus := &entity.Suscripcion{
		ID:            uuid.New().String(),
		KioscoID:      id,
		PlanID:        plan.ID,
		FechaInicio:   now,
		PeriodoFactur: "monthly",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if plan.Name == "free" {
		sus.Estado = entity.EstadoActiva // sin FechaFin: no vence nunca
	} else {
		sus.Estado = entity.EstadoTrial
		sus.FechaFin = now.AddDate(0, 0, 30)
	}
	if err := uc.susRepo.Create(ctx, sus); err != nil {
		return nil, err
	}

	return toKioscoResponse(kiosco), nil
}

// GetByID obtiene un kiosco por id.
func (uc *KioscoUseCase) GetByID(ctx context.Context, id string) (*dto.KioscoResponse, error) {
	k, err := uc.kioscoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, nil
	}
	return toKioscoResponse(k), nil
}

// List lista kioscos con paginación.
func (uc *KioscoUseCase) List(ctx context.Context, limit, offset int) ([]*dto.KioscoResponse, error) {
	kioscos, err := uc.kioscoRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.KioscoResponse, 0, len(kioscos))
	for _, k := range kioscos {
		out = append(out, toKioscoResponse(k))
	}
	return out, nil
}

// Desactivar marca el kiosco como inactivo. No se borra: sus datos y su
// historial de suscripción se conservan.
func (uc *KioscoUseCase) Desactivar(ctx context.Context, id string) error {
	k, err := uc.kioscoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if k == nil {
		return domain.ErrNotFound
	}
	return uc.kioscoRepo.Desactivar(ctx, id)
}

// AgregarUsuario incorpora un usuario existente al kiosco con el rol dado.
// La validación de cuota de usuarios y la inserción de la membresía corren
// en una sola transacción: bajo concurrencia no se puede superar el tope del
// plan entre el conteo y el insert.
func (uc *KioscoUseCase) AgregarUsuario(ctx context.Context, kioscoID string, in dto.AgregarUsuarioRequest) (*dto.MembershipResponse, error) {
	rol := entity.Rol(in.Rol)
	if !rol.Valido() {
		return nil, domain.ErrInvalidInput
	}
	kiosco, err := uc.kioscoRepo.GetByID(ctx, kioscoID)
	if err != nil {
		return nil, err
	}
	if kiosco == nil {
		return nil, domain.ErrNotFound
	}
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	plan, err := uc.planRepo.GetByName(ctx, kiosco.PlanName)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	m := &entity.Membership{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		KioscoID:  kioscoID,
		Rol:       rol,
		CreatedAt: uc.ahora(),
	}
	err = uc.cuotaTx.ConCuotaUsuarios(ctx, kioscoID, plan, func(members repository.MembershipRepository) error {
		return members.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return &dto.MembershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		KioscoID:  m.KioscoID,
		Rol:       string(m.Rol),
		UserEmail: user.Email,
		UserName:  user.Name,
		CreatedAt: m.CreatedAt,
	}, nil
}

// Slugify normaliza un nombre a slug: NFD + eliminación de marcas diacríticas
// (así "Kiosco Río" -> "kiosco-rio"), minúsculas y guiones.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	sinAcentos, _, err := transform.String(t, name)
	if err != nil {
		sinAcentos = name
	}
	s := strings.ToLower(sinAcentos)
	s = slugInvalido.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func toKioscoResponse(k *entity.Kiosco) *dto.KioscoResponse {
	return &dto.KioscoResponse{
		ID:           k.ID,
		Name:         k.Name,
		Slug:         k.Slug,
		PlanName:     k.PlanName,
		Activo:       k.Activo,
		CadenaID:     k.CadenaID,
		EsCasaMatriz: k.EsCasaMatriz,
		SchemaName:   k.SchemaName,
		CreatedAt:    k.CreatedAt,
	}
}
