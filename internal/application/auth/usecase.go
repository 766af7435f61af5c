package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
	"github.com/jortega/kiosco-cloud/pkg/token"
)

// KioscoCreator crea kioscos con verificación de schema (lo implementa
// usecase.KioscoUseCase; la interfaz evita el import circular).
type KioscoCreator interface {
	Create(ctx context.Context, in dto.CreateKioscoRequest) (*dto.KioscoResponse, error)
}

// Revocador invalida tokens antes de su expiración (blacklist). Puede ser
// nil: en ese caso Logout es un no-op.
type Revocador interface {
	Revocar(ctx context.Context, tok string, expiresAt time.Time) error
}

// AuthUseCase casos de uso de autenticación: registro, login con selección
// de kiosco, canje del token de selección y logout.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	memberRepo repository.MembershipRepository
	kioscoRepo repository.KioscoRepository
	susRepo    repository.SuscripcionRepository
	kioscos    KioscoCreator
	tokens     *token.Service
	revocador  Revocador
	ahora      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	memberRepo repository.MembershipRepository,
	kioscoRepo repository.KioscoRepository,
	susRepo repository.SuscripcionRepository,
	kioscos KioscoCreator,
	tokens *token.Service,
	revocador Revocador,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:   userRepo,
		memberRepo: memberRepo,
		kioscoRepo: kioscoRepo,
		susRepo:    susRepo,
		kioscos:    kioscos,
		tokens:     tokens,
		revocador:  revocador,
		ahora:      time.Now,
	}
}

// Register da de alta un usuario dueño con su kiosco: hashea el password con
// bcrypt, crea el kiosco (con verificación de colisión de schema) y la
// membresía owner. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if in.Email == "" || in.Password == "" || in.KioscoName == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.ahora()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	planName := in.PlanName
	if planName == "" {
		planName = "free"
	}
	kiosco, err := uc.kioscos.Create(ctx, dto.CreateKioscoRequest{Name: in.KioscoName, PlanName: planName})
	if err != nil {
		return nil, err
	}
	member := &entity.Membership{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		KioscoID:  kiosco.ID,
		Rol:       entity.RolOwner,
		CreatedAt: now,
	}
	if err := uc.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	tok, err := uc.tokens.Issue(user.Email, user.ID, user.Name, kiosco.ID, string(entity.RolOwner))
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: tok, User: toUserResponse(user)}, nil
}

// kioscoEvaluado es el resultado de clasificar una membresía durante el login.
type kioscoEvaluado struct {
	kiosco *entity.Kiosco
	rol    entity.Rol
	motivo string // vacío = disponible
}

// Login verifica credenciales y resuelve el destino del usuario:
//   - un solo kiosco disponible -> token con tenant y rol;
//   - varios -> token de selección de cuenta más la lista de opciones;
//   - la selección explícita de un kiosco no disponible se rechaza aunque
//     existan otras membresías válidas;
//   - ninguno -> SinKioscosDisponiblesError con el motivo de cada filtrado.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}

	evaluados, err := uc.evaluarMembresias(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var disponibles []kioscoEvaluado
	var filtrados []domain.KioscoNoDisponible
	for _, ev := range evaluados {
		if ev.motivo == "" {
			disponibles = append(disponibles, ev)
		} else {
			filtrados = append(filtrados, domain.KioscoNoDisponible{KioscoName: ev.kiosco.Name, Motivo: ev.motivo})
		}
	}

	// Selección explícita: el kiosco pedido debe estar entre los disponibles.
	// Un kiosco inactivo o sin suscripción no es destino legal aunque el
	// usuario tenga membresía en él.
	if in.KioscoID != "" {
		for _, ev := range disponibles {
			if ev.kiosco.ID == in.KioscoID {
				return uc.responderConKiosco(user, ev)
			}
		}
		return nil, domain.ErrSeleccionInvalida
	}

	switch len(disponibles) {
	case 0:
		return nil, &domain.SinKioscosDisponiblesError{Kioscos: filtrados}
	case 1:
		return uc.responderConKiosco(user, disponibles[0])
	default:
		// Varios kioscos: token de selección (sin tenant ni rol) y opciones.
		tok, err := uc.tokens.Issue(user.Email, user.ID, user.Name, "", "")
		if err != nil {
			return nil, err
		}
		opciones := make([]dto.KioscoDisponible, 0, len(disponibles))
		for _, ev := range disponibles {
			opciones = append(opciones, dto.KioscoDisponible{ID: ev.kiosco.ID, Name: ev.kiosco.Name, Rol: string(ev.rol)})
		}
		return &dto.LoginResponse{
			Token:             tok,
			NecesitaSeleccion: true,
			Kioscos:           opciones,
			User:              toUserResponse(user),
		}, nil
	}
}

// SeleccionarKiosco canjea un token de selección de cuenta por un token con
// tenant. Revalida membresía, estado del kiosco y suscripción: la situación
// pudo cambiar desde el login.
func (uc *AuthUseCase) SeleccionarKiosco(ctx context.Context, claims *token.Claims, kioscoID string) (*dto.LoginResponse, error) {
	if kioscoID == "" {
		return nil, domain.ErrInvalidInput
	}
	member, err := uc.memberRepo.GetByUserAndKiosco(ctx, claims.UserID, kioscoID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrSeleccionInvalida
	}
	kiosco, err := uc.kioscoRepo.GetByID(ctx, kioscoID)
	if err != nil {
		return nil, err
	}
	if kiosco == nil || !kiosco.Activo {
		return nil, domain.ErrSeleccionInvalida
	}
	if motivo, err := uc.motivoSuscripcion(ctx, kioscoID); err != nil {
		return nil, err
	} else if motivo != "" {
		return nil, domain.ErrSeleccionInvalida
	}
	tok, err := uc.tokens.Issue(claims.Subject, claims.UserID, claims.UserName, kioscoID, string(member.Rol))
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: tok}, nil
}

// Logout revoca el token presentado por el resto de su vida útil.
// Sin blacklist configurado es un no-op: el token expira solo.
func (uc *AuthUseCase) Logout(ctx context.Context, tok string, claims *token.Claims) error {
	if uc.revocador == nil {
		return nil
	}
	return uc.revocador.Revocar(ctx, tok, claims.ExpiresAt.Time)
}

// evaluarMembresias clasifica cada kiosco del usuario como disponible o
// filtrado con motivo (INACTIVO, SUSCRIPCION_VENCIDA, SUSCRIPCION_CANCELADA).
func (uc *AuthUseCase) evaluarMembresias(ctx context.Context, userID string) ([]kioscoEvaluado, error) {
	members, err := uc.memberRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, domain.ErrForbidden
	}
	out := make([]kioscoEvaluado, 0, len(members))
	for _, m := range members {
		kiosco, err := uc.kioscoRepo.GetByID(ctx, m.KioscoID)
		if err != nil {
			return nil, err
		}
		if kiosco == nil {
			continue
		}
		ev := kioscoEvaluado{kiosco: kiosco, rol: m.Rol}
		if !kiosco.Activo {
			ev.motivo = domain.MotivoInactivo
		} else {
			motivo, err := uc.motivoSuscripcion(ctx, kiosco.ID)
			if err != nil {
				return nil, err
			}
			ev.motivo = motivo
		}
		out = append(out, ev)
	}
	return out, nil
}

// motivoSuscripcion devuelve vacío si el kiosco tiene suscripción vigente, o
// el motivo de exclusión. Sin registro alguno se trata como vencida: un
// kiosco de plan pago nunca tuvo o perdió su suscripción.
func (uc *AuthUseCase) motivoSuscripcion(ctx context.Context, kioscoID string) (string, error) {
	vigente, err := uc.susRepo.GetVigenteByKiosco(ctx, kioscoID)
	if err != nil {
		return "", err
	}
	if vigente != nil && !vigente.Vencida(uc.ahora()) {
		return "", nil
	}
	ultima, err := uc.susRepo.GetUltimaByKiosco(ctx, kioscoID)
	if err != nil {
		return "", err
	}
	if ultima != nil && ultima.Estado == entity.EstadoCancelada {
		return domain.MotivoSuscripcionCancelada, nil
	}
	return domain.MotivoSuscripcionVencida, nil
}

func (uc *AuthUseCase) responderConKiosco(user *entity.User, ev kioscoEvaluado) (*dto.LoginResponse, error) {
	tok, err := uc.tokens.Issue(user.Email, user.ID, user.Name, ev.kiosco.ID, string(ev.rol))
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: tok, User: toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
