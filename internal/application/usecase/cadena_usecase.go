package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

// CadenaUseCase gestión de cadenas y visibilidad entre kioscos.
type CadenaUseCase struct {
	cadenaRepo repository.CadenaRepository
	kioscoRepo repository.KioscoRepository
	ahora      func() time.Time
}

// NewCadenaUseCase construye el caso de uso de cadenas.
func NewCadenaUseCase(cadenaRepo repository.CadenaRepository, kioscoRepo repository.KioscoRepository) *CadenaUseCase {
	return &CadenaUseCase{cadenaRepo: cadenaRepo, kioscoRepo: kioscoRepo, ahora: time.Now}
}

// Create da de alta una cadena; el creador queda como miembro owner.
func (uc *CadenaUseCase) Create(ctx context.Context, ownerID string, in dto.CreateCadenaRequest) (*dto.CadenaResponse, error) {
	if in.Name == "" || ownerID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.ahora()
	cadena := &entity.Cadena{
		ID:        uuid.New().String(),
		Name:      in.Name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.cadenaRepo.Create(ctx, cadena); err != nil {
		return nil, err
	}
	owner := &entity.MiembroCadena{
		ID:        uuid.New().String(),
		CadenaID:  cadena.ID,
		UserID:    ownerID,
		Rol:       entity.RolCadenaOwner,
		VerTodos:  true,
		CreatedAt: now,
	}
	if err := uc.cadenaRepo.CreateMiembro(ctx, owner); err != nil {
		return nil, err
	}
	return &dto.CadenaResponse{ID: cadena.ID, Name: cadena.Name, OwnerID: cadena.OwnerID, CreatedAt: cadena.CreatedAt}, nil
}

// AgregarMiembro suma un usuario a la cadena con rol y allow-list opcional.
func (uc *CadenaUseCase) AgregarMiembro(ctx context.Context, cadenaID string, in dto.AgregarMiembroRequest) (*dto.MiembroCadenaResponse, error) {
	rol := entity.RolCadena(in.Rol)
	if rol != entity.RolCadenaOwner && rol != entity.RolCadenaAdmin && rol != entity.RolCadenaViewer {
		return nil, domain.ErrInvalidInput
	}
	cadena, err := uc.cadenaRepo.GetByID(ctx, cadenaID)
	if err != nil {
		return nil, err
	}
	if cadena == nil {
		return nil, domain.ErrNotFound
	}
	m := &entity.MiembroCadena{
		ID:              uuid.New().String(),
		CadenaID:        cadenaID,
		UserID:          in.UserID,
		Rol:             rol,
		VerTodos:        in.VerTodos,
		KioscosVisibles: in.KioscosVisibles,
		CreatedAt:       uc.ahora(),
	}
	if err := uc.cadenaRepo.CreateMiembro(ctx, m); err != nil {
		return nil, err
	}
	return toMiembroResponse(m), nil
}

// PuedeVer decide si el usuario puede ver el kiosco dentro de la cadena.
// Se reevalúa en cada llamada (la membresía se relee, nunca se cachea).
func (uc *CadenaUseCase) PuedeVer(ctx context.Context, cadenaID, userID, kioscoID string) (bool, error) {
	m, err := uc.cadenaRepo.GetMiembro(ctx, cadenaID, userID)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	return m.PuedeVer(kioscoID), nil
}

// KioscosVisibles lista los kioscos de la cadena que el usuario puede ver.
func (uc *CadenaUseCase) KioscosVisibles(ctx context.Context, cadenaID, userID string) ([]*dto.KioscoResponse, error) {
	m, err := uc.cadenaRepo.GetMiembro(ctx, cadenaID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrForbidden
	}
	kioscos, err := uc.kioscoRepo.ListByCadena(ctx, cadenaID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.KioscoResponse, 0, len(kioscos))
	for _, k := range kioscos {
		if m.PuedeVer(k.ID) {
			out = append(out, toKioscoResponse(k))
		}
	}
	return out, nil
}

func toMiembroResponse(m *entity.MiembroCadena) *dto.MiembroCadenaResponse {
	return &dto.MiembroCadenaResponse{
		ID:              m.ID,
		CadenaID:        m.CadenaID,
		UserID:          m.UserID,
		Rol:             string(m.Rol),
		VerTodos:        m.VerTodos,
		KioscosVisibles: m.KioscosVisibles,
	}
}
