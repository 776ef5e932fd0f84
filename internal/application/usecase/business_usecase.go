package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/pkg/bizno"
)

// BusinessUseCase aplica reglas de negocio para los negocios de un admin.
type BusinessUseCase struct {
	repo     repository.BusinessRepository
	guard    *TenantGuard
	activity *ActivityLogUseCase
}

// NewBusinessUseCase construye el caso de uso con el puerto de persistencia.
func NewBusinessUseCase(repo repository.BusinessRepository, guard *TenantGuard, activity *ActivityLogUseCase) *BusinessUseCase {
	return &BusinessUseCase{repo: repo, guard: guard, activity: activity}
}

// NewBusinessEntity construye un negocio activo a partir de la solicitud (también lo usa el signup).
func NewBusinessEntity(userID string, in dto.CreateBusinessRequest) *entity.Business {
	now := time.Now()
	return &entity.Business{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           strings.TrimSpace(in.Name),
		BusinessNumber: strings.TrimSpace(in.BusinessNumber),
		Representative: strings.TrimSpace(in.Representative),
		BusinessType:   strings.TrimSpace(in.BusinessType),
		BusinessItem:   strings.TrimSpace(in.BusinessItem),
		Address:        strings.TrimSpace(in.Address),
		Phone:          strings.TrimSpace(in.Phone),
		Email:          strings.TrimSpace(in.Email),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// EnsureBusinessNumberFree devuelve ErrBusinessNumberUsed si otro negocio activo usa el número.
func EnsureBusinessNumberFree(ctx context.Context, repo repository.BusinessRepository, number, exceptID string) error {
	existing, err := repo.GetActiveByNumber(ctx, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return domain.ErrBusinessNumberUsed
	}
	return nil
}

// List devuelve los negocios activos del admin.
func (uc *BusinessUseCase) List(ctx context.Context, actor Actor) ([]dto.BusinessResponse, error) {
	list, err := uc.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return mapItems(list, ToBusinessResponse), nil
}

// Get obtiene un negocio propio.
func (uc *BusinessUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.BusinessResponse, error) {
	b, err := uc.guard.Authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := ToBusinessResponse(b)
	return &out, nil
}

// Create crea un negocio. Devuelve ErrBusinessNumberUsed si el número ya está en uso.
func (uc *BusinessUseCase) Create(ctx context.Context, actor Actor, in dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	if err := EnsureBusinessNumberFree(ctx, uc.repo, in.BusinessNumber, ""); err != nil {
		return nil, err
	}
	b := NewBusinessEntity(actor.UserID, in)
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, mapDuplicate(err, domain.ErrBusinessNumberUsed)
	}
	uc.activity.Record(ctx, actor, b.ID, entity.ActionCreate, EntityBusiness, b.ID, "사업장 등록: "+b.Name)
	out := ToBusinessResponse(b)
	return &out, nil
}

// Update modifica los datos de un negocio propio.
func (uc *BusinessUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	b, err := uc.guard.Authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.BusinessNumber != nil && *in.BusinessNumber != b.BusinessNumber {
		if err := EnsureBusinessNumberFree(ctx, uc.repo, *in.BusinessNumber, b.ID); err != nil {
			return nil, err
		}
	}
	b.Name = trimOr(in.Name, b.Name)
	b.BusinessNumber = trimOr(in.BusinessNumber, b.BusinessNumber)
	b.Representative = trimOr(in.Representative, b.Representative)
	b.BusinessType = trimOr(in.BusinessType, b.BusinessType)
	b.BusinessItem = trimOr(in.BusinessItem, b.BusinessItem)
	b.Address = trimOr(in.Address, b.Address)
	b.Phone = trimOr(in.Phone, b.Phone)
	b.Email = trimOr(in.Email, b.Email)
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, mapDuplicate(err, domain.ErrBusinessNumberUsed)
	}
	uc.activity.Record(ctx, actor, b.ID, entity.ActionUpdate, EntityBusiness, b.ID, "사업장 수정: "+b.Name)
	out := ToBusinessResponse(b)
	return &out, nil
}

// Delete desactiva un negocio propio (soft delete).
func (uc *BusinessUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	b, err := uc.guard.Authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.repo.SoftDelete(ctx, b.ID); err != nil {
		return err
	}
	uc.activity.Record(ctx, actor, b.ID, entity.ActionDelete, EntityBusiness, b.ID, "사업장 삭제: "+b.Name)
	return nil
}

// ToBusinessResponse mapea la entidad a DTO.
func ToBusinessResponse(b *entity.Business) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:              b.ID,
		Name:            b.Name,
		BusinessNumber:  b.BusinessNumber,
		CheckDigitValid: bizno.VerifyCheckDigit(b.BusinessNumber) == nil,
		Representative:  b.Representative,
		BusinessType:    b.BusinessType,
		BusinessItem:    b.BusinessItem,
		Address:         b.Address,
		Phone:           b.Phone,
		Email:           b.Email,
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// mapDuplicate traduce ErrDuplicate del repositorio al error de dominio específico.
func mapDuplicate(err, specific error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return specific
	}
	return err
}
