package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios sales_viewer asignados a un negocio (solo admin).
type UserUseCase struct {
	repo     repository.UserRepository
	activity *ActivityLogUseCase
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, activity *ActivityLogUseCase) *UserUseCase {
	return &UserUseCase{repo: repo, activity: activity}
}

// List usuarios asignados al negocio.
func (uc *UserUseCase) List(ctx context.Context, businessID string) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return mapItems(users, ToUserResponse), nil
}

// Create da de alta un sales_viewer con el negocio asignado.
func (uc *UserUseCase) Create(ctx context.Context, actor Actor, businessID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
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
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         entity.RoleSalesViewer,
		BusinessID:   businessID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, mapDuplicate(err, domain.ErrEmailAlreadyExists)
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionCreate, EntityUser, u.ID, "영업 사용자 등록: "+u.Name)
	out := ToUserResponse(u)
	return &out, nil
}

// Update modifica nombre, teléfono, estado o contraseña de un usuario del negocio.
func (uc *UserUseCase) Update(ctx context.Context, actor Actor, businessID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	u.Name = trimOr(in.Name, u.Name)
	u.Phone = trimOr(in.Phone, u.Phone)
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionUpdate, EntityUser, u.ID, "영업 사용자 수정: "+u.Name)
	out := ToUserResponse(u)
	return &out, nil
}

// Delete elimina un usuario del negocio.
func (uc *UserUseCase) Delete(ctx context.Context, actor Actor, businessID, id string) error {
	u, err := uc.load(ctx, businessID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionDelete, EntityUser, id, "영업 사용자 삭제: "+u.Name)
	return nil
}

// load solo devuelve sales_viewer asignados a este negocio; cualquier otro usuario es ErrUserNotFound.
func (uc *UserUseCase) load(ctx context.Context, businessID, id string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != entity.RoleSalesViewer || u.BusinessID != businessID {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// ToUserResponse mapea la entidad a DTO sin el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        u.Role,
		BusinessID:  u.BusinessID,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
