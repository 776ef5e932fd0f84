package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persiste perfil, rol, negocio asignado, avatar, estado, hash y último acceso.
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	// ListByBusiness lista los usuarios sales_viewer asignados al negocio.
	ListByBusiness(ctx context.Context, businessID string) ([]*entity.User, error)
}
