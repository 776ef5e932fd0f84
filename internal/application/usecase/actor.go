package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

// Actor identidad del llamador tomada del token (más la IP para el log de actividad).
type Actor struct {
	UserID     string
	Role       string
	BusinessID string
	IP         string
}

// IsAdmin indica si el actor tiene rol admin.
func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// TenantGuard verifica que el actor tenga acceso al negocio.
// Un admin debe ser dueño del negocio activo; un sales_viewer debe tenerlo asignado.
// Cualquier fallo devuelve ErrBusinessNotFound para no revelar su existencia.
type TenantGuard struct {
	businesses repository.BusinessRepository
	users      repository.UserRepository
}

// NewTenantGuard construye el guard.
func NewTenantGuard(businesses repository.BusinessRepository, users repository.UserRepository) *TenantGuard {
	return &TenantGuard{businesses: businesses, users: users}
}

// Authorize devuelve el negocio si el actor puede operar sobre él.
func (g *TenantGuard) Authorize(ctx context.Context, actor Actor, businessID string) (*entity.Business, error) {
	if businessID == "" || actor.UserID == "" {
		return nil, domain.ErrBusinessNotFound
	}
	b, err := g.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("tenant: obtener negocio: %w", err)
	}
	if b == nil || !b.IsActive {
		return nil, domain.ErrBusinessNotFound
	}
	user, err := g.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("tenant: obtener usuario: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrBusinessNotFound
	}
	switch user.Role {
	case entity.RoleAdmin:
		if b.UserID != user.ID {
			return nil, domain.ErrBusinessNotFound
		}
	case entity.RoleSalesViewer:
		if user.BusinessID != b.ID {
			return nil, domain.ErrBusinessNotFound
		}
	default:
		return nil, domain.ErrBusinessNotFound
	}
	return b, nil
}
