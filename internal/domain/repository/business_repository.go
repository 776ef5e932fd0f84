package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business.
// GetByID devuelve también negocios inactivos; el guard de tenant filtra por IsActive.
type BusinessRepository interface {
	Create(ctx context.Context, b *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	GetActiveByNumber(ctx context.Context, businessNumber string) (*entity.Business, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Business, error)
	Update(ctx context.Context, b *entity.Business) error
	SoftDelete(ctx context.Context, id string) error
}
