package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, businessID, code string) (*entity.Product, error)
	// List filtra por Search (nombre, código, 규격) y Type (tipo de tributación).
	List(ctx context.Context, businessID string, f ListFilter) ([]*entity.Product, int64, error)
	CountAll(ctx context.Context, businessID string) (int64, error)
	Update(ctx context.Context, p *entity.Product) error
	SoftDelete(ctx context.Context, businessID, id string) error
}
