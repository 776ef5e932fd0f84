package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// PurchaseRepository mismo contrato que SaleRepository, sin firma.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Purchase, error)
	List(ctx context.Context, businessID string, f ListFilter) ([]*entity.Purchase, int64, error)
	Update(ctx context.Context, p *entity.Purchase) error
	Delete(ctx context.Context, businessID, id string) error
}
