package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// PaymentRepository persistencia de cobros y pagos. Type filtra receipt|disbursement.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Payment, error)
	List(ctx context.Context, businessID string, f ListFilter) ([]*entity.Payment, int64, error)
	Update(ctx context.Context, p *entity.Payment) error
	Delete(ctx context.Context, businessID, id string) error
}
