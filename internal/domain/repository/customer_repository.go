package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Las lecturas solo devuelven clientes activos (soft delete).
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error)
	GetByCode(ctx context.Context, businessID, code string) (*entity.Customer, error)
	GetActiveByBusinessNumber(ctx context.Context, businessID, businessNumber string) (*entity.Customer, error)
	// List filtra por Search (nombre, código, número, representante) y Type.
	List(ctx context.Context, businessID string, f ListFilter) ([]*entity.Customer, int64, error)
	// CountAll cuenta también los inactivos; se usa para generar códigos.
	CountAll(ctx context.Context, businessID string) (int64, error)
	Update(ctx context.Context, c *entity.Customer) error
	SoftDelete(ctx context.Context, businessID, id string) error
}
