package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, business_id, code, name, type, business_number, representative, phone, email,
		address, memo, is_active, created_at, updated_at`

var customerSort = map[string]string{"name": "name", "code": "code", "createdAt": "created_at"}

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.BusinessID, &c.Code, &c.Name, &c.Type, &c.BusinessNumber, &c.Representative,
		&c.Phone, &c.Email, &c.Address, &c.Memo, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente. Código repetido → domain.ErrDuplicate.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.BusinessID, c.Code, c.Name, c.Type, c.BusinessNumber, c.Representative,
		c.Phone, c.Email, c.Address, c.Memo, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) findOne(ctx context.Context, where string, args ...any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByID obtiene un cliente activo del negocio.
func (r *CustomerRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	return r.findOne(ctx, "business_id = $1 AND id = $2 AND is_active", businessID, id)
}

// GetByCode busca también entre inactivos: el código sigue reservado.
func (r *CustomerRepo) GetByCode(ctx context.Context, businessID, code string) (*entity.Customer, error) {
	return r.findOne(ctx, "business_id = $1 AND code = $2", businessID, code)
}

func (r *CustomerRepo) GetActiveByBusinessNumber(ctx context.Context, businessID, number string) (*entity.Customer, error) {
	return r.findOne(ctx, "business_id = $1 AND business_number = $2 AND is_active LIMIT 1", businessID, number)
}

// List clientes activos con filtros, orden y paginación. Type "sales"/"purchase" incluye los "both".
func (r *CustomerRepo) List(ctx context.Context, businessID string, f repository.ListFilter) ([]*entity.Customer, int64, error) {
	b := &builder{}
	b.where("business_id = " + b.arg(businessID))
	b.where("is_active")
	if f.Type != "" {
		if f.Type == entity.CustomerTypeBoth {
			b.where("type = " + b.arg(f.Type))
		} else {
			b.where("type IN (" + b.arg(f.Type) + ", '" + entity.CustomerTypeBoth + "')")
		}
	}
	if f.Search != "" {
		b.search(f.Search, "name", "code", "business_number", "representative")
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+b.clause(), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	query := `SELECT ` + customerColumns + ` FROM customers` + b.clause() +
		orderBy("", f.SortBy, f.SortDesc, customerSort, "created_at")
	query += b.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	list := []*entity.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (r *CustomerRepo) CountAll(ctx context.Context, businessID string) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE business_id = $1`, businessID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// Update actualiza un cliente activo.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET code = $3, name = $4, type = $5, business_number = $6, representative = $7,
			phone = $8, email = $9, address = $10, memo = $11, updated_at = $12
		WHERE business_id = $1 AND id = $2 AND is_active`
	tag, err := r.q.Exec(ctx, query,
		c.BusinessID, c.ID, c.Code, c.Name, c.Type, c.BusinessNumber, c.Representative,
		c.Phone, c.Email, c.Address, c.Memo, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) SoftDelete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET is_active = FALSE, updated_at = NOW() WHERE business_id = $1 AND id = $2 AND is_active`,
		businessID, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
