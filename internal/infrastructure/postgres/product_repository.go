package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, business_id, code, name, spec, unit, buy_price, sell_price, tax_type, memo,
		is_active, created_at, updated_at`

var productSort = map[string]string{
	"name": "name", "code": "code", "sellPrice": "sell_price", "buyPrice": "buy_price", "createdAt": "created_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var taxType string
	err := row.Scan(&p.ID, &p.BusinessID, &p.Code, &p.Name, &p.Spec, &p.Unit, &p.BuyPrice, &p.SellPrice,
		&taxType, &p.Memo, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.TaxType = tax.Type(taxType)
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BusinessID, p.Code, p.Name, p.Spec, p.Unit, p.BuyPrice, p.SellPrice,
		string(p.TaxType), p.Memo, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) findOne(ctx context.Context, where string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto activo del negocio.
func (r *ProductRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Product, error) {
	return r.findOne(ctx, "business_id = $1 AND id = $2 AND is_active", businessID, id)
}

// GetByCode incluye inactivos.
func (r *ProductRepo) GetByCode(ctx context.Context, businessID, code string) (*entity.Product, error) {
	return r.findOne(ctx, "business_id = $1 AND code = $2", businessID, code)
}

// List productos activos; Type filtra por tipo de tributación.
func (r *ProductRepo) List(ctx context.Context, businessID string, f repository.ListFilter) ([]*entity.Product, int64, error) {
	b := &builder{}
	b.where("business_id = " + b.arg(businessID))
	b.where("is_active")
	if f.Type != "" {
		b.where("tax_type = " + b.arg(f.Type))
	}
	if f.Search != "" {
		b.search(f.Search, "name", "code", "spec")
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+b.clause(), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	query := `SELECT ` + productColumns + ` FROM products` + b.clause() +
		orderBy("", f.SortBy, f.SortDesc, productSort, "created_at")
	query += b.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *ProductRepo) CountAll(ctx context.Context, businessID string) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE business_id = $1`, businessID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Update actualiza un producto activo.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $3, name = $4, spec = $5, unit = $6, buy_price = $7, sell_price = $8,
			tax_type = $9, memo = $10, updated_at = $11
		WHERE business_id = $1 AND id = $2 AND is_active`
	tag, err := r.q.Exec(ctx, query,
		p.BusinessID, p.ID, p.Code, p.Name, p.Spec, p.Unit, p.BuyPrice, p.SellPrice,
		string(p.TaxType), p.Memo, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) SoftDelete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE business_id = $1 AND id = $2 AND is_active`,
		businessID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
