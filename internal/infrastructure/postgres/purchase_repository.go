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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `p.id, p.business_id, p.customer_id, c.name, p.purchase_date, p.supply_amount, p.vat_amount,
		p.total_amount, p.memo, p.created_at, p.updated_at`

var purchaseSort = map[string]string{"purchaseDate": "purchase_date", "totalAmount": "total_amount", "createdAt": "created_at"}

// PurchaseRepo compras con sus líneas; mismo contrato transaccional que SaleRepo.
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.BusinessID, &p.CustomerID, &p.CustomerName, &p.PurchaseDate, &p.SupplyAmount,
		&p.VATAmount, &p.TotalAmount, &p.Memo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, business_id, customer_id, purchase_date, supply_amount, vat_amount, total_amount,
			memo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BusinessID, p.CustomerID, p.PurchaseDate, p.SupplyAmount, p.VATAmount, p.TotalAmount,
		p.Memo, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return r.insertItems(ctx, p.ID, p.Items)
}

func (r *PurchaseRepo) insertItems(ctx context.Context, purchaseID string, items []entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, product_name, spec, quantity, unit_price, tax_type,
			supply_amount, vat_amount, total_amount, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for i, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, purchaseID, nullable(it.ProductID), it.ProductName, it.Spec, it.Quantity, it.UnitPrice,
			string(it.TaxType), it.SupplyAmount, it.VATAmount, it.TotalAmount, i,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases p JOIN customers c ON c.id = p.customer_id
		WHERE p.business_id = $1 AND p.id = $2`
	p, err := scanPurchase(r.q.QueryRow(ctx, query, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, product_name, spec, quantity, unit_price, tax_type,
			supply_amount, vat_amount, total_amount
		FROM purchase_items WHERE purchase_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseItem
		var productID *string
		var taxType string
		if err := rows.Scan(&it.ID, &it.PurchaseID, &productID, &it.ProductName, &it.Spec, &it.Quantity, &it.UnitPrice,
			&taxType, &it.SupplyAmount, &it.VATAmount, &it.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		it.ProductID = deref(productID)
		it.TaxType = tax.Type(taxType)
		p.Items = append(p.Items, it)
	}
	return p, rows.Err()
}

func (r *PurchaseRepo) List(ctx context.Context, businessID string, f repository.ListFilter) ([]*entity.Purchase, int64, error) {
	b := &builder{}
	b.where("p.business_id = " + b.arg(businessID))
	if f.CustomerID != "" {
		b.where("p.customer_id = " + b.arg(f.CustomerID))
	}
	if f.From != nil {
		b.where("p.purchase_date >= " + b.arg(*f.From))
	}
	if f.To != nil {
		b.where("p.purchase_date <= " + b.arg(*f.To))
	}
	if f.Search != "" {
		b.search(f.Search, "c.name", "p.memo")
	}
	from := ` FROM purchases p JOIN customers c ON c.id = p.customer_id`

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from+b.clause(), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	query := `SELECT ` + purchaseColumns + from + b.clause() + orderBy("p.", f.SortBy, f.SortDesc, purchaseSort, "purchase_date")
	query += b.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	list := []*entity.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	query := `
		UPDATE purchases SET customer_id = $3, purchase_date = $4, supply_amount = $5, vat_amount = $6,
			total_amount = $7, memo = $8, updated_at = $9
		WHERE business_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		p.BusinessID, p.ID, p.CustomerID, p.PurchaseDate, p.SupplyAmount, p.VATAmount, p.TotalAmount, p.Memo, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return r.insertItems(ctx, p.ID, p.Items)
}

func (r *PurchaseRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
