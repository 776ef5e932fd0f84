package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `s.id, s.business_id, s.customer_id, c.name, s.sale_date, s.supply_amount, s.vat_amount,
		s.total_amount, s.memo, s.signed_by, s.signed_at, s.signature_path, s.created_at, s.updated_at`

var saleSort = map[string]string{"saleDate": "sale_date", "totalAmount": "total_amount", "createdAt": "created_at"}

// SaleRepo ventas con sus líneas. Create/Update escriben cabecera y líneas: llamar dentro de TxRunner.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.BusinessID, &s.CustomerID, &s.CustomerName, &s.SaleDate, &s.SupplyAmount,
		&s.VATAmount, &s.TotalAmount, &s.Memo, &s.SignedBy, &s.SignedAt, &s.SignaturePath, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, business_id, customer_id, sale_date, supply_amount, vat_amount, total_amount,
			memo, signed_by, signed_at, signature_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.BusinessID, s.CustomerID, s.SaleDate, s.SupplyAmount, s.VATAmount, s.TotalAmount,
		s.Memo, s.SignedBy, s.SignedAt, s.SignaturePath, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return r.insertItems(ctx, s.ID, s.Items)
}

func (r *SaleRepo) insertItems(ctx context.Context, saleID string, items []entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, product_name, spec, quantity, unit_price, tax_type,
			supply_amount, vat_amount, total_amount, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for i, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, saleID, nullable(it.ProductID), it.ProductName, it.Spec, it.Quantity, it.UnitPrice,
			string(it.TaxType), it.SupplyAmount, it.VATAmount, it.TotalAmount, i,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID incluye las líneas en el orden en que se cargaron.
func (r *SaleRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s JOIN customers c ON c.id = s.customer_id
		WHERE s.business_id = $1 AND s.id = $2`
	s, err := scanSale(r.q.QueryRow(ctx, query, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, spec, quantity, unit_price, tax_type,
			supply_amount, vat_amount, total_amount
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		var productID *string
		var taxType string
		if err := rows.Scan(&it.ID, &it.SaleID, &productID, &it.ProductName, &it.Spec, &it.Quantity, &it.UnitPrice,
			&taxType, &it.SupplyAmount, &it.VATAmount, &it.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.ProductID = deref(productID)
		it.TaxType = tax.Type(taxType)
		s.Items = append(s.Items, it)
	}
	return s, rows.Err()
}

// List cabeceras sin líneas; Search busca en nombre de cliente y memo.
func (r *SaleRepo) List(ctx context.Context, businessID string, f repository.ListFilter) ([]*entity.Sale, int64, error) {
	b := &builder{}
	b.where("s.business_id = " + b.arg(businessID))
	if f.CustomerID != "" {
		b.where("s.customer_id = " + b.arg(f.CustomerID))
	}
	if f.From != nil {
		b.where("s.sale_date >= " + b.arg(*f.From))
	}
	if f.To != nil {
		b.where("s.sale_date <= " + b.arg(*f.To))
	}
	if f.Search != "" {
		b.search(f.Search, "c.name", "s.memo")
	}
	from := ` FROM sales s JOIN customers c ON c.id = s.customer_id`

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from+b.clause(), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	query := `SELECT ` + saleColumns + from + b.clause() + orderBy("s.", f.SortBy, f.SortDesc, saleSort, "sale_date")
	query += b.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Update reemplaza cabecera y líneas.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET customer_id = $3, sale_date = $4, supply_amount = $5, vat_amount = $6, total_amount = $7,
			memo = $8, updated_at = $9
		WHERE business_id = $1 AND id = $2 AND signed_at IS NULL`
	tag, err := r.q.Exec(ctx, query,
		s.BusinessID, s.ID, s.CustomerID, s.SaleDate, s.SupplyAmount, s.VATAmount, s.TotalAmount, s.Memo, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrSigned(ctx, s.BusinessID, s.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return r.insertItems(ctx, s.ID, s.Items)
}

// Delete borra la venta sin firma; las líneas caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE business_id = $1 AND id = $2 AND signed_at IS NULL`, businessID, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrSigned(ctx, businessID, id)
	}
	return nil
}

func (r *SaleRepo) Sign(ctx context.Context, businessID, id, signedBy string, signedAt time.Time, path string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales SET signed_by = $3, signed_at = $4, signature_path = $5, updated_at = $4
		WHERE business_id = $1 AND id = $2 AND signed_at IS NULL`, businessID, id, signedBy, signedAt, path)
	if err != nil {
		return fmt.Errorf("sign sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrSigned(ctx, businessID, id)
	}
	return nil
}

// missOrSigned explica un UPDATE/DELETE que no tocó filas: la venta no existe o ya está firmada.
func (r *SaleRepo) missOrSigned(ctx context.Context, businessID, id string) error {
	var signed bool
	err := r.q.QueryRow(ctx, `SELECT signed_at IS NOT NULL FROM sales WHERE business_id = $1 AND id = $2`, businessID, id).Scan(&signed)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check sale: %w", err)
	}
	if signed {
		return domain.ErrAlreadySigned
	}
	return domain.ErrNotFound
}
