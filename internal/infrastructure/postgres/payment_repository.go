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

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `p.id, p.business_id, p.customer_id, c.name, p.type, p.amount, p.method, p.payment_date,
		p.memo, p.created_at, p.updated_at`

var paymentSort = map[string]string{"paymentDate": "payment_date", "amount": "amount", "createdAt": "created_at"}

// PaymentRepo cobros (receipt) y pagos (disbursement).
type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(&p.ID, &p.BusinessID, &p.CustomerID, &p.CustomerName, &p.Type, &p.Amount, &p.Method,
		&p.PaymentDate, &p.Memo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, business_id, customer_id, type, amount, method, payment_date, memo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BusinessID, p.CustomerID, p.Type, p.Amount, p.Method, p.PaymentDate, p.Memo, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p JOIN customers c ON c.id = p.customer_id
		WHERE p.business_id = $1 AND p.id = $2`
	p, err := scanPayment(r.q.QueryRow(ctx, query, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepo) List(ctx context.Context, businessID string, f repository.ListFilter) ([]*entity.Payment, int64, error) {
	b := &builder{}
	b.where("p.business_id = " + b.arg(businessID))
	if f.Type != "" {
		b.where("p.type = " + b.arg(f.Type))
	}
	if f.CustomerID != "" {
		b.where("p.customer_id = " + b.arg(f.CustomerID))
	}
	if f.From != nil {
		b.where("p.payment_date >= " + b.arg(*f.From))
	}
	if f.To != nil {
		b.where("p.payment_date <= " + b.arg(*f.To))
	}
	if f.Search != "" {
		b.search(f.Search, "c.name", "p.memo")
	}
	from := ` FROM payments p JOIN customers c ON c.id = p.customer_id`

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from+b.clause(), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	query := `SELECT ` + paymentColumns + from + b.clause() + orderBy("p.", f.SortBy, f.SortDesc, paymentSort, "payment_date")
	query += b.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	list := []*entity.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	query := `
		UPDATE payments SET customer_id = $3, type = $4, amount = $5, method = $6, payment_date = $7, memo = $8,
			updated_at = $9
		WHERE business_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		p.BusinessID, p.ID, p.CustomerID, p.Type, p.Amount, p.Method, p.PaymentDate, p.Memo, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PaymentRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM payments WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
