package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para dashboard, libro de clientes y chatbot.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// PeriodTotals agregados de ventas, compras y pagos en [from, to).
func (r *ReportRepo) PeriodTotals(ctx context.Context, businessID string, from, to time.Time) (repository.PeriodTotals, error) {
	const query = `
	SELECT
	    COALESCE(s.supply, 0), COALESCE(s.vat, 0), COALESCE(s.total, 0), COALESCE(s.n, 0),
	    COALESCE(p.supply, 0), COALESCE(p.vat, 0), COALESCE(p.total, 0), COALESCE(p.n, 0),
	    COALESCE(m.receipts, 0), COALESCE(m.disbursements, 0)
	FROM
	    (SELECT SUM(supply_amount) AS supply, SUM(vat_amount) AS vat, SUM(total_amount) AS total, COUNT(*) AS n
	       FROM sales WHERE business_id = $1 AND sale_date >= $2 AND sale_date < $3) s,
	    (SELECT SUM(supply_amount) AS supply, SUM(vat_amount) AS vat, SUM(total_amount) AS total, COUNT(*) AS n
	       FROM purchases WHERE business_id = $1 AND purchase_date >= $2 AND purchase_date < $3) p,
	    (SELECT SUM(amount) FILTER (WHERE type = 'receipt')      AS receipts,
	            SUM(amount) FILTER (WHERE type = 'disbursement') AS disbursements
	       FROM payments WHERE business_id = $1 AND payment_date >= $2 AND payment_date < $3) m`

	var t repository.PeriodTotals
	err := r.q.QueryRow(ctx, query, businessID, from, to).Scan(
		&t.SalesSupply, &t.SalesVAT, &t.SalesTotal, &t.SalesCount,
		&t.PurchaseSupply, &t.PurchaseVAT, &t.PurchaseTotal, &t.PurchaseCount,
		&t.Receipts, &t.Disbursements,
	)
	if err != nil {
		return t, fmt.Errorf("report.PeriodTotals: %w", err)
	}
	return t, nil
}

// MonthlyTrend totales por mes; los meses vacíos no aparecen.
func (r *ReportRepo) MonthlyTrend(ctx context.Context, businessID string, from, to time.Time) ([]repository.MonthlyAmount, error) {
	const query = `
	SELECT month, SUM(sales), SUM(purchases)
	FROM (
	    SELECT TO_CHAR(sale_date, 'YYYY-MM') AS month, total_amount AS sales, 0::NUMERIC AS purchases
	      FROM sales WHERE business_id = $1 AND sale_date >= $2 AND sale_date < $3
	    UNION ALL
	    SELECT TO_CHAR(purchase_date, 'YYYY-MM'), 0, total_amount
	      FROM purchases WHERE business_id = $1 AND purchase_date >= $2 AND purchase_date < $3
	) t
	GROUP BY month
	ORDER BY month`

	rows, err := r.q.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.MonthlyTrend: %w", err)
	}
	defer rows.Close()
	out := []repository.MonthlyAmount{}
	for rows.Next() {
		var m repository.MonthlyAmount
		if err := rows.Scan(&m.Month, &m.Sales, &m.Purchases); err != nil {
			return nil, fmt.Errorf("report.MonthlyTrend scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TopCustomers clientes con mayor venta total en el período.
func (r *ReportRepo) TopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]repository.CustomerAmount, error) {
	const query = `
	SELECT c.id, c.name, SUM(s.total_amount) AS total, COUNT(*)
	FROM sales s
	JOIN customers c ON c.id = s.customer_id
	WHERE s.business_id = $1 AND s.sale_date >= $2 AND s.sale_date < $3
	GROUP BY c.id, c.name
	ORDER BY total DESC, c.name
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, businessID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("report.TopCustomers: %w", err)
	}
	defer rows.Close()
	out := []repository.CustomerAmount{}
	for rows.Next() {
		var c repository.CustomerAmount
		if err := rows.Scan(&c.CustomerID, &c.CustomerName, &c.Total, &c.Count); err != nil {
			return nil, fmt.Errorf("report.TopCustomers scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// entriesCTE une ventas, compras y pagos como movimientos del libro. $1 = negocio.
const entriesCTE = `
	WITH entries AS (
	    SELECT 'sale' AS kind, id, customer_id, sale_date AS date, total_amount AS amount, memo, created_at
	      FROM sales WHERE business_id = $1
	    UNION ALL
	    SELECT 'purchase', id, customer_id, purchase_date, total_amount, memo, created_at
	      FROM purchases WHERE business_id = $1
	    UNION ALL
	    SELECT type, id, customer_id, payment_date, amount, memo, created_at
	      FROM payments WHERE business_id = $1
	)`

func (r *ReportRepo) scanEntries(ctx context.Context, query string, args ...any) ([]repository.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []repository.LedgerEntry{}
	for rows.Next() {
		var e repository.LedgerEntry
		if err := rows.Scan(&e.Kind, &e.ID, &e.CustomerID, &e.CustomerName, &e.Date, &e.Amount, &e.Memo, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentTransactions últimos movimientos registrados, por fecha de creación.
func (r *ReportRepo) RecentTransactions(ctx context.Context, businessID string, limit int) ([]repository.LedgerEntry, error) {
	query := entriesCTE + `
	SELECT e.kind, e.id, e.customer_id, c.name, e.date, e.amount, e.memo, e.created_at
	FROM entries e JOIN customers c ON c.id = e.customer_id
	ORDER BY e.created_at DESC
	LIMIT $2`
	out, err := r.scanEntries(ctx, query, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("report.RecentTransactions: %w", err)
	}
	return out, nil
}

// CustomerBalances acumulados históricos por cliente activo, ordenados por nombre.
func (r *ReportRepo) CustomerBalances(ctx context.Context, businessID, customerID string) ([]repository.CustomerBalance, error) {
	query := entriesCTE + `
	SELECT c.id, c.code, c.name, c.type,
	       COALESCE(SUM(e.amount) FILTER (WHERE e.kind = 'sale'), 0),
	       COALESCE(SUM(e.amount) FILTER (WHERE e.kind = 'purchase'), 0),
	       COALESCE(SUM(e.amount) FILTER (WHERE e.kind = 'receipt'), 0),
	       COALESCE(SUM(e.amount) FILTER (WHERE e.kind = 'disbursement'), 0)
	FROM customers c
	LEFT JOIN entries e ON e.customer_id = c.id
	WHERE c.business_id = $1 AND c.is_active AND ($2 = '' OR c.id::TEXT = $2)
	GROUP BY c.id, c.code, c.name, c.type
	ORDER BY c.name`

	rows, err := r.q.Query(ctx, query, businessID, customerID)
	if err != nil {
		return nil, fmt.Errorf("report.CustomerBalances: %w", err)
	}
	defer rows.Close()
	out := []repository.CustomerBalance{}
	for rows.Next() {
		var b repository.CustomerBalance
		if err := rows.Scan(&b.CustomerID, &b.Code, &b.Name, &b.Type,
			&b.SalesTotal, &b.PurchaseTotal, &b.Receipts, &b.Disbursements); err != nil {
			return nil, fmt.Errorf("report.CustomerBalances scan: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// LedgerEntries movimientos del cliente en orden cronológico; from/to nil no acotan.
func (r *ReportRepo) LedgerEntries(ctx context.Context, businessID, customerID string, from, to *time.Time) ([]repository.LedgerEntry, error) {
	b := &builder{}
	b.arg(businessID)
	b.where("e.customer_id = " + b.arg(customerID))
	if from != nil {
		b.where("e.date >= " + b.arg(*from))
	}
	if to != nil {
		b.where("e.date <= " + b.arg(*to))
	}
	query := entriesCTE + `
	SELECT e.kind, e.id, e.customer_id, c.name, e.date, e.amount, e.memo, e.created_at
	FROM entries e JOIN customers c ON c.id = e.customer_id` + b.clause() + `
	ORDER BY e.date, e.created_at`
	out, err := r.scanEntries(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("report.LedgerEntries: %w", err)
	}
	return out, nil
}

// ActiveCounts clientes y productos activos del negocio.
func (r *ReportRepo) ActiveCounts(ctx context.Context, businessID string) (int64, int64, error) {
	const query = `
	SELECT (SELECT COUNT(*) FROM customers WHERE business_id = $1 AND is_active),
	       (SELECT COUNT(*) FROM products  WHERE business_id = $1 AND is_active)`
	var customers, products int64
	if err := r.q.QueryRow(ctx, query, businessID).Scan(&customers, &products); err != nil {
		return 0, 0, fmt.Errorf("report.ActiveCounts: %w", err)
	}
	return customers, products, nil
}
