package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

const (
	trendMonths     = 6
	topCustomersN   = 5
	recentActivityN = 5
)

// DashboardUseCase resumen del mes en curso, tendencia y rankings del negocio.
type DashboardUseCase struct {
	reports repository.ReportRepository
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reports repository.ReportRepository) *DashboardUseCase {
	return &DashboardUseCase{reports: reports, now: time.Now}
}

// Get arma el dashboard. Las consultas son independientes y se lanzan en paralelo.
func (uc *DashboardUseCase) Get(ctx context.Context, businessID string) (*dto.DashboardResponse, error) {
	today := Today(uc.now())
	monthStart := MonthStart(today)
	nextMonth := monthStart.AddDate(0, 1, 0)
	trendStart := monthStart.AddDate(0, -(trendMonths - 1), 0)

	type totalsResult struct {
		v   repository.PeriodTotals
		err error
	}
	type trendResult struct {
		rows []repository.MonthlyAmount
		err  error
	}
	type topResult struct {
		rows []repository.CustomerAmount
		err  error
	}
	type recentResult struct {
		rows []repository.LedgerEntry
		err  error
	}
	type balanceResult struct {
		rows []repository.CustomerBalance
		err  error
	}
	type countResult struct {
		customers, products int64
		err                 error
	}

	totalsCh := make(chan totalsResult, 1)
	trendCh := make(chan trendResult, 1)
	topCh := make(chan topResult, 1)
	recentCh := make(chan recentResult, 1)
	balanceCh := make(chan balanceResult, 1)
	countCh := make(chan countResult, 1)

	go func() {
		v, err := uc.reports.PeriodTotals(ctx, businessID, monthStart, nextMonth)
		totalsCh <- totalsResult{v, err}
	}()
	go func() {
		rows, err := uc.reports.MonthlyTrend(ctx, businessID, trendStart, nextMonth)
		trendCh <- trendResult{rows, err}
	}()
	go func() {
		rows, err := uc.reports.TopCustomers(ctx, businessID, monthStart, nextMonth, topCustomersN)
		topCh <- topResult{rows, err}
	}()
	go func() {
		rows, err := uc.reports.RecentTransactions(ctx, businessID, recentActivityN)
		recentCh <- recentResult{rows, err}
	}()
	go func() {
		rows, err := uc.reports.CustomerBalances(ctx, businessID, "")
		balanceCh <- balanceResult{rows, err}
	}()
	go func() {
		c, p, err := uc.reports.ActiveCounts(ctx, businessID)
		countCh <- countResult{c, p, err}
	}()

	totals, trend, top, recent, balances, counts := <-totalsCh, <-trendCh, <-topCh, <-recentCh, <-balanceCh, <-countCh
	for _, err := range []error{totals.err, trend.err, top.err, recent.err, balances.err, counts.err} {
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
	}

	out := &dto.DashboardResponse{
		Period: monthStart.Format("2006-01"),
		Sales: dto.AmountSummary{
			Supply: totals.v.SalesSupply,
			VAT:    totals.v.SalesVAT,
			Total:  totals.v.SalesTotal,
			Count:  totals.v.SalesCount,
		},
		Purchases: dto.AmountSummary{
			Supply: totals.v.PurchaseSupply,
			VAT:    totals.v.PurchaseVAT,
			Total:  totals.v.PurchaseTotal,
			Count:  totals.v.PurchaseCount,
		},
		Receipts:           totals.v.Receipts,
		Disbursements:      totals.v.Disbursements,
		Receivable:         decimal.Zero,
		Payable:            decimal.Zero,
		CustomerCount:      counts.customers,
		ProductCount:       counts.products,
		MonthlyTrend:       fillTrend(trendStart, trendMonths, trend.rows),
		TopCustomers:       make([]dto.TopCustomerDTO, 0, len(top.rows)),
		RecentTransactions: make([]dto.RecentTransactionDTO, 0, len(recent.rows)),
	}
	for _, b := range balances.rows {
		out.Receivable = out.Receivable.Add(b.SalesTotal.Sub(b.Receipts))
		out.Payable = out.Payable.Add(b.PurchaseTotal.Sub(b.Disbursements))
	}
	for _, c := range top.rows {
		out.TopCustomers = append(out.TopCustomers, dto.TopCustomerDTO{
			CustomerID:   c.CustomerID,
			CustomerName: c.CustomerName,
			Total:        c.Total,
			Count:        c.Count,
		})
	}
	for _, e := range recent.rows {
		out.RecentTransactions = append(out.RecentTransactions, dto.RecentTransactionDTO{
			Kind:         e.Kind,
			ID:           e.ID,
			CustomerID:   e.CustomerID,
			CustomerName: e.CustomerName,
			Date:         formatDate(e.Date),
			Amount:       e.Amount,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out, nil
}

// fillTrend devuelve exactamente n meses desde start; los meses sin movimientos van en cero.
func fillTrend(start time.Time, n int, rows []repository.MonthlyAmount) []dto.MonthlyTrendDTO {
	byMonth := make(map[string]repository.MonthlyAmount, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]dto.MonthlyTrendDTO, 0, n)
	for i := 0; i < n; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		row, ok := byMonth[month]
		if !ok {
			row = repository.MonthlyAmount{Sales: decimal.Zero, Purchases: decimal.Zero}
		}
		out = append(out, dto.MonthlyTrendDTO{Month: month, Sales: row.Sales, Purchases: row.Purchases})
	}
	return out
}
