package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados calculados recorriendo el store.
type ReportRepo struct{ s *Store }

func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *ReportRepo) PeriodTotals(_ context.Context, businessID string, from, to time.Time) (repository.PeriodTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := repository.PeriodTotals{
		SalesSupply: decimal.Zero, SalesVAT: decimal.Zero, SalesTotal: decimal.Zero,
		PurchaseSupply: decimal.Zero, PurchaseVAT: decimal.Zero, PurchaseTotal: decimal.Zero,
		Receipts: decimal.Zero, Disbursements: decimal.Zero,
	}
	for _, s := range r.s.sales {
		if s.BusinessID == businessID && within(s.SaleDate, from, to) {
			out.SalesSupply = out.SalesSupply.Add(s.SupplyAmount)
			out.SalesVAT = out.SalesVAT.Add(s.VATAmount)
			out.SalesTotal = out.SalesTotal.Add(s.TotalAmount)
			out.SalesCount++
		}
	}
	for _, p := range r.s.purchases {
		if p.BusinessID == businessID && within(p.PurchaseDate, from, to) {
			out.PurchaseSupply = out.PurchaseSupply.Add(p.SupplyAmount)
			out.PurchaseVAT = out.PurchaseVAT.Add(p.VATAmount)
			out.PurchaseTotal = out.PurchaseTotal.Add(p.TotalAmount)
			out.PurchaseCount++
		}
	}
	for _, p := range r.s.payments {
		if p.BusinessID != businessID || !within(p.PaymentDate, from, to) {
			continue
		}
		if p.Type == entity.PaymentReceipt {
			out.Receipts = out.Receipts.Add(p.Amount)
		} else {
			out.Disbursements = out.Disbursements.Add(p.Amount)
		}
	}
	return out, nil
}

func (r *ReportRepo) MonthlyTrend(_ context.Context, businessID string, from, to time.Time) ([]repository.MonthlyAmount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	months := map[string]*repository.MonthlyAmount{}
	get := func(t time.Time) *repository.MonthlyAmount {
		key := t.Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &repository.MonthlyAmount{Month: key, Sales: decimal.Zero, Purchases: decimal.Zero}
			months[key] = m
		}
		return m
	}
	for _, s := range r.s.sales {
		if s.BusinessID == businessID && within(s.SaleDate, from, to) {
			m := get(s.SaleDate)
			m.Sales = m.Sales.Add(s.TotalAmount)
		}
	}
	for _, p := range r.s.purchases {
		if p.BusinessID == businessID && within(p.PurchaseDate, from, to) {
			m := get(p.PurchaseDate)
			m.Purchases = m.Purchases.Add(p.TotalAmount)
		}
	}
	out := make([]repository.MonthlyAmount, 0, len(months))
	for _, m := range months {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (r *ReportRepo) TopCustomers(_ context.Context, businessID string, from, to time.Time, limit int) ([]repository.CustomerAmount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byCustomer := map[string]*repository.CustomerAmount{}
	for _, s := range r.s.sales {
		if s.BusinessID != businessID || !within(s.SaleDate, from, to) {
			continue
		}
		c, ok := byCustomer[s.CustomerID]
		if !ok {
			c = &repository.CustomerAmount{CustomerID: s.CustomerID, CustomerName: r.s.customers[s.CustomerID].Name, Total: decimal.Zero}
			byCustomer[s.CustomerID] = c
		}
		c.Total = c.Total.Add(s.TotalAmount)
		c.Count++
	}
	out := make([]repository.CustomerAmount, 0, len(byCustomer))
	for _, c := range byCustomer {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Total.Cmp(out[j].Total); cmp != 0 {
			return cmp > 0
		}
		return out[i].CustomerName < out[j].CustomerName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// entries reúne los movimientos del negocio; el llamador debe tener el lock.
func (r *ReportRepo) entries(businessID, customerID string) []repository.LedgerEntry {
	var out []repository.LedgerEntry
	add := func(e repository.LedgerEntry) {
		if customerID != "" && e.CustomerID != customerID {
			return
		}
		e.CustomerName = r.s.customers[e.CustomerID].Name
		out = append(out, e)
	}
	for _, s := range r.s.sales {
		if s.BusinessID == businessID {
			add(repository.LedgerEntry{Kind: repository.EntrySale, ID: s.ID, CustomerID: s.CustomerID,
				Date: s.SaleDate, Amount: s.TotalAmount, Memo: s.Memo, CreatedAt: s.CreatedAt})
		}
	}
	for _, p := range r.s.purchases {
		if p.BusinessID == businessID {
			add(repository.LedgerEntry{Kind: repository.EntryPurchase, ID: p.ID, CustomerID: p.CustomerID,
				Date: p.PurchaseDate, Amount: p.TotalAmount, Memo: p.Memo, CreatedAt: p.CreatedAt})
		}
	}
	for _, p := range r.s.payments {
		if p.BusinessID == businessID {
			kind := repository.EntryReceipt
			if p.Type == entity.PaymentDisbursement {
				kind = repository.EntryDisbursement
			}
			add(repository.LedgerEntry{Kind: kind, ID: p.ID, CustomerID: p.CustomerID,
				Date: p.PaymentDate, Amount: p.Amount, Memo: p.Memo, CreatedAt: p.CreatedAt})
		}
	}
	return out
}

func (r *ReportRepo) RecentTransactions(_ context.Context, businessID string, limit int) ([]repository.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.entries(businessID, "")
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReportRepo) CustomerBalances(_ context.Context, businessID, customerID string) ([]repository.CustomerBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	balances := map[string]*repository.CustomerBalance{}
	var order []string
	for _, c := range r.s.customers {
		if c.BusinessID != businessID || !c.IsActive || (customerID != "" && c.ID != customerID) {
			continue
		}
		balances[c.ID] = &repository.CustomerBalance{
			CustomerID: c.ID, Code: c.Code, Name: c.Name, Type: c.Type,
			SalesTotal: decimal.Zero, PurchaseTotal: decimal.Zero, Receipts: decimal.Zero, Disbursements: decimal.Zero,
		}
		order = append(order, c.ID)
	}
	for _, e := range r.entries(businessID, customerID) {
		b, ok := balances[e.CustomerID]
		if !ok {
			continue
		}
		switch e.Kind {
		case repository.EntrySale:
			b.SalesTotal = b.SalesTotal.Add(e.Amount)
		case repository.EntryPurchase:
			b.PurchaseTotal = b.PurchaseTotal.Add(e.Amount)
		case repository.EntryReceipt:
			b.Receipts = b.Receipts.Add(e.Amount)
		case repository.EntryDisbursement:
			b.Disbursements = b.Disbursements.Add(e.Amount)
		}
	}
	out := make([]repository.CustomerBalance, 0, len(order))
	for _, id := range order {
		out = append(out, *balances[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ReportRepo) LedgerEntries(_ context.Context, businessID, customerID string, from, to *time.Time) ([]repository.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := r.entries(businessID, customerID)
	out := make([]repository.LedgerEntry, 0, len(all))
	for _, e := range all {
		if inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReportRepo) ActiveCounts(_ context.Context, businessID string) (int64, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var customers, products int64
	for _, c := range r.s.customers {
		if c.BusinessID == businessID && c.IsActive {
			customers++
		}
	}
	for _, p := range r.s.products {
		if p.BusinessID == businessID && p.IsActive {
			products++
		}
	}
	return customers, products, nil
}
