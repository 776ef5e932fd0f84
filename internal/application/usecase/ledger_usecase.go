package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

// LedgerUseCase libro de transacciones derivado de ventas, compras y cobros/pagos.
// Receivable = ventas − cobros; Payable = compras − pagos.
type LedgerUseCase struct {
	reports   repository.ReportRepository
	customers repository.CustomerRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(reports repository.ReportRepository, customers repository.CustomerRepository) *LedgerUseCase {
	return &LedgerUseCase{reports: reports, customers: customers}
}

// Balances saldos de todos los clientes activos.
func (uc *LedgerUseCase) Balances(ctx context.Context, businessID string) (*dto.LedgerSummary, error) {
	rows, err := uc.reports.CustomerBalances(ctx, businessID, "")
	if err != nil {
		return nil, err
	}
	out := &dto.LedgerSummary{
		Receivable: decimal.Zero,
		Payable:    decimal.Zero,
		Customers:  make([]dto.CustomerBalanceDTO, 0, len(rows)),
	}
	for _, r := range rows {
		b := toCustomerBalanceDTO(r)
		out.Receivable = out.Receivable.Add(b.Receivable)
		out.Payable = out.Payable.Add(b.Payable)
		out.Customers = append(out.Customers, b)
	}
	return out, nil
}

// CustomerBalance saldo de un cliente (lo usa también el chatbot).
func (uc *LedgerUseCase) CustomerBalance(ctx context.Context, businessID, customerID string) (*dto.CustomerBalanceDTO, error) {
	rows, err := uc.reports.CustomerBalances(ctx, businessID, customerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	b := toCustomerBalanceDTO(rows[0])
	return &b, nil
}

// CustomerLedger movimientos de un cliente en [from, to] con saldos corridos.
// El saldo de apertura acumula todo lo anterior a from.
func (uc *LedgerUseCase) CustomerLedger(ctx context.Context, businessID, customerID, from, to string) (*dto.CustomerLedgerResponse, error) {
	c, err := uc.customers.GetByID(ctx, businessID, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	f, _, err := buildListFilter(dto.ListQuery{From: from, To: to}, nil, "")
	if err != nil {
		return nil, err
	}
	entries, err := uc.reports.LedgerEntries(ctx, businessID, customerID, nil, f.To)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerLedgerResponse{
		Customer:          ToCustomerResponse(c),
		From:              from,
		To:                to,
		OpeningReceivable: decimal.Zero,
		OpeningPayable:    decimal.Zero,
		Entries:           []dto.LedgerEntryDTO{},
	}
	receivable, payable := decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit, credit := decimal.Zero, decimal.Zero
		switch e.Kind {
		case repository.EntrySale:
			receivable = receivable.Add(e.Amount)
			debit = e.Amount
		case repository.EntryReceipt:
			receivable = receivable.Sub(e.Amount)
			credit = e.Amount
		case repository.EntryPurchase:
			payable = payable.Add(e.Amount)
			credit = e.Amount
		case repository.EntryDisbursement:
			payable = payable.Sub(e.Amount)
			debit = e.Amount
		}
		if f.From != nil && e.Date.Before(*f.From) {
			out.OpeningReceivable, out.OpeningPayable = receivable, payable
			continue
		}
		out.Entries = append(out.Entries, dto.LedgerEntryDTO{
			Kind:       e.Kind,
			ID:         e.ID,
			Date:       formatDate(e.Date),
			Memo:       e.Memo,
			Debit:      debit,
			Credit:     credit,
			Receivable: receivable,
			Payable:    payable,
		})
	}
	out.ClosingReceivable, out.ClosingPayable = receivable, payable
	return out, nil
}

func toCustomerBalanceDTO(r repository.CustomerBalance) dto.CustomerBalanceDTO {
	return dto.CustomerBalanceDTO{
		CustomerID:    r.CustomerID,
		Code:          r.Code,
		Name:          r.Name,
		Type:          r.Type,
		SalesTotal:    r.SalesTotal,
		PurchaseTotal: r.PurchaseTotal,
		Receipts:      r.Receipts,
		Disbursements: r.Disbursements,
		Receivable:    r.SalesTotal.Sub(r.Receipts),
		Payable:       r.PurchaseTotal.Sub(r.Disbursements),
	}
}
