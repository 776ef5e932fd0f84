package dto

import "github.com/shopspring/decimal"

// CustomerBalanceDTO acumulados y saldos de un cliente.
type CustomerBalanceDTO struct {
	CustomerID    string          `json:"customerId"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	SalesTotal    decimal.Decimal `json:"salesTotal"`
	PurchaseTotal decimal.Decimal `json:"purchaseTotal"`
	Receipts      decimal.Decimal `json:"receipts"`
	Disbursements decimal.Decimal `json:"disbursements"`
	Receivable    decimal.Decimal `json:"receivable"`
	Payable       decimal.Decimal `json:"payable"`
}

// LedgerSummary totales de todos los clientes.
type LedgerSummary struct {
	Receivable decimal.Decimal      `json:"receivable"`
	Payable    decimal.Decimal      `json:"payable"`
	Customers  []CustomerBalanceDTO `json:"customers"`
}

// LedgerEntryDTO movimiento con saldos acumulados tras aplicarlo.
type LedgerEntryDTO struct {
	Kind       string          `json:"kind"`
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	Memo       string          `json:"memo"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Receivable decimal.Decimal `json:"receivable"`
	Payable    decimal.Decimal `json:"payable"`
}

// CustomerLedgerResponse libro de un cliente en un rango.
type CustomerLedgerResponse struct {
	Customer          CustomerResponse `json:"customer"`
	From              string           `json:"from,omitempty"`
	To                string           `json:"to,omitempty"`
	OpeningReceivable decimal.Decimal  `json:"openingReceivable"`
	OpeningPayable    decimal.Decimal  `json:"openingPayable"`
	Entries           []LedgerEntryDTO `json:"entries"`
	ClosingReceivable decimal.Decimal  `json:"closingReceivable"`
	ClosingPayable    decimal.Decimal  `json:"closingPayable"`
}
