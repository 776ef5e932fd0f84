package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals agregados de un período [from, to).
// Lo produce la DB; el use case lo convierte en DTO.
type PeriodTotals struct {
	SalesSupply    decimal.Decimal
	SalesVAT       decimal.Decimal
	SalesTotal     decimal.Decimal
	SalesCount     int
	PurchaseSupply decimal.Decimal
	PurchaseVAT    decimal.Decimal
	PurchaseTotal  decimal.Decimal
	PurchaseCount  int
	Receipts       decimal.Decimal
	Disbursements  decimal.Decimal
}

// MonthlyAmount totales de un mes (YYYY-MM). Los meses sin movimientos no se devuelven.
type MonthlyAmount struct {
	Month     string
	Sales     decimal.Decimal
	Purchases decimal.Decimal
}

// CustomerAmount total vendido a un cliente en el período.
type CustomerAmount struct {
	CustomerID   string
	CustomerName string
	Total        decimal.Decimal
	Count        int
}

// Tipos de movimiento del libro de transacciones.
const (
	EntrySale         = "sale"
	EntryPurchase     = "purchase"
	EntryReceipt      = "receipt"
	EntryDisbursement = "disbursement"
)

// LedgerEntry movimiento de un cliente (venta, compra, cobro o pago).
type LedgerEntry struct {
	Kind         string
	ID           string
	CustomerID   string
	CustomerName string
	Date         time.Time
	Amount       decimal.Decimal
	Memo         string
	CreatedAt    time.Time
}

// CustomerBalance acumulados históricos por cliente activo.
type CustomerBalance struct {
	CustomerID    string
	Code          string
	Name          string
	Type          string
	SalesTotal    decimal.Decimal
	PurchaseTotal decimal.Decimal
	Receipts      decimal.Decimal
	Disbursements decimal.Decimal
}

// ReportRepository consultas de solo lectura para dashboard, libro y chatbot.
type ReportRepository interface {
	PeriodTotals(ctx context.Context, businessID string, from, to time.Time) (PeriodTotals, error)
	MonthlyTrend(ctx context.Context, businessID string, from, to time.Time) ([]MonthlyAmount, error)
	TopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]CustomerAmount, error)
	RecentTransactions(ctx context.Context, businessID string, limit int) ([]LedgerEntry, error)
	// CustomerBalances con customerID vacío devuelve todos los clientes activos.
	CustomerBalances(ctx context.Context, businessID, customerID string) ([]CustomerBalance, error)
	// LedgerEntries ordenados por fecha y creación; from/to nil no acotan.
	LedgerEntries(ctx context.Context, businessID, customerID string, from, to *time.Time) ([]LedgerEntry, error)
	ActiveCounts(ctx context.Context, businessID string) (customers, products int64, err error)
}
