package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountSummary 공급가액 + 세액 + 합계.
type AmountSummary struct {
	Supply decimal.Decimal `json:"supply"`
	VAT    decimal.Decimal `json:"vat"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
}

// MonthlyTrendDTO totales de un mes.
type MonthlyTrendDTO struct {
	Month     string          `json:"month"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

// TopCustomerDTO cliente con mayor venta del mes.
type TopCustomerDTO struct {
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
}

// RecentTransactionDTO movimiento reciente de cualquier tipo.
type RecentTransactionDTO struct {
	Kind         string          `json:"kind"`
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// DashboardResponse resumen del mes en curso más tendencias.
type DashboardResponse struct {
	Period             string                 `json:"period"`
	Sales              AmountSummary          `json:"sales"`
	Purchases          AmountSummary          `json:"purchases"`
	Receipts           decimal.Decimal        `json:"receipts"`
	Disbursements      decimal.Decimal        `json:"disbursements"`
	Receivable         decimal.Decimal        `json:"receivable"`
	Payable            decimal.Decimal        `json:"payable"`
	CustomerCount      int64                  `json:"customerCount"`
	ProductCount       int64                  `json:"productCount"`
	MonthlyTrend       []MonthlyTrendDTO      `json:"monthlyTrend"`
	TopCustomers       []TopCustomerDTO       `json:"topCustomers"`
	RecentTransactions []RecentTransactionDTO `json:"recentTransactions"`
}
