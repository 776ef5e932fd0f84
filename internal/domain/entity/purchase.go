package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

// Purchase cabecera de una compra (매입).
type Purchase struct {
	ID           string
	BusinessID   string
	CustomerID   string
	CustomerName string // solo lectura (JOIN)
	PurchaseDate time.Time
	SupplyAmount decimal.Decimal
	VATAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
	Memo         string
	Items        []PurchaseItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseItem línea de una compra.
type PurchaseItem struct {
	ID           string
	PurchaseID   string
	ProductID    string
	ProductName  string
	Spec         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TaxType      tax.Type
	SupplyAmount decimal.Decimal
	VATAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
}
