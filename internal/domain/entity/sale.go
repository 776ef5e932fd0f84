package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

// Sale cabecera de una venta (매출). Los importes agregan los de sus líneas.
type Sale struct {
	ID            string
	BusinessID    string
	CustomerID    string
	CustomerName  string // solo lectura (JOIN)
	SaleDate      time.Time
	SupplyAmount  decimal.Decimal
	VATAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Memo          string
	SignedBy      string
	SignedAt      *time.Time
	SignaturePath string
	Items         []SaleItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsSigned indica si la venta ya tiene firma registrada.
func (s *Sale) IsSigned() bool {
	return s.SignedAt != nil
}

// SaleItem línea de una venta.
type SaleItem struct {
	ID           string
	SaleID       string
	ProductID    string // opcional
	ProductName  string
	Spec         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TaxType      tax.Type
	SupplyAmount decimal.Decimal
	VATAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
}
