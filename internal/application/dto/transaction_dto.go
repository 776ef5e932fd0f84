package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de venta/compra. Sin UnitPrice se usa el precio del producto;
// sin TaxType se usa el del producto o el predeterminado del negocio.
type LineItemRequest struct {
	ProductID   string           `json:"productId" validate:"omitempty,uuid"`
	ProductName string           `json:"productName" validate:"required_without=ProductID,max=100"`
	Spec        string           `json:"spec" validate:"omitempty,max=100"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	TaxType     string           `json:"taxType" validate:"omitempty,taxtype"`
}

// LineItemResponse línea con importes calculados.
type LineItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId,omitempty"`
	ProductName  string          `json:"productName"`
	Spec         string          `json:"spec"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TaxType      string          `json:"taxType"`
	SupplyAmount decimal.Decimal `json:"supplyAmount"`
	VATAmount    decimal.Decimal `json:"vatAmount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// SaleRequest alta o reemplazo completo de una venta.
type SaleRequest struct {
	CustomerID string            `json:"customerId" validate:"required,uuid"`
	SaleDate   string            `json:"saleDate" validate:"required,datetime=2006-01-02"`
	Memo       string            `json:"memo" validate:"omitempty,max=1000"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

// SaleResponse venta con líneas y estado de firma.
type SaleResponse struct {
	ID           string             `json:"id"`
	BusinessID   string             `json:"businessId"`
	CustomerID   string             `json:"customerId"`
	CustomerName string             `json:"customerName"`
	SaleDate     string             `json:"saleDate"`
	SupplyAmount decimal.Decimal    `json:"supplyAmount"`
	VATAmount    decimal.Decimal    `json:"vatAmount"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	Memo         string             `json:"memo"`
	SignedBy     string             `json:"signedBy,omitempty"`
	SignedAt     *time.Time         `json:"signedAt,omitempty"`
	SignatureURL string             `json:"signatureUrl,omitempty"`
	Items        []LineItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// PurchaseRequest alta o reemplazo completo de una compra.
type PurchaseRequest struct {
	CustomerID   string            `json:"customerId" validate:"required,uuid"`
	PurchaseDate string            `json:"purchaseDate" validate:"required,datetime=2006-01-02"`
	Memo         string            `json:"memo" validate:"omitempty,max=1000"`
	Items        []LineItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

// PurchaseResponse compra con líneas.
type PurchaseResponse struct {
	ID           string             `json:"id"`
	BusinessID   string             `json:"businessId"`
	CustomerID   string             `json:"customerId"`
	CustomerName string             `json:"customerName"`
	PurchaseDate string             `json:"purchaseDate"`
	SupplyAmount decimal.Decimal    `json:"supplyAmount"`
	VATAmount    decimal.Decimal    `json:"vatAmount"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	Memo         string             `json:"memo"`
	Items        []LineItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// PaymentRequest alta o modificación de un cobro/pago.
type PaymentRequest struct {
	CustomerID  string          `json:"customerId" validate:"required,uuid"`
	Type        string          `json:"type" validate:"required,oneof=receipt disbursement"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method" validate:"omitempty,oneof=cash transfer card other"`
	PaymentDate string          `json:"paymentDate" validate:"required,datetime=2006-01-02"`
	Memo        string          `json:"memo" validate:"omitempty,max=1000"`
}

// PaymentResponse salida de un cobro/pago.
type PaymentResponse struct {
	ID           string          `json:"id"`
	BusinessID   string          `json:"businessId"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	PaymentDate  string          `json:"paymentDate"`
	Memo         string          `json:"memo"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
