package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de pago.
const (
	PaymentReceipt      = "receipt"      // 입금: cobro a cliente
	PaymentDisbursement = "disbursement" // 출금: pago a proveedor
)

// Medios de pago.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCard     = "card"
	PaymentMethodOther    = "other"
)

// Payment cobro o pago contra un cliente, independiente de ventas/compras concretas.
type Payment struct {
	ID           string
	BusinessID   string
	CustomerID   string
	CustomerName string // solo lectura (JOIN)
	Type         string
	Amount       decimal.Decimal
	Method       string
	PaymentDate  time.Time
	Memo         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
