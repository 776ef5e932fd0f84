package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

// Product representa un artículo del catálogo de un negocio.
type Product struct {
	ID         string
	BusinessID string
	Code       string // único por negocio
	Name       string
	Spec       string // 규격
	Unit       string
	BuyPrice   decimal.Decimal
	SellPrice  decimal.Decimal
	TaxType    tax.Type
	Memo       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
