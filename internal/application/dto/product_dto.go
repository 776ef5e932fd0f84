package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto; Code vacío se autogenera (P0001).
type CreateProductRequest struct {
	Code      string          `json:"code" validate:"omitempty,max=20"`
	Name      string          `json:"name" validate:"required,min=1,max=100"`
	Spec      string          `json:"spec" validate:"omitempty,max=100"`
	Unit      string          `json:"unit" validate:"omitempty,max=20"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
	TaxType   string          `json:"taxType" validate:"omitempty,taxtype"`
	Memo      string          `json:"memo" validate:"omitempty,max=1000"`
}

// UpdateProductRequest campos opcionales.
type UpdateProductRequest struct {
	Code      *string          `json:"code" validate:"omitempty,min=1,max=20"`
	Name      *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Spec      *string          `json:"spec" validate:"omitempty,max=100"`
	Unit      *string          `json:"unit" validate:"omitempty,max=20"`
	BuyPrice  *decimal.Decimal `json:"buyPrice"`
	SellPrice *decimal.Decimal `json:"sellPrice"`
	TaxType   *string          `json:"taxType" validate:"omitempty,taxtype"`
	Memo      *string          `json:"memo" validate:"omitempty,max=1000"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	BusinessID string          `json:"businessId"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Spec       string          `json:"spec"`
	Unit       string          `json:"unit"`
	BuyPrice   decimal.Decimal `json:"buyPrice"`
	SellPrice  decimal.Decimal `json:"sellPrice"`
	TaxType    string          `json:"taxType"`
	Memo       string          `json:"memo"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
