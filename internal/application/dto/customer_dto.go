package dto

import "time"

// CreateCustomerRequest alta de cliente; Code vacío se autogenera (C0001).
type CreateCustomerRequest struct {
	Code           string `json:"code" validate:"omitempty,max=20"`
	Name           string `json:"name" validate:"required,min=1,max=100"`
	Type           string `json:"type" validate:"omitempty,oneof=sales purchase both"`
	BusinessNumber string `json:"businessNumber" validate:"omitempty,bizno"`
	Representative string `json:"representative" validate:"omitempty,max=50"`
	Phone          string `json:"phone" validate:"omitempty,max=20"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address        string `json:"address" validate:"omitempty,max=255"`
	Memo           string `json:"memo" validate:"omitempty,max=1000"`
}

// UpdateCustomerRequest campos opcionales.
type UpdateCustomerRequest struct {
	Code           *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	Type           *string `json:"type" validate:"omitempty,oneof=sales purchase both"`
	BusinessNumber *string `json:"businessNumber" validate:"omitempty,bizno"`
	Representative *string `json:"representative" validate:"omitempty,max=50"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Address        *string `json:"address" validate:"omitempty,max=255"`
	Memo           *string `json:"memo" validate:"omitempty,max=1000"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID             string    `json:"id"`
	BusinessID     string    `json:"businessId"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	BusinessNumber string    `json:"businessNumber"`
	Representative string    `json:"representative"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	Memo           string    `json:"memo"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
