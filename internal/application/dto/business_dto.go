package dto

import "time"

// CreateBusinessRequest alta de un negocio.
type CreateBusinessRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=100"`
	BusinessNumber string `json:"businessNumber" validate:"required,bizno"`
	Representative string `json:"representative" validate:"omitempty,max=50"`
	BusinessType   string `json:"businessType" validate:"omitempty,max=50"`
	BusinessItem   string `json:"businessItem" validate:"omitempty,max=50"`
	Address        string `json:"address" validate:"omitempty,max=255"`
	Phone          string `json:"phone" validate:"omitempty,max=20"`
	Email          string `json:"email" validate:"omitempty,email"`
}

// UpdateBusinessRequest campos opcionales.
type UpdateBusinessRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	BusinessNumber *string `json:"businessNumber" validate:"omitempty,bizno"`
	Representative *string `json:"representative" validate:"omitempty,max=50"`
	BusinessType   *string `json:"businessType" validate:"omitempty,max=50"`
	BusinessItem   *string `json:"businessItem" validate:"omitempty,max=50"`
	Address        *string `json:"address" validate:"omitempty,max=255"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	Email          *string `json:"email" validate:"omitempty,email"`
}

// BusinessResponse salida de un negocio. CheckDigitValid indica si el número pasa el dígito de control.
type BusinessResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	BusinessNumber  string    `json:"businessNumber"`
	CheckDigitValid bool      `json:"checkDigitValid"`
	Representative  string    `json:"representative"`
	BusinessType    string    `json:"businessType"`
	BusinessItem    string    `json:"businessItem"`
	Address         string    `json:"address"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
