package dto

import "time"

// SettingsResponse preferencias del negocio.
type SettingsResponse struct {
	BusinessID     string     `json:"businessId"`
	DefaultTaxType string     `json:"defaultTaxType"`
	BankName       string     `json:"bankName"`
	BankAccount    string     `json:"bankAccount"`
	AccountHolder  string     `json:"accountHolder"`
	StatementNote  string     `json:"statementNote"`
	NotifyOnSign   bool       `json:"notifyOnSign"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// UpdateSettingsRequest campos opcionales.
type UpdateSettingsRequest struct {
	DefaultTaxType *string `json:"defaultTaxType" validate:"omitempty,taxtype"`
	BankName       *string `json:"bankName" validate:"omitempty,max=50"`
	BankAccount    *string `json:"bankAccount" validate:"omitempty,max=50"`
	AccountHolder  *string `json:"accountHolder" validate:"omitempty,max=50"`
	StatementNote  *string `json:"statementNote" validate:"omitempty,max=500"`
	NotifyOnSign   *bool   `json:"notifyOnSign"`
}

// PasswordConfirmRequest confirmación con contraseña para operaciones destructivas.
type PasswordConfirmRequest struct {
	Password string `json:"password" validate:"required"`
}
