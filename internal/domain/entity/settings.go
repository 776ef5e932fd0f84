package entity

import (
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

// CompanySettings preferencias del negocio usadas en documentos y notificaciones.
type CompanySettings struct {
	BusinessID     string
	DefaultTaxType tax.Type
	BankName       string
	BankAccount    string
	AccountHolder  string
	StatementNote  string
	NotifyOnSign   bool
	UpdatedAt      time.Time
}

// DefaultSettings valores usados cuando el negocio aún no guardó preferencias.
func DefaultSettings(businessID string) *CompanySettings {
	return &CompanySettings{
		BusinessID:     businessID,
		DefaultTaxType: tax.Separate,
		NotifyOnSign:   true,
	}
}
