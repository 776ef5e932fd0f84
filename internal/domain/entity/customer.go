package entity

import "time"

// Tipos de cliente (lado de la operación).
const (
	CustomerTypeSales    = "sales"
	CustomerTypePurchase = "purchase"
	CustomerTypeBoth     = "both"
)

// Customer representa un cliente o proveedor (거래처) de un negocio.
type Customer struct {
	ID             string
	BusinessID     string
	Code           string // único por negocio
	Name           string
	Type           string
	BusinessNumber string
	Representative string
	Phone          string
	Email          string
	Address        string
	Memo           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
