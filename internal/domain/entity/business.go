package entity

import "time"

// Business representa un negocio (tenant) propiedad de un usuario admin.
type Business struct {
	ID             string
	UserID         string
	Name           string
	BusinessNumber string // 사업자등록번호 123-45-67890
	Representative string
	BusinessType   string // 업태
	BusinessItem   string // 종목
	Address        string
	Phone          string
	Email          string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
