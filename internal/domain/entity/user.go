package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleSalesViewer = "sales_viewer"
)

// User representa un usuario del sistema. Un admin es dueño de sus negocios;
// un sales_viewer tiene asignado un único negocio (BusinessID).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Phone        string
	Role         string
	BusinessID   string // vacío para admin
	AvatarURL    string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
