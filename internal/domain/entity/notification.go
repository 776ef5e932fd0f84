package entity

import "time"

// Tipos de notificación.
const (
	NotificationWelcome     = "welcome"
	NotificationSaleSigned  = "sale_signed"
	NotificationExcelImport = "excel_import"
	NotificationSystem      = "system"
)

// Notification aviso para el feed del usuario.
type Notification struct {
	ID         string
	UserID     string
	BusinessID string // opcional
	Type       string
	Title      string
	Message    string
	Link       string
	IsRead     bool
	CreatedAt  time.Time
}
