package entity

import "time"

// Acciones registradas en el log de actividad.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionSign   = "sign"
	ActionImport = "import"
	ActionReset  = "reset"
)

// ActivityLog registro de auditoría de una operación sobre una entidad.
type ActivityLog struct {
	ID          string
	UserID      string
	BusinessID  string
	Action      string
	EntityType  string
	EntityID    string
	Description string
	IP          string
	CreatedAt   time.Time
}
