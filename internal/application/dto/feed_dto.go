package dto

import "time"

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId,omitempty"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Link       string    `json:"link,omitempty"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NotificationQuery listado de notificaciones.
type NotificationQuery struct {
	Page       int  `query:"page" validate:"omitempty,min=1"`
	Limit      int  `query:"limit" validate:"omitempty,min=1,max=100"`
	UnreadOnly bool `query:"unreadOnly"`
}

// ActivityLogQuery listado del log de actividad.
type ActivityLogQuery struct {
	Page       int    `query:"page" validate:"omitempty,min=1"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Action     string `query:"action" validate:"omitempty,max=30"`
	EntityType string `query:"entityType" validate:"omitempty,max=30"`
}

// ActivityLogResponse salida de un registro de actividad.
type ActivityLogResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId"`
	Description string    `json:"description"`
	IP          string    `json:"ip,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NoteRequest alta o modificación de una nota.
type NoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"omitempty,max=10000"`
	Pinned  bool   `json:"pinned"`
}

// NoteResponse salida de una nota.
type NoteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
