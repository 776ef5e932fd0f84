package entity

import "time"

// Note nota libre del negocio; las fijadas se listan primero.
type Note struct {
	ID         string
	BusinessID string
	UserID     string
	Title      string
	Content    string
	Pinned     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
