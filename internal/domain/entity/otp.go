package entity

import "time"

// OTP código de un solo uso; solo se guarda el HMAC del código.
type OTP struct {
	ID         string
	Phone      string
	Purpose    string
	CodeHash   string
	ExpiresAt  time.Time
	Attempts   int
	VerifiedAt *time.Time
	CreatedAt  time.Time
}

// Expired indica si el código ya no es válido en now.
func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
