package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// OTPRepository persistencia de códigos de un solo uso.
type OTPRepository interface {
	Create(ctx context.Context, o *entity.OTP) error
	// Latest devuelve el último código no verificado del teléfono y propósito (nil si no hay).
	Latest(ctx context.Context, phone, purpose string) (*entity.OTP, error)
	CountSince(ctx context.Context, phone string, since time.Time) (int, error)
	// IncrementAttempts consume un intento sólo si quedan menos de limit; si no, devuelve domain.ErrOTPTooManyAttempts.
	IncrementAttempts(ctx context.Context, id string, limit int) (int, error)
	MarkVerified(ctx context.Context, id string, at time.Time) error
}
