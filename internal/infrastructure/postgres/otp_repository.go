package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.OTPRepository = (*OTPRepo)(nil)

type OTPRepo struct {
	q Querier
}

func NewOTPRepository(q Querier) *OTPRepo {
	return &OTPRepo{q: q}
}

func (r *OTPRepo) Create(ctx context.Context, o *entity.OTP) error {
	query := `
		INSERT INTO otps (id, phone, purpose, code_hash, expires_at, attempts, verified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, o.ID, o.Phone, o.Purpose, o.CodeHash, o.ExpiresAt, o.Attempts, o.VerifiedAt, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// Latest último código sin verificar del teléfono y propósito.
func (r *OTPRepo) Latest(ctx context.Context, phone, purpose string) (*entity.OTP, error) {
	query := `
		SELECT id, phone, purpose, code_hash, expires_at, attempts, verified_at, created_at
		FROM otps WHERE phone = $1 AND purpose = $2 AND verified_at IS NULL
		ORDER BY created_at DESC LIMIT 1`
	var o entity.OTP
	err := r.q.QueryRow(ctx, query, phone, purpose).Scan(
		&o.ID, &o.Phone, &o.Purpose, &o.CodeHash, &o.ExpiresAt, &o.Attempts, &o.VerifiedAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &o, nil
}

func (r *OTPRepo) CountSince(ctx context.Context, phone string, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM otps WHERE phone = $1 AND created_at >= $2`, phone, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count otps: %w", err)
	}
	return n, nil
}

// IncrementAttempts suma un intento de forma atómica mientras no se haya llegado a limit.
// Sin filas el código está bloqueado (o no existe, que para el llamador es lo mismo).
func (r *OTPRepo) IncrementAttempts(ctx context.Context, id string, limit int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`UPDATE otps SET attempts = attempts + 1 WHERE id = $1 AND attempts < $2 RETURNING attempts`,
		id, limit).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrOTPTooManyAttempts
		}
		return 0, fmt.Errorf("increment otp attempts: %w", err)
	}
	return n, nil
}

func (r *OTPRepo) MarkVerified(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE otps SET verified_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
