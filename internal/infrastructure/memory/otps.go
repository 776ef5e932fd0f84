package memory

import (
	"context"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.OTPRepository = (*OTPRepo)(nil)

// OTPRepo códigos OTP en memoria.
type OTPRepo struct{ s *Store }

func (r *OTPRepo) Create(_ context.Context, o *entity.OTP) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.otps[o.ID] = *o
	return nil
}

func (r *OTPRepo) Latest(_ context.Context, phone, purpose string) (*entity.OTP, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *entity.OTP
	for _, o := range r.s.otps {
		if o.Phone != phone || o.Purpose != purpose || o.VerifiedAt != nil {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			o := o
			latest = &o
		}
	}
	return latest, nil
}

func (r *OTPRepo) CountSince(_ context.Context, phone string, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, o := range r.s.otps {
		if o.Phone == phone && !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *OTPRepo) IncrementAttempts(_ context.Context, id string, limit int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.otps[id]
	if !ok || o.Attempts >= limit {
		return 0, domain.ErrOTPTooManyAttempts
	}
	o.Attempts++
	r.s.otps[id] = o
	return o.Attempts, nil
}

func (r *OTPRepo) MarkVerified(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.otps[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.VerifiedAt = &at
	r.s.otps[id] = o
	return nil
}
