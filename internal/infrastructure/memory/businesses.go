package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo negocios en memoria; número de registro único entre activos.
type BusinessRepo struct{ s *Store }

func (r *BusinessRepo) numberTaken(number, exceptID string) bool {
	for _, b := range r.s.businesses {
		if b.IsActive && b.ID != exceptID && b.BusinessNumber == number {
			return true
		}
	}
	return false
}

func (r *BusinessRepo) Create(_ context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.IsActive && r.numberTaken(b.BusinessNumber, b.ID) {
		return domain.ErrDuplicate
	}
	r.s.businesses[b.ID] = *b
	return nil
}

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BusinessRepo) GetActiveByNumber(_ context.Context, number string) (*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.businesses {
		if b.IsActive && b.BusinessNumber == number {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *BusinessRepo) ListByUser(_ context.Context, userID string) ([]*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Business{}
	for _, b := range r.s.businesses {
		if b.UserID == userID && b.IsActive {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *BusinessRepo) Update(_ context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[b.ID]; !ok {
		return domain.ErrNotFound
	}
	if b.IsActive && r.numberTaken(b.BusinessNumber, b.ID) {
		return domain.ErrDuplicate
	}
	r.s.businesses[b.ID] = *b
	return nil
}

func (r *BusinessRepo) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok || !b.IsActive {
		return domain.ErrNotFound
	}
	b.IsActive = false
	r.s.businesses[id] = b
	return nil
}
