package memory

import (
	"context"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo cobros y pagos en memoria.
type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, businessID, id string) (*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments[id]
	if !ok || p.BusinessID != businessID {
		return nil, nil
	}
	p.CustomerName = r.s.customers[p.CustomerID].Name
	return &p, nil
}

func (r *PaymentRepo) List(_ context.Context, businessID string, f repository.ListFilter) ([]*entity.Payment, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []*entity.Payment{}
	for _, p := range r.s.payments {
		if p.BusinessID != businessID || !inRange(p.PaymentDate, f.From, f.To) {
			continue
		}
		if (f.Type != "" && p.Type != f.Type) || (f.CustomerID != "" && p.CustomerID != f.CustomerID) {
			continue
		}
		p.CustomerName = r.s.customers[p.CustomerID].Name
		if f.Search != "" && !contains(p.CustomerName, f.Search) && !contains(p.Memo, f.Search) {
			continue
		}
		p := p
		items = append(items, &p)
	}
	created := func(p *entity.Payment) time.Time { return p.CreatedAt }
	switch f.SortBy {
	case "amount":
		sortBy(items, f.SortDesc, func(a, b *entity.Payment) int { return a.Amount.Cmp(b.Amount) }, created)
	case "createdAt":
		sortBy(items, f.SortDesc, func(a, b *entity.Payment) int { return 0 }, created)
	default:
		sortBy(items, f.SortDesc, func(a, b *entity.Payment) int { return a.PaymentDate.Compare(b.PaymentDate) }, created)
	}
	return page(items, f.Limit, f.Offset), int64(len(items)), nil
}

func (r *PaymentRepo) Update(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.payments[p.ID]
	if !ok || old.BusinessID != p.BusinessID {
		return domain.ErrNotFound
	}
	r.s.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) Delete(_ context.Context, businessID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok || p.BusinessID != businessID {
		return domain.ErrNotFound
	}
	delete(r.s.payments, id)
	return nil
}
