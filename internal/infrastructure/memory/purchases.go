package memory

import (
	"context"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras en memoria con sus líneas.
type PurchaseRepo struct{ s *Store }

func (r *PurchaseRepo) withCustomer(p entity.Purchase) *entity.Purchase {
	p.CustomerName = r.s.customers[p.CustomerID].Name
	p.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return &p
}

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	c.Items = append([]entity.PurchaseItem(nil), p.Items...)
	r.s.purchases[p.ID] = c
	return nil
}

func (r *PurchaseRepo) GetByID(_ context.Context, businessID, id string) (*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.purchases[id]
	if !ok || p.BusinessID != businessID {
		return nil, nil
	}
	return r.withCustomer(p), nil
}

func (r *PurchaseRepo) List(_ context.Context, businessID string, f repository.ListFilter) ([]*entity.Purchase, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []*entity.Purchase{}
	for _, p := range r.s.purchases {
		if p.BusinessID != businessID || !inRange(p.PurchaseDate, f.From, f.To) {
			continue
		}
		if f.CustomerID != "" && p.CustomerID != f.CustomerID {
			continue
		}
		out := r.withCustomer(p)
		out.Items = nil
		if f.Search != "" && !contains(out.CustomerName, f.Search) && !contains(out.Memo, f.Search) {
			continue
		}
		items = append(items, out)
	}
	created := func(p *entity.Purchase) time.Time { return p.CreatedAt }
	switch f.SortBy {
	case "totalAmount":
		sortBy(items, f.SortDesc, func(a, b *entity.Purchase) int { return a.TotalAmount.Cmp(b.TotalAmount) }, created)
	case "createdAt":
		sortBy(items, f.SortDesc, func(a, b *entity.Purchase) int { return 0 }, created)
	default:
		sortBy(items, f.SortDesc, func(a, b *entity.Purchase) int { return a.PurchaseDate.Compare(b.PurchaseDate) }, created)
	}
	return page(items, f.Limit, f.Offset), int64(len(items)), nil
}

func (r *PurchaseRepo) Update(_ context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.purchases[p.ID]
	if !ok || old.BusinessID != p.BusinessID {
		return domain.ErrNotFound
	}
	c := *p
	c.Items = append([]entity.PurchaseItem(nil), p.Items...)
	r.s.purchases[p.ID] = c
	return nil
}

func (r *PurchaseRepo) Delete(_ context.Context, businessID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.purchases[id]
	if !ok || p.BusinessID != businessID {
		return domain.ErrNotFound
	}
	delete(r.s.purchases, id)
	return nil
}
