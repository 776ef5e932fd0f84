package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) codeTaken(p *entity.Product) bool {
	for _, other := range r.s.products {
		if other.ID != p.ID && other.BusinessID == p.BusinessID && other.Code == p.Code {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(p) {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, businessID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.BusinessID != businessID || !p.IsActive {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(_ context.Context, businessID, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.BusinessID == businessID && p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(_ context.Context, businessID string, f repository.ListFilter) ([]*entity.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []*entity.Product{}
	for _, p := range r.s.products {
		if p.BusinessID != businessID || !p.IsActive {
			continue
		}
		if f.Type != "" && string(p.TaxType) != f.Type {
			continue
		}
		if f.Search != "" && !contains(p.Name, f.Search) && !contains(p.Code, f.Search) && !contains(p.Spec, f.Search) {
			continue
		}
		p := p
		items = append(items, &p)
	}
	created := func(p *entity.Product) time.Time { return p.CreatedAt }
	switch f.SortBy {
	case "name":
		sortBy(items, f.SortDesc, func(a, b *entity.Product) int { return strings.Compare(a.Name, b.Name) }, created)
	case "code":
		sortBy(items, f.SortDesc, func(a, b *entity.Product) int { return strings.Compare(a.Code, b.Code) }, created)
	case "sellPrice":
		sortBy(items, f.SortDesc, func(a, b *entity.Product) int { return a.SellPrice.Cmp(b.SellPrice) }, created)
	case "buyPrice":
		sortBy(items, f.SortDesc, func(a, b *entity.Product) int { return a.BuyPrice.Cmp(b.BuyPrice) }, created)
	default:
		sortBy(items, f.SortDesc, func(a, b *entity.Product) int { return 0 }, created)
	}
	return page(items, f.Limit, f.Offset), int64(len(items)), nil
}

func (r *ProductRepo) CountAll(_ context.Context, businessID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, p := range r.s.products {
		if p.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.products[p.ID]
	if !ok || old.BusinessID != p.BusinessID || !old.IsActive {
		return domain.ErrNotFound
	}
	if r.codeTaken(p) {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) SoftDelete(_ context.Context, businessID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.BusinessID != businessID || !p.IsActive {
		return domain.ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}
