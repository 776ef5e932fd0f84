package memory

import (
	"context"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria con sus líneas.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) withCustomer(sale entity.Sale) *entity.Sale {
	sale.CustomerName = r.s.customers[sale.CustomerID].Name
	sale.Items = append([]entity.SaleItem(nil), sale.Items...)
	return &sale
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *sale
	c.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.sales[sale.ID] = c
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, businessID, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.BusinessID != businessID {
		return nil, nil
	}
	return r.withCustomer(sale), nil
}

func (r *SaleRepo) List(_ context.Context, businessID string, f repository.ListFilter) ([]*entity.Sale, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []*entity.Sale{}
	for _, sale := range r.s.sales {
		if sale.BusinessID != businessID || !inRange(sale.SaleDate, f.From, f.To) {
			continue
		}
		if f.CustomerID != "" && sale.CustomerID != f.CustomerID {
			continue
		}
		out := r.withCustomer(sale)
		out.Items = nil
		if f.Search != "" && !contains(out.CustomerName, f.Search) && !contains(out.Memo, f.Search) {
			continue
		}
		items = append(items, out)
	}
	created := func(s *entity.Sale) time.Time { return s.CreatedAt }
	switch f.SortBy {
	case "totalAmount":
		sortBy(items, f.SortDesc, func(a, b *entity.Sale) int { return a.TotalAmount.Cmp(b.TotalAmount) }, created)
	case "createdAt":
		sortBy(items, f.SortDesc, func(a, b *entity.Sale) int { return 0 }, created)
	default:
		sortBy(items, f.SortDesc, func(a, b *entity.Sale) int { return a.SaleDate.Compare(b.SaleDate) }, created)
	}
	return page(items, f.Limit, f.Offset), int64(len(items)), nil
}

func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.sales[sale.ID]
	if !ok || old.BusinessID != sale.BusinessID {
		return domain.ErrNotFound
	}
	if old.SignedAt != nil {
		return domain.ErrAlreadySigned
	}
	c := *sale
	c.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.sales[sale.ID] = c
	return nil
}

func (r *SaleRepo) Delete(_ context.Context, businessID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.BusinessID != businessID {
		return domain.ErrNotFound
	}
	if sale.SignedAt != nil {
		return domain.ErrAlreadySigned
	}
	delete(r.s.sales, id)
	return nil
}

func (r *SaleRepo) Sign(_ context.Context, businessID, id, signedBy string, signedAt time.Time, path string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.BusinessID != businessID {
		return domain.ErrNotFound
	}
	if sale.SignedAt != nil {
		return domain.ErrAlreadySigned
	}
	sale.SignedBy = signedBy
	sale.SignedAt = &signedAt
	sale.SignaturePath = path
	sale.UpdatedAt = signedAt
	r.s.sales[id] = sale
	return nil
}
