package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria; el código es único por negocio (incluidos inactivos).
type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) codeTaken(c *entity.Customer) bool {
	for _, other := range r.s.customers {
		if other.ID != c.ID && other.BusinessID == c.BusinessID && other.Code == c.Code {
			return true
		}
	}
	return false
}

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(c) {
		return domain.ErrDuplicate
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, businessID, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok || c.BusinessID != businessID || !c.IsActive {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetByCode(_ context.Context, businessID, code string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.BusinessID == businessID && c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) GetActiveByBusinessNumber(_ context.Context, businessID, number string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.BusinessID == businessID && c.IsActive && c.BusinessNumber == number {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(_ context.Context, businessID string, f repository.ListFilter) ([]*entity.Customer, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []*entity.Customer{}
	for _, c := range r.s.customers {
		if c.BusinessID != businessID || !c.IsActive {
			continue
		}
		if f.Type != "" && c.Type != f.Type && (f.Type == entity.CustomerTypeBoth || c.Type != entity.CustomerTypeBoth) {
			continue
		}
		if f.Search != "" && !contains(c.Name, f.Search) && !contains(c.Code, f.Search) &&
			!contains(c.BusinessNumber, f.Search) && !contains(c.Representative, f.Search) {
			continue
		}
		c := c
		items = append(items, &c)
	}
	created := func(c *entity.Customer) time.Time { return c.CreatedAt }
	switch f.SortBy {
	case "name":
		sortBy(items, f.SortDesc, func(a, b *entity.Customer) int { return strings.Compare(a.Name, b.Name) }, created)
	case "code":
		sortBy(items, f.SortDesc, func(a, b *entity.Customer) int { return strings.Compare(a.Code, b.Code) }, created)
	default:
		sortBy(items, f.SortDesc, func(a, b *entity.Customer) int { return 0 }, created)
	}
	return page(items, f.Limit, f.Offset), int64(len(items)), nil
}

func (r *CustomerRepo) CountAll(_ context.Context, businessID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, c := range r.s.customers {
		if c.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.customers[c.ID]
	if !ok || old.BusinessID != c.BusinessID || !old.IsActive {
		return domain.ErrNotFound
	}
	if r.codeTaken(c) {
		return domain.ErrDuplicate
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) SoftDelete(_ context.Context, businessID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok || c.BusinessID != businessID || !c.IsActive {
		return domain.ErrNotFound
	}
	c.IsActive = false
	c.UpdatedAt = time.Now()
	r.s.customers[id] = c
	return nil
}
