package memory

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.MaintenanceRepository = (*MaintenanceRepo)(nil)

// MaintenanceRepo borrados masivos en memoria.
type MaintenanceRepo struct{ s *Store }

func (r *MaintenanceRepo) purge(businessID string) {
	for id, v := range r.s.sales {
		if v.BusinessID == businessID {
			delete(r.s.sales, id)
		}
	}
	for id, v := range r.s.purchases {
		if v.BusinessID == businessID {
			delete(r.s.purchases, id)
		}
	}
	for id, v := range r.s.payments {
		if v.BusinessID == businessID {
			delete(r.s.payments, id)
		}
	}
	for id, v := range r.s.customers {
		if v.BusinessID == businessID {
			delete(r.s.customers, id)
		}
	}
	for id, v := range r.s.products {
		if v.BusinessID == businessID {
			delete(r.s.products, id)
		}
	}
	for id, v := range r.s.notes {
		if v.BusinessID == businessID {
			delete(r.s.notes, id)
		}
	}
}

func (r *MaintenanceRepo) PurgeBusinessData(_ context.Context, businessID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.purge(businessID)
	return nil
}

func (r *MaintenanceRepo) DeleteUserAccount(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return domain.ErrNotFound
	}
	for id, b := range r.s.businesses {
		if b.UserID != userID {
			continue
		}
		r.purge(id)
		delete(r.s.settings, id)
		for uid, u := range r.s.users {
			if u.BusinessID == id {
				delete(r.s.users, uid)
			}
		}
		kept := r.s.logs[:0]
		for _, l := range r.s.logs {
			if l.BusinessID != id {
				kept = append(kept, l)
			}
		}
		r.s.logs = kept
		delete(r.s.businesses, id)
	}
	for id, n := range r.s.notifications {
		if n.UserID == userID {
			delete(r.s.notifications, id)
		}
	}
	delete(r.s.users, userID)
	return nil
}
