package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.NoteRepository = (*NoteRepo)(nil)

// NoteRepo notas en memoria.
type NoteRepo struct{ s *Store }

func (r *NoteRepo) Create(_ context.Context, n *entity.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notes[n.ID] = *n
	return nil
}

func (r *NoteRepo) GetByID(_ context.Context, businessID, id string) (*entity.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.notes[id]
	if !ok || n.BusinessID != businessID {
		return nil, nil
	}
	return &n, nil
}

func (r *NoteRepo) List(_ context.Context, businessID string, limit, offset int) ([]*entity.Note, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []*entity.Note{}
	for _, n := range r.s.notes {
		if n.BusinessID == businessID {
			n := n
			items = append(items, &n)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Pinned != items[j].Pinned {
			return items[i].Pinned
		}
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return page(items, limit, offset), int64(len(items)), nil
}

func (r *NoteRepo) Update(_ context.Context, n *entity.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.notes[n.ID]
	if !ok || old.BusinessID != n.BusinessID {
		return domain.ErrNotFound
	}
	r.s.notes[n.ID] = *n
	return nil
}

func (r *NoteRepo) Delete(_ context.Context, businessID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[id]
	if !ok || n.BusinessID != businessID {
		return domain.ErrNotFound
	}
	delete(r.s.notes, id)
	return nil
}
