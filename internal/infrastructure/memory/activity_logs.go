package memory

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo log de actividad en memoria (orden de inserción).
type ActivityLogRepo struct{ s *Store }

func (r *ActivityLogRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.logs = append(r.s.logs, *l)
	return nil
}

func (r *ActivityLogRepo) List(_ context.Context, businessID string, f repository.ActivityLogFilter) ([]*entity.ActivityLog, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []*entity.ActivityLog{}
	// más recientes primero
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		l := r.s.logs[i]
		if l.BusinessID != businessID {
			continue
		}
		if (f.Action != "" && l.Action != f.Action) || (f.EntityType != "" && l.EntityType != f.EntityType) {
			continue
		}
		items = append(items, &l)
	}
	return page(items, f.Limit, f.Offset), int64(len(items)), nil
}
