package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo auditoría: solo inserción y lectura.
type ActivityLogRepo struct {
	q Querier
}

func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, user_id, business_id, action, entity_type, entity_id, description, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, nullable(l.UserID), nullable(l.BusinessID), l.Action, l.EntityType, l.EntityID, l.Description, l.IP, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *ActivityLogRepo) List(ctx context.Context, businessID string, f repository.ActivityLogFilter) ([]*entity.ActivityLog, int64, error) {
	b := &builder{}
	b.where("business_id = " + b.arg(businessID))
	if f.Action != "" {
		b.where("action = " + b.arg(f.Action))
	}
	if f.EntityType != "" {
		b.where("entity_type = " + b.arg(f.EntityType))
	}
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`+b.clause(), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}
	query := `SELECT id, user_id, business_id, action, entity_type, entity_id, description, ip, created_at
		FROM activity_logs` + b.clause() + ` ORDER BY created_at DESC`
	query += b.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	list := []*entity.ActivityLog{}
	for rows.Next() {
		var l entity.ActivityLog
		var uid, bid *string
		if err := rows.Scan(&l.ID, &uid, &bid, &l.Action, &l.EntityType, &l.EntityID, &l.Description, &l.IP, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan activity log: %w", err)
		}
		l.UserID = deref(uid)
		l.BusinessID = deref(bid)
		list = append(list, &l)
	}
	return list, total, rows.Err()
}
