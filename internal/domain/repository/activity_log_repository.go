package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// ActivityLogFilter filtros opcionales del log de actividad.
type ActivityLogFilter struct {
	Action     string
	EntityType string
	Limit      int
	Offset     int
}

// ActivityLogRepository registro de auditoría (solo inserción y lectura).
type ActivityLogRepository interface {
	Create(ctx context.Context, l *entity.ActivityLog) error
	List(ctx context.Context, businessID string, f ActivityLogFilter) ([]*entity.ActivityLog, int64, error)
}
