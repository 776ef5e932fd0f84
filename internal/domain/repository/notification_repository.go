package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// NotificationRepository notificaciones por usuario, más recientes primero.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead devuelve domain.ErrNotFound si la notificación no es del usuario.
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}
