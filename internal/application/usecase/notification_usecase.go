package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/pkg/pagination"
)

// NotificationUseCase feed de notificaciones del usuario.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// Notify crea una notificación; un fallo solo se loguea.
func (uc *NotificationUseCase) Notify(ctx context.Context, userID, businessID, kind, title, message, link string) {
	n := &entity.Notification{
		ID:         uuid.New().String(),
		UserID:     userID,
		BusinessID: businessID,
		Type:       kind,
		Title:      title,
		Message:    message,
		Link:       link,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("type", kind).Msg("no se pudo crear notificación")
	}
}

// List lista las notificaciones del usuario.
func (uc *NotificationUseCase) List(ctx context.Context, userID string, q dto.NotificationQuery) (*dto.PageResult[dto.NotificationResponse], error) {
	p := pagination.New(q.Page, q.Limit)
	items, total, err := uc.repo.List(ctx, userID, q.UnreadOnly, p.Limit, p.Offset())
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[dto.NotificationResponse]{
		Items: mapItems(items, toNotificationResponse),
		Meta:  p.Meta(total),
	}, nil
}

// UnreadCount número de notificaciones sin leer.
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.repo.CountUnread(ctx, userID)
}

// MarkRead marca una notificación del usuario como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	return uc.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marca todas como leídas y devuelve cuántas cambiaron.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return uc.repo.MarkAllRead(ctx, userID)
}

// Delete elimina una notificación del usuario.
func (uc *NotificationUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.repo.Delete(ctx, userID, id)
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:         n.ID,
		BusinessID: n.BusinessID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Link:       n.Link,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}
