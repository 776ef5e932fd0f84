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

// Tipos de entidad del log de actividad.
const (
	EntityBusiness = "business"
	EntityCustomer = "customer"
	EntityProduct  = "product"
	EntitySale     = "sale"
	EntityPurchase = "purchase"
	EntityPayment  = "payment"
	EntityNote     = "note"
	EntityUser     = "user"
	EntitySettings = "settings"
)

// ActivityLogUseCase registro y consulta del log de actividad.
type ActivityLogUseCase struct {
	repo repository.ActivityLogRepository
}

// NewActivityLogUseCase construye el caso de uso.
func NewActivityLogUseCase(repo repository.ActivityLogRepository) *ActivityLogUseCase {
	return &ActivityLogUseCase{repo: repo}
}

func newActivity(actor Actor, businessID, action, entityType, entityID, description string) *entity.ActivityLog {
	return &entity.ActivityLog{
		ID:          uuid.New().String(),
		UserID:      actor.UserID,
		BusinessID:  businessID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		IP:          actor.IP,
		CreatedAt:   time.Now(),
	}
}

// Record guarda un registro; un fallo solo se loguea y no interrumpe la operación.
func (uc *ActivityLogUseCase) Record(ctx context.Context, actor Actor, businessID, action, entityType, entityID, description string) {
	l := newActivity(actor, businessID, action, entityType, entityID, description)
	if err := uc.repo.Create(ctx, l); err != nil {
		log.Warn().Err(err).Str("action", action).Str("entity_type", entityType).Msg("no se pudo registrar actividad")
	}
}

// List lista la actividad del negocio, más reciente primero.
func (uc *ActivityLogUseCase) List(ctx context.Context, businessID string, q dto.ActivityLogQuery) (*dto.PageResult[dto.ActivityLogResponse], error) {
	p := pagination.New(q.Page, q.Limit)
	items, total, err := uc.repo.List(ctx, businessID, repository.ActivityLogFilter{
		Action:     q.Action,
		EntityType: q.EntityType,
		Limit:      p.Limit,
		Offset:     p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[dto.ActivityLogResponse]{
		Items: mapItems(items, toActivityLogResponse),
		Meta:  p.Meta(total),
	}, nil
}

func toActivityLogResponse(l *entity.ActivityLog) dto.ActivityLogResponse {
	return dto.ActivityLogResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		Action:      l.Action,
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Description: l.Description,
		IP:          l.IP,
		CreatedAt:   l.CreatedAt,
	}
}
