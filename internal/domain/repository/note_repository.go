package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// NoteRepository notas del negocio; List ordena fijadas primero y luego por fecha.
type NoteRepository interface {
	Create(ctx context.Context, n *entity.Note) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Note, error)
	List(ctx context.Context, businessID string, limit, offset int) ([]*entity.Note, int64, error)
	Update(ctx context.Context, n *entity.Note) error
	Delete(ctx context.Context, businessID, id string) error
}
