package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/pkg/pagination"
)

// NoteUseCase notas del negocio.
type NoteUseCase struct {
	repo     repository.NoteRepository
	activity *ActivityLogUseCase
}

func NewNoteUseCase(repo repository.NoteRepository, activity *ActivityLogUseCase) *NoteUseCase {
	return &NoteUseCase{repo: repo, activity: activity}
}

func (uc *NoteUseCase) List(ctx context.Context, businessID string, page, limit int) (*dto.PageResult[dto.NoteResponse], error) {
	p := pagination.New(page, limit)
	items, total, err := uc.repo.List(ctx, businessID, p.Limit, p.Offset())
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[dto.NoteResponse]{Items: mapItems(items, toNoteResponse), Meta: p.Meta(total)}, nil
}

func (uc *NoteUseCase) Get(ctx context.Context, businessID, id string) (*dto.NoteResponse, error) {
	n, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := toNoteResponse(n)
	return &out, nil
}

func (uc *NoteUseCase) load(ctx context.Context, businessID, id string) (*entity.Note, error) {
	n, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	return n, nil
}

func (uc *NoteUseCase) Create(ctx context.Context, actor Actor, businessID string, in dto.NoteRequest) (*dto.NoteResponse, error) {
	now := time.Now()
	n := &entity.Note{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		UserID:     actor.UserID,
		Title:      strings.TrimSpace(in.Title),
		Content:    in.Content,
		Pinned:     in.Pinned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionCreate, EntityNote, n.ID, "메모 등록: "+n.Title)
	out := toNoteResponse(n)
	return &out, nil
}

func (uc *NoteUseCase) Update(ctx context.Context, actor Actor, businessID, id string, in dto.NoteRequest) (*dto.NoteResponse, error) {
	n, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	n.Title = strings.TrimSpace(in.Title)
	n.Content = in.Content
	n.Pinned = in.Pinned
	n.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionUpdate, EntityNote, n.ID, "메모 수정: "+n.Title)
	out := toNoteResponse(n)
	return &out, nil
}

func (uc *NoteUseCase) Delete(ctx context.Context, actor Actor, businessID, id string) error {
	n, err := uc.load(ctx, businessID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, businessID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionDelete, EntityNote, id, "메모 삭제: "+n.Title)
	return nil
}

func toNoteResponse(n *entity.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		Pinned:    n.Pinned,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
