package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.NoteRepository = (*NoteRepo)(nil)

const noteColumns = `id, business_id, user_id, title, content, pinned, created_at, updated_at`

type NoteRepo struct {
	q Querier
}

func NewNoteRepository(q Querier) *NoteRepo {
	return &NoteRepo{q: q}
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	var n entity.Note
	if err := row.Scan(&n.ID, &n.BusinessID, &n.UserID, &n.Title, &n.Content, &n.Pinned, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) Create(ctx context.Context, n *entity.Note) error {
	_, err := r.q.Exec(ctx, `INSERT INTO notes (`+noteColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.BusinessID, n.UserID, n.Title, n.Content, n.Pinned, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Note, error) {
	n, err := scanNote(r.q.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE business_id = $1 AND id = $2`, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List fijadas primero y luego por última modificación.
func (r *NoteRepo) List(ctx context.Context, businessID string, limit, offset int) ([]*entity.Note, int64, error) {
	b := &builder{}
	b.where("business_id = " + b.arg(businessID))
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM notes`+b.clause(), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}
	query := `SELECT ` + noteColumns + ` FROM notes` + b.clause() + ` ORDER BY pinned DESC, updated_at DESC`
	query += b.page(limit, offset)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	list := []*entity.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan note: %w", err)
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

func (r *NoteRepo) Update(ctx context.Context, n *entity.Note) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE notes SET title = $3, content = $4, pinned = $5, updated_at = $6
		WHERE business_id = $1 AND id = $2`, n.BusinessID, n.ID, n.Title, n.Content, n.Pinned, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM notes WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
