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

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

const businessColumns = `id, user_id, name, business_number, representative, business_type, business_item,
		address, phone, email, is_active, created_at, updated_at`

// BusinessRepo negocios sobre PostgreSQL. El número de negocio es único entre activos (índice parcial).
type BusinessRepo struct {
	q Querier
}

func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

func scanBusiness(row pgx.Row) (*entity.Business, error) {
	var b entity.Business
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.BusinessNumber, &b.Representative, &b.BusinessType,
		&b.BusinessItem, &b.Address, &b.Phone, &b.Email, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	query := `
		INSERT INTO businesses (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.UserID, b.Name, b.BusinessNumber, b.Representative, b.BusinessType, b.BusinessItem,
		b.Address, b.Phone, b.Email, b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

func (r *BusinessRepo) findOne(ctx context.Context, where string, arg any) (*entity.Business, error) {
	b, err := scanBusiness(r.q.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *BusinessRepo) GetActiveByNumber(ctx context.Context, number string) (*entity.Business, error) {
	return r.findOne(ctx, "business_number = $1 AND is_active LIMIT 1", number)
}

func (r *BusinessRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE user_id = $1 AND is_active ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	list := []*entity.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BusinessRepo) Update(ctx context.Context, b *entity.Business) error {
	query := `
		UPDATE businesses SET name = $2, business_number = $3, representative = $4, business_type = $5,
			business_item = $6, address = $7, phone = $8, email = $9, is_active = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.BusinessNumber, b.Representative, b.BusinessType, b.BusinessItem,
		b.Address, b.Phone, b.Email, b.IsActive, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BusinessRepo) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE businesses SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
