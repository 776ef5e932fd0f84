package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo una fila por negocio en company_settings.
type SettingsRepo struct {
	q Querier
}

func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) Get(ctx context.Context, businessID string) (*entity.CompanySettings, error) {
	query := `
		SELECT business_id, default_tax_type, bank_name, bank_account, account_holder, statement_note,
			notify_on_sign, updated_at
		FROM company_settings WHERE business_id = $1`
	var s entity.CompanySettings
	var taxType string
	err := r.q.QueryRow(ctx, query, businessID).Scan(
		&s.BusinessID, &taxType, &s.BankName, &s.BankAccount, &s.AccountHolder, &s.StatementNote,
		&s.NotifyOnSign, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	s.DefaultTaxType = tax.Type(taxType)
	return &s, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.CompanySettings) error {
	query := `
		INSERT INTO company_settings (business_id, default_tax_type, bank_name, bank_account, account_holder,
			statement_note, notify_on_sign, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (business_id) DO UPDATE SET
			default_tax_type = EXCLUDED.default_tax_type, bank_name = EXCLUDED.bank_name,
			bank_account = EXCLUDED.bank_account, account_holder = EXCLUDED.account_holder,
			statement_note = EXCLUDED.statement_note, notify_on_sign = EXCLUDED.notify_on_sign,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		s.BusinessID, string(s.DefaultTaxType), s.BankName, s.BankAccount, s.AccountHolder,
		s.StatementNote, s.NotifyOnSign, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
