package repository

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// SettingsRepository preferencias por negocio; Get devuelve nil si no existen.
type SettingsRepository interface {
	Get(ctx context.Context, businessID string) (*entity.CompanySettings, error)
	Upsert(ctx context.Context, s *entity.CompanySettings) error
}
