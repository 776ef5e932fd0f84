package memory

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo preferencias por negocio en memoria.
type SettingsRepo struct{ s *Store }

func (r *SettingsRepo) Get(_ context.Context, businessID string) (*entity.CompanySettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.settings[businessID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *SettingsRepo) Upsert(_ context.Context, st *entity.CompanySettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings[st.BusinessID] = *st
	return nil
}
