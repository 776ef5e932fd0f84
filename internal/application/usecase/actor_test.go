package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

func addUser(t *testing.T, f *fixture, role, businessID string, active bool) *entity.User {
	t.Helper()
	u := &entity.User{
		ID: uuid.New().String(), Email: uuid.New().String() + "@example.com", Name: "사용자",
		Role: role, BusinessID: businessID, IsActive: active, CreatedAt: time.Now(),
	}
	require.NoError(t, f.repos.Users.Create(context.Background(), u))
	return u
}

func TestTenantGuard(t *testing.T) {
	f := newFixture(t)
	guard := usecase.NewTenantGuard(f.repos.Businesses, f.repos.Users)
	ctx := context.Background()

	viewer := addUser(t, f, entity.RoleSalesViewer, f.business.ID, true)
	otherAdmin := addUser(t, f, entity.RoleAdmin, "", true)
	strayViewer := addUser(t, f, entity.RoleSalesViewer, uuid.New().String(), true)
	inactiveViewer := addUser(t, f, entity.RoleSalesViewer, f.business.ID, false)

	tests := []struct {
		name   string
		userID string
		ok     bool
	}{
		{"dueño", f.admin.ID, true},
		{"sales_viewer asignado", viewer.ID, true},
		{"admin ajeno", otherAdmin.ID, false},
		{"sales_viewer de otro negocio", strayViewer.ID, false},
		{"sales_viewer inactivo", inactiveViewer.ID, false},
		{"usuario inexistente", uuid.New().String(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := guard.Authorize(ctx, usecase.Actor{UserID: tt.userID}, f.business.ID)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, f.business.ID, b.ID)
				return
			}
			assert.ErrorIs(t, err, domain.ErrBusinessNotFound)
		})
	}
}

func TestTenantGuard_NegocioInactivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Businesses.SoftDelete(ctx, f.business.ID))

	_, err := usecase.NewTenantGuard(f.repos.Businesses, f.repos.Users).Authorize(ctx, f.actor, f.business.ID)
	assert.ErrorIs(t, err, domain.ErrBusinessNotFound)
}
