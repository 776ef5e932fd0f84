package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

func (f *fixture) users() *usecase.UserUseCase {
	return usecase.NewUserUseCase(f.repos.Users, f.activity)
}

func TestUser_Create_AsignaRolYNegocio(t *testing.T) {
	f := newFixture(t)
	uc := f.users()
	ctx := context.Background()

	u, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateUserRequest{
		Email: " Viewer@Example.com ", Password: "password123", Name: "이영업", Phone: "010-2222-3333",
	})
	require.NoError(t, err)
	assert.Equal(t, "viewer@example.com", u.Email)
	assert.Equal(t, entity.RoleSalesViewer, u.Role)
	assert.Equal(t, f.business.ID, u.BusinessID)
	assert.True(t, u.IsActive)

	stored, err := f.repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestUser_Create_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	uc := f.users()
	ctx := context.Background()
	_, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateUserRequest{Email: "viewer@example.com", Password: "password123", Name: "이영업"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
	}{
		{"mismo email de otro viewer", "viewer@example.com"},
		{"mayúsculas no cuentan", "VIEWER@example.com"},
		{"email del admin", f.admin.Email},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateUserRequest{Email: tt.email, Password: "password123", Name: "중복"})
			assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		})
	}

	list, err := uc.List(ctx, f.business.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUser_UpdateYDelete(t *testing.T) {
	f := newFixture(t)
	uc := f.users()
	ctx := context.Background()
	u, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateUserRequest{Email: "viewer@example.com", Password: "password123", Name: "이영업"})
	require.NoError(t, err)

	inactive := false
	updated, err := uc.Update(ctx, f.actor, f.business.ID, u.ID, dto.UpdateUserRequest{
		Name:     strPtr("이영업 대리"),
		IsActive: &inactive,
		Password: strPtr("newpassword1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "이영업 대리", updated.Name)
	assert.False(t, updated.IsActive)

	stored, err := f.repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpassword1")))

	require.NoError(t, uc.Delete(ctx, f.actor, f.business.ID, u.ID))
	list, err := uc.List(ctx, f.business.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, uc.Delete(ctx, f.actor, f.business.ID, u.ID), domain.ErrUserNotFound)
}

func TestUser_SoloViewersDelNegocio(t *testing.T) {
	f := newFixture(t)
	uc := f.users()
	ctx := context.Background()
	now := time.Now()
	foreign := &entity.User{
		ID: uuid.New().String(), Email: "foreign@example.com", Name: "남의직원",
		Role: entity.RoleSalesViewer, BusinessID: uuid.New().String(), IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.repos.Users.Create(ctx, foreign))

	tests := []struct {
		name string
		id   string
	}{
		{"viewer de otro negocio", foreign.ID},
		{"el propio admin", f.admin.ID},
		{"id inexistente", uuid.New().String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Update(ctx, f.actor, f.business.ID, tt.id, dto.UpdateUserRequest{Name: strPtr("변경")})
			assert.ErrorIs(t, err, domain.ErrUserNotFound)
			assert.ErrorIs(t, uc.Delete(ctx, f.actor, f.business.ID, tt.id), domain.ErrUserNotFound)
		})
	}

	admin, err := f.repos.Users.GetByID(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "김사장", admin.Name)
	stillThere, err := f.repos.Users.GetByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.NotNil(t, stillThere)
}
