package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

func setPassword(t *testing.T, f *fixture, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	f.admin.PasswordHash = string(hash)
	require.NoError(t, f.repos.Users.Update(context.Background(), f.admin))
}

func TestSettings_Get_ValoresPorDefecto(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewSettingsUseCase(f.repos, f.tx, f.activity)

	s, err := uc.Get(context.Background(), f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, string(tax.Separate), s.DefaultTaxType)
	assert.True(t, s.NotifyOnSign)
	assert.Nil(t, s.UpdatedAt)
}

func TestSettings_Update_TipoPredeterminadoSeUsaEnProductos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewSettingsUseCase(f.repos, f.tx, f.activity)
	label := "면세"
	_, err := uc.Update(ctx, f.actor, f.business.ID, dto.UpdateSettingsRequest{DefaultTaxType: &label})
	require.NoError(t, err)

	p, err := f.products().Create(ctx, f.actor, f.business.ID, dto.CreateProductRequest{Name: "쌀", SellPrice: dec("50000")})
	require.NoError(t, err)
	assert.Equal(t, string(tax.Free), p.TaxType)
}

func TestSettings_ResetData_ContraseñaIncorrecta(t *testing.T) {
	f := newFixture(t)
	setPassword(t, f, "correct-horse")
	uc := usecase.NewSettingsUseCase(f.repos, f.tx, f.activity)

	err := uc.ResetData(context.Background(), f.actor, f.business.ID, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSettings_ResetData_BorraDatosDelNegocio(t *testing.T) {
	f := newFixture(t)
	setPassword(t, f, "correct-horse")
	ctx := context.Background()
	seedLedger(t, f)

	uc := usecase.NewSettingsUseCase(f.repos, f.tx, f.activity)
	require.NoError(t, uc.ResetData(ctx, f.actor, f.business.ID, "correct-horse"))

	n, err := f.repos.Customers.CountAll(ctx, f.business.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	balances, err := f.repos.Reports.CustomerBalances(ctx, f.business.ID, "")
	require.NoError(t, err)
	assert.Empty(t, balances)

	b, err := f.repos.Businesses.GetByID(ctx, f.business.ID)
	require.NoError(t, err)
	assert.NotNil(t, b, "el negocio se conserva")
}

func TestSettings_DeleteAccount_BorraTodo(t *testing.T) {
	f := newFixture(t)
	setPassword(t, f, "correct-horse")
	ctx := context.Background()
	seedLedger(t, f)

	uc := usecase.NewSettingsUseCase(f.repos, f.tx, f.activity)
	require.NoError(t, uc.DeleteAccount(ctx, f.actor, "correct-horse"))

	u, err := f.repos.Users.GetByID(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Nil(t, u)
	b, err := f.repos.Businesses.GetByID(ctx, f.business.ID)
	require.NoError(t, err)
	assert.Nil(t, b)
}
