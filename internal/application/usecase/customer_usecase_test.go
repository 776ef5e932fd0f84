package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

func TestCustomer_Create_CodigoAutogenerado(t *testing.T) {
	f := newFixture(t)
	uc := f.customers()
	ctx := context.Background()

	a, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "가나상회"})
	require.NoError(t, err)
	b, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "다라유통", Type: entity.CustomerTypeSales})
	require.NoError(t, err)

	assert.Equal(t, "C0001", a.Code)
	assert.Equal(t, "C0002", b.Code)
	assert.Equal(t, entity.CustomerTypeBoth, a.Type)
}

func TestCustomer_Create_NumeroDuplicado_409SinInsertar(t *testing.T) {
	f := newFixture(t)
	uc := f.customers()
	ctx := context.Background()

	_, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "가나상회", BusinessNumber: "123-45-67890"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "가나상회 2호점", BusinessNumber: "123-45-67890"})
	assert.ErrorIs(t, err, domain.ErrBusinessNumberUsed)

	page, err := uc.List(ctx, f.business.ID, dto.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Meta.Total)
}

func TestCustomer_Create_CodigoDuplicado(t *testing.T) {
	f := newFixture(t)
	uc := f.customers()
	ctx := context.Background()

	_, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Code: "A-1", Name: "가"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Code: "A-1", Name: "나"})
	assert.ErrorIs(t, err, domain.ErrCodeAlreadyExists)
}

func TestCustomer_Delete_EsLogicoYLiberaNumero(t *testing.T) {
	f := newFixture(t)
	uc := f.customers()
	ctx := context.Background()

	c, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "가나상회", BusinessNumber: "123-45-67890"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, f.actor, f.business.ID, c.ID))

	_, err = uc.Get(ctx, f.business.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := f.repos.Customers.CountAll(ctx, f.business.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "la fila sigue existiendo")

	_, err = uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "새 거래처", BusinessNumber: "123-45-67890"})
	assert.NoError(t, err, "un cliente inactivo no bloquea el número")

	logs, _, err := f.repos.ActivityLogs.List(ctx, f.business.ID, repository.ActivityLogFilter{Action: entity.ActionDelete})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestCustomer_List_PaginaYFiltraTipo(t *testing.T) {
	f := newFixture(t)
	uc := f.customers()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		kind := entity.CustomerTypeSales
		if i%5 == 0 {
			kind = entity.CustomerTypePurchase
		}
		_, err := uc.Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "거래처", Type: kind})
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, f.business.ID, dto.ListQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.EqualValues(t, 25, page.Meta.Total)
	assert.Equal(t, 3, page.Meta.TotalPages)

	purchases, err := uc.List(ctx, f.business.ID, dto.ListQuery{Type: entity.CustomerTypePurchase})
	require.NoError(t, err)
	assert.EqualValues(t, 5, purchases.Meta.Total)
}

func TestCustomer_List_OrdenNoPermitido(t *testing.T) {
	f := newFixture(t)
	_, err := f.customers().List(context.Background(), f.business.ID, dto.ListQuery{SortBy: "password"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "sortBy")
}
