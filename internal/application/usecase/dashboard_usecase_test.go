package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
)

func TestDashboard_MesActualYTendencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := usecase.Today(time.Now())
	c, err := f.customers().Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "가나상회"})
	require.NoError(t, err)

	sales := usecase.NewSaleUseCase(f.repos, f.tx, newFakeStorage(), nil, f.notifs)
	_, err = sales.Create(ctx, f.actor, f.business.ID, dto.SaleRequest{CustomerID: c.ID, SaleDate: today.Format(dto.DateLayout),
		Items: []dto.LineItemRequest{{ProductName: "A", Quantity: dec("1"), UnitPrice: decPtr("10000")}}})
	require.NoError(t, err)
	old := usecase.MonthStart(today).AddDate(0, -2, 0)
	_, err = sales.Create(ctx, f.actor, f.business.ID, dto.SaleRequest{CustomerID: c.ID, SaleDate: old.Format(dto.DateLayout),
		Items: []dto.LineItemRequest{{ProductName: "B", Quantity: dec("1"), UnitPrice: decPtr("1000")}}})
	require.NoError(t, err)

	out, err := usecase.NewDashboardUseCase(f.repos.Reports).Get(ctx, f.business.ID)
	require.NoError(t, err)

	assert.True(t, out.Sales.Total.Equal(dec("11000")), out.Sales.Total.String())
	assert.Equal(t, 1, out.Sales.Count)
	assert.True(t, out.Receivable.Equal(dec("12100")), out.Receivable.String())
	assert.EqualValues(t, 1, out.CustomerCount)

	require.Len(t, out.MonthlyTrend, 6)
	assert.Equal(t, today.Format("2006-01"), out.MonthlyTrend[5].Month)
	assert.True(t, out.MonthlyTrend[3].Sales.Equal(dec("1100")))
	assert.True(t, out.MonthlyTrend[4].Sales.IsZero(), "meses vacíos en cero")

	require.Len(t, out.TopCustomers, 1)
	assert.Len(t, out.RecentTransactions, 2)
}
