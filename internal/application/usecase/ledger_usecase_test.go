package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// seedLedger: venta 11000 (03-01), cobro 5000 (03-10), venta 22000 (04-02), compra 3300 (04-05).
func seedLedger(t *testing.T, f *fixture) string {
	t.Helper()
	ctx := context.Background()
	c, err := f.customers().Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "가나상회"})
	require.NoError(t, err)
	sales := usecase.NewSaleUseCase(f.repos, f.tx, newFakeStorage(), nil, f.notifs)
	purchases := usecase.NewPurchaseUseCase(f.repos, f.tx)
	payments := usecase.NewPaymentUseCase(f.repos.Payments, f.repos.Customers, f.activity)

	_, err = sales.Create(ctx, f.actor, f.business.ID, dto.SaleRequest{CustomerID: c.ID, SaleDate: "2024-03-01",
		Items: []dto.LineItemRequest{{ProductName: "A", Quantity: dec("1"), UnitPrice: decPtr("10000")}}})
	require.NoError(t, err)
	_, err = payments.Create(ctx, f.actor, f.business.ID, dto.PaymentRequest{CustomerID: c.ID, Type: entity.PaymentReceipt,
		Amount: dec("5000"), PaymentDate: "2024-03-10"})
	require.NoError(t, err)
	_, err = sales.Create(ctx, f.actor, f.business.ID, dto.SaleRequest{CustomerID: c.ID, SaleDate: "2024-04-02",
		Items: []dto.LineItemRequest{{ProductName: "B", Quantity: dec("2"), UnitPrice: decPtr("10000")}}})
	require.NoError(t, err)
	_, err = purchases.Create(ctx, f.actor, f.business.ID, dto.PurchaseRequest{CustomerID: c.ID, PurchaseDate: "2024-04-05",
		Items: []dto.LineItemRequest{{ProductName: "C", Quantity: dec("1"), UnitPrice: decPtr("3000")}}})
	require.NoError(t, err)
	return c.ID
}

func TestLedger_Balances(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)
	uc := usecase.NewLedgerUseCase(f.repos.Reports, f.repos.Customers)

	sum, err := uc.Balances(context.Background(), f.business.ID)
	require.NoError(t, err)
	require.Len(t, sum.Customers, 1)
	assert.True(t, sum.Receivable.Equal(dec("28000")), sum.Receivable.String())
	assert.True(t, sum.Payable.Equal(dec("3300")), sum.Payable.String())
}

func TestLedger_CustomerLedger_SaldoDeAperturaYCorrido(t *testing.T) {
	f := newFixture(t)
	customerID := seedLedger(t, f)
	uc := usecase.NewLedgerUseCase(f.repos.Reports, f.repos.Customers)

	out, err := uc.CustomerLedger(context.Background(), f.business.ID, customerID, "2024-04-01", "")
	require.NoError(t, err)

	assert.True(t, out.OpeningReceivable.Equal(dec("6000")), out.OpeningReceivable.String())
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "sale", out.Entries[0].Kind)
	assert.True(t, out.Entries[0].Receivable.Equal(dec("28000")))
	assert.Equal(t, "purchase", out.Entries[1].Kind)
	assert.True(t, out.Entries[1].Payable.Equal(dec("3300")))
	assert.True(t, out.ClosingReceivable.Equal(dec("28000")))
}

func TestLedger_CustomerLedger_RangoInvalido(t *testing.T) {
	f := newFixture(t)
	customerID := seedLedger(t, f)
	uc := usecase.NewLedgerUseCase(f.repos.Reports, f.repos.Customers)

	_, err := uc.CustomerLedger(context.Background(), f.business.ID, customerID, "2024-05-01", "2024-04-01")
	assert.Error(t, err)
}
