package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

func (f *fixture) payments() *usecase.PaymentUseCase {
	return usecase.NewPaymentUseCase(f.repos.Payments, f.repos.Customers, f.activity)
}

func TestPayment_ClienteDebeSerDelNegocio(t *testing.T) {
	f := newFixture(t)
	uc := f.payments()
	ctx := context.Background()
	own, err := f.customers().Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "가나상회"})
	require.NoError(t, err)

	now := time.Now()
	otherBiz := &entity.Business{
		ID: uuid.New().String(), UserID: uuid.New().String(), Name: "남의상회", BusinessNumber: otherBizNo,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.repos.Businesses.Create(ctx, otherBiz))
	foreign, err := f.customers().Create(ctx, f.actor, otherBiz.ID, dto.CreateCustomerRequest{Name: "남의거래처"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		in    dto.PaymentRequest
		field string
	}{
		{"cliente de otro negocio", dto.PaymentRequest{CustomerID: foreign.ID, Type: entity.PaymentReceipt, Amount: dec("10000"), PaymentDate: "2024-03-15"}, "customerId"},
		{"cliente inexistente", dto.PaymentRequest{CustomerID: uuid.New().String(), Type: entity.PaymentReceipt, Amount: dec("10000"), PaymentDate: "2024-03-15"}, "customerId"},
		{"importe cero", dto.PaymentRequest{CustomerID: own.ID, Type: entity.PaymentReceipt, Amount: dec("0"), PaymentDate: "2024-03-15"}, "amount"},
		{"tipo desconocido", dto.PaymentRequest{CustomerID: own.ID, Type: "refund", Amount: dec("10000"), PaymentDate: "2024-03-15"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, f.actor, f.business.ID, tt.in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}

	page, err := uc.List(ctx, f.business.ID, dto.ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Meta.Total)
}

func TestPayment_FiltroPorTipo(t *testing.T) {
	f := newFixture(t)
	uc := f.payments()
	ctx := context.Background()
	customer, err := f.customers().Create(ctx, f.actor, f.business.ID, dto.CreateCustomerRequest{Name: "가나상회"})
	require.NoError(t, err)

	for _, p := range []struct {
		kind   string
		amount string
	}{
		{entity.PaymentReceipt, "50000"},
		{entity.PaymentReceipt, "30000"},
		{entity.PaymentDisbursement, "20000"},
	} {
		created, err := uc.Create(ctx, f.actor, f.business.ID, dto.PaymentRequest{
			CustomerID: customer.ID, Type: p.kind, Amount: dec(p.amount), PaymentDate: "2024-03-15",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentMethodTransfer, created.Method)
		assert.Equal(t, "가나상회", created.CustomerName)
	}

	tests := []struct {
		name  string
		kind  string
		total int64
	}{
		{"sin filtro", "", 3},
		{"solo cobros", entity.PaymentReceipt, 2},
		{"solo pagos", entity.PaymentDisbursement, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := uc.List(ctx, f.business.ID, dto.ListQuery{Type: tt.kind})
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.Meta.Total)
			for _, p := range page.Items {
				if tt.kind != "" {
					assert.Equal(t, tt.kind, p.Type)
				}
			}
		})
	}

	_, err = uc.List(ctx, f.business.ID, dto.ListQuery{Type: "refund"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "type")
}
