package http_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	apphttp "github.com/jhoicas/bizledger-api/internal/interfaces/http"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestValidator_SignupValido(t *testing.T) {
	v := apphttp.NewValidator()
	err := v.Struct(dto.SignupRequest{
		Email:    "owner@example.com",
		Password: "password123",
		Name:     "김사장",
		Phone:    "01012345678",
		Business: dto.CreateBusinessRequest{Name: "한빛상사", BusinessNumber: "220-81-62517"},
	})
	assert.NoError(t, err)
}

func TestValidator_RutasAnidadasUsanNombresJSON(t *testing.T) {
	v := apphttp.NewValidator()
	fields := validationFields(t, v.Struct(dto.SignupRequest{
		Email:    "no-es-email",
		Password: "corta",
		Name:     "김사장",
		Phone:    "02-123-4567",
		Business: dto.CreateBusinessRequest{Name: "한빛상사", BusinessNumber: "2208162517"},
	}))

	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Equal(t, "올바른 휴대폰 번호 형식이 아닙니다.", fields["phone"])
	assert.Equal(t, "사업자등록번호는 000-00-00000 형식이어야 합니다.", fields["business.businessNumber"])
}

func TestValidator_ItemsConIndice(t *testing.T) {
	v := apphttp.NewValidator()
	price := decimal.NewFromInt(1000)
	fields := validationFields(t, v.Struct(dto.SaleRequest{
		CustomerID: "00000000-0000-0000-0000-000000000001",
		SaleDate:   "2026/10/01",
		Items: []dto.LineItemRequest{
			{ProductName: "볼펜", Quantity: decimal.NewFromInt(1), UnitPrice: &price, TaxType: "vat_maybe"},
		},
	}))

	assert.Equal(t, "날짜는 YYYY-MM-DD 형식이어야 합니다.", fields["saleDate"])
	assert.Equal(t, "과세 유형이 올바르지 않습니다.", fields["items[0].taxType"])
}

func TestValidator_SinItems(t *testing.T) {
	v := apphttp.NewValidator()
	fields := validationFields(t, v.Struct(dto.SaleRequest{
		CustomerID: "00000000-0000-0000-0000-000000000001",
		SaleDate:   "2026-10-01",
	}))
	assert.Equal(t, "필수 입력 항목입니다.", fields["items"])
}
