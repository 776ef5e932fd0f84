package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

func TestFormatWon(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"999":      "999",
		"1000":     "1,000",
		"25000":    "25,000",
		"1000000":  "1,000,000",
		"-1234567": "-1,234,567",
		"1999.6":   "2,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatWon(decimal.RequireFromString(in)), in)
	}
}

func TestRenderStatement_GeneraPDF(t *testing.T) {
	signed := time.Date(2024, 3, 15, 5, 0, 0, 0, time.UTC)
	data := ports.StatementData{
		Business: &entity.Business{Name: "Hanbit", BusinessNumber: "220-81-62517"},
		Customer: &entity.Customer{Name: "Ganada"},
		Sale: &entity.Sale{
			ID: "0f8fad5b-d9cb-469f-a165-70867728950e", SaleDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			SupplyAmount: decimal.NewFromInt(10000), VATAmount: decimal.NewFromInt(1000), TotalAmount: decimal.NewFromInt(11000),
			SignedAt: &signed,
			Items: []entity.SaleItem{{
				ProductName: "A4", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10000), TaxType: tax.Separate,
				SupplyAmount: decimal.NewFromInt(10000), VATAmount: decimal.NewFromInt(1000), TotalAmount: decimal.NewFromInt(11000),
			}},
		},
		Settings: &entity.CompanySettings{BankName: "KB", BankAccount: "123-456", AccountHolder: "Hanbit"},
	}

	out, err := NewStatementRenderer(WithViewURL("https://erp.example.com/")).RenderStatement(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
