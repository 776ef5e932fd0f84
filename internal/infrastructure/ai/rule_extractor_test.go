package ai_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/ai"
)

var hints = ports.ExtractionHints{
	Today:     "2024-03-20",
	Customers: []string{"가나상회", "다라유통"},
	Products:  []string{"A4 복사용지", "토너"},
}

func extract(t *testing.T, text string, h ports.ExtractionHints) []ports.DraftTransaction {
	t.Helper()
	out, err := ai.NewRuleExtractor().ExtractTransactions(context.Background(), text, h)
	require.NoError(t, err)
	return out
}

func TestRuleExtractor_VentaConPrecioUnitario(t *testing.T) {
	out := extract(t, "가나상회에 A4 복사용지 10박스 개당 22,000원에 팔았어", hints)
	require.Len(t, out, 1)
	d := out[0]
	assert.Equal(t, ports.DraftSale, d.Type)
	assert.Equal(t, "가나상회", d.CustomerName)
	assert.Equal(t, "A4 복사용지", d.ProductName)
	assert.True(t, d.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, d.UnitPrice.Equal(decimal.NewFromInt(22000)))
	assert.True(t, d.Amount.IsZero())
	assert.Empty(t, d.Date)
}

func TestRuleExtractor_VariasTransacciones(t *testing.T) {
	out := extract(t, "다라유통에서 토너 2개 샀고, 어제 가나상회에서 30만원 입금", hints)
	require.Len(t, out, 2)

	assert.Equal(t, ports.DraftPurchase, out[0].Type)
	assert.Equal(t, "다라유통", out[0].CustomerName)
	assert.Equal(t, "토너", out[0].ProductName)

	assert.Equal(t, ports.DraftReceipt, out[1].Type)
	assert.Equal(t, "가나상회", out[1].CustomerName)
	assert.True(t, out[1].Amount.Equal(decimal.NewFromInt(300000)))
	assert.Equal(t, "2024-03-19", out[1].Date)
}

func TestRuleExtractor_SinPistas_UsaParticulas(t *testing.T) {
	out := extract(t, "3월 5일 홍길동상회에 볼펜 100개 3만 5천원 판매", ports.ExtractionHints{Today: "2024-03-20"})
	require.Len(t, out, 1)
	d := out[0]
	assert.Equal(t, "홍길동상회", d.CustomerName)
	assert.Equal(t, "볼펜", d.ProductName)
	assert.True(t, d.Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, d.Amount.Equal(decimal.NewFromInt(35000)))
	assert.Equal(t, "2024-03-05", d.Date)
}

func TestRuleExtractor_SinImporteNoHayBorrador(t *testing.T) {
	assert.Empty(t, extract(t, "가나상회 매출 알려줘", hints))
	assert.Empty(t, extract(t, "안녕하세요", hints))
}

func TestRuleExtractor_Nombre(t *testing.T) {
	assert.Equal(t, "rule", ai.NewRuleExtractor().Name())
}
