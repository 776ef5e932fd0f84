package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertAmounts(t *testing.T, got tax.Amounts, supply, vat, total int64) {
	t.Helper()
	assert.True(t, got.Supply.Equal(d(supply)), "supply esperado %d, obtenido %s", supply, got.Supply)
	assert.True(t, got.VAT.Equal(d(vat)), "vat esperado %d, obtenido %s", vat, got.VAT)
	assert.True(t, got.Total.Equal(d(total)), "total esperado %d, obtenido %s", total, got.Total)
}

func TestCompute_Exento_IVACero(t *testing.T) {
	for _, price := range []int64{0, 1, 999, 11000, 123457} {
		got := tax.Compute(tax.Free, d(price), d(3))
		assert.True(t, got.VAT.IsZero(), "precio %d", price)
		assertAmounts(t, got, price*3, 0, price*3)
	}
	assertAmounts(t, tax.Compute(tax.ZeroRated, d(5000), d(2)), 10000, 0, 10000)
}

func TestCompute_IVAIncluido_11000(t *testing.T) {
	assertAmounts(t, tax.Compute(tax.Inclusive, d(11000), d(1)), 10000, 1000, 11000)
}

func TestCompute_IVASeparado_10000(t *testing.T) {
	assertAmounts(t, tax.Compute(tax.Separate, d(10000), d(1)), 10000, 1000, 11000)
}

func TestCompute_RedondeaAWon(t *testing.T) {
	// 1234 * 0.1 = 123.4 -> 123
	assertAmounts(t, tax.Compute(tax.Separate, d(1234), d(1)), 1234, 123, 1357)
	// 1000 / 1.1 = 909.09 -> 909
	assertAmounts(t, tax.Compute(tax.Inclusive, d(1000), d(1)), 909, 91, 1000)
	// cantidad fraccionaria: 2.5 * 333 = 832.5 -> 833
	got := tax.Compute(tax.Free, d(333), decimal.NewFromFloat(2.5))
	assert.True(t, got.Total.Equal(d(833)), "obtenido %s", got.Total)
}

func TestInfer_EtiquetasExactas(t *testing.T) {
	cases := map[string]tax.Type{
		"tax_free":      tax.Free,
		"면세":            tax.Free,
		"영세":            tax.ZeroRated,
		"zero_rated":    tax.ZeroRated,
		"부가세 포함":        tax.Inclusive,
		"TAX_INCLUSIVE": tax.Inclusive,
		"부가세별도":         tax.Separate,
		"과세":            tax.Separate,
	}
	for label, want := range cases {
		// el precio 11000 sugeriría inclusive; la etiqueta exacta manda
		assert.Equal(t, want, tax.Infer(label, d(11000)), label)
	}
}

func TestInfer_HeuristicaPorPrecio(t *testing.T) {
	assert.Equal(t, tax.Inclusive, tax.Infer("", d(11000)))
	assert.Equal(t, tax.Inclusive, tax.Infer("desconocido", d(220)))
	assert.Equal(t, tax.Separate, tax.Infer("", d(10000)))
	assert.Equal(t, tax.Separate, tax.Infer("", d(0)))
}

func TestSum(t *testing.T) {
	total := tax.Sum(
		tax.Compute(tax.Separate, d(10000), d(1)),
		tax.Compute(tax.Free, d(500), d(2)),
	)
	assertAmounts(t, total, 11000, 1000, 12000)
	assertAmounts(t, tax.Sum(), 0, 0, 0)
}

func TestParse_Desconocido(t *testing.T) {
	_, ok := tax.Parse("iva")
	assert.False(t, ok)
	assert.True(t, tax.Separate.Valid())
	assert.False(t, tax.Type("iva").Valid())
}
