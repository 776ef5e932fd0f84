// Package tax calcula 공급가액 y 부가세 de una línea según su tipo de tributación.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Type tipo de tributación de un producto o línea.
type Type string

const (
	Separate  Type = "tax_separate"  // 부가세 별도: el precio no incluye IVA
	Inclusive Type = "tax_inclusive" // 부가세 포함: el precio ya incluye IVA
	Free      Type = "tax_free"      // 면세
	ZeroRated Type = "zero_rated"    // 영세율
)

var (
	rate       = decimal.NewFromFloat(0.1)
	grossRatio = decimal.NewFromFloat(1.1)
	hundredTen = decimal.NewFromInt(110)
)

// etiquetas aceptadas (minúsculas, sin espacios) para cada tipo.
var labels = map[string]Type{
	"tax_separate":  Separate,
	"separate":      Separate,
	"taxable":       Separate,
	"과세":            Separate,
	"부가세별도":         Separate,
	"별도":            Separate,
	"tax_inclusive": Inclusive,
	"inclusive":     Inclusive,
	"부가세포함":         Inclusive,
	"포함":            Inclusive,
	"tax_free":      Free,
	"exempt":        Free,
	"면세":            Free,
	"zero_rated":    ZeroRated,
	"영세":            ZeroRated,
	"영세율":           ZeroRated,
}

// Amounts importes de una línea, redondeados a won.
type Amounts struct {
	Supply decimal.Decimal
	VAT    decimal.Decimal
	Total  decimal.Decimal
}

// Valid indica si t es uno de los cuatro tipos conocidos.
func (t Type) Valid() bool {
	switch t {
	case Separate, Inclusive, Free, ZeroRated:
		return true
	}
	return false
}

// Parse reconoce una etiqueta exacta (inglés o coreano); ok=false si no se reconoce.
func Parse(s string) (Type, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	t, ok := labels[key]
	return t, ok
}

// Infer resuelve el tipo: primero coincidencia exacta de etiqueta; si no, heurística por precio.
// Precio múltiplo de 110 se asume IVA incluido; en cualquier otro caso (incluido precio 0) IVA separado.
func Infer(label string, price decimal.Decimal) Type {
	if t, ok := Parse(label); ok {
		return t
	}
	if !price.IsPositive() {
		return Separate
	}
	if price.Mod(hundredTen).IsZero() {
		return Inclusive
	}
	return Separate
}

// Compute calcula supply, VAT y total para unitPrice × quantity.
func Compute(t Type, unitPrice, quantity decimal.Decimal) Amounts {
	gross := unitPrice.Mul(quantity).Round(0)
	switch t {
	case Free, ZeroRated:
		return Amounts{Supply: gross, VAT: decimal.Zero, Total: gross}
	case Inclusive:
		supply := gross.Div(grossRatio).Round(0)
		return Amounts{Supply: supply, VAT: gross.Sub(supply), Total: gross}
	default:
		vat := gross.Mul(rate).Round(0)
		return Amounts{Supply: gross, VAT: vat, Total: gross.Add(vat)}
	}
}

// Sum acumula los importes de varias líneas.
func Sum(lines ...Amounts) Amounts {
	out := Amounts{Supply: decimal.Zero, VAT: decimal.Zero, Total: decimal.Zero}
	for _, l := range lines {
		out.Supply = out.Supply.Add(l.Supply)
		out.VAT = out.VAT.Add(l.VAT)
		out.Total = out.Total.Add(l.Total)
	}
	return out
}
