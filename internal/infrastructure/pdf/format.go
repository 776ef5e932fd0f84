package pdf

import (
	"time"

	"github.com/shopspring/decimal"
)

var kst = time.FixedZone("KST", 9*60*60)

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatWon importe redondeado a won con separador de miles.
// Ej: 25000 → "25,000", -1000000 → "-1,000,000"
func formatWon(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
