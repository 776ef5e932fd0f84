package ai

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
)

var _ ports.TransactionExtractor = (*RuleExtractor)(nil)

// RuleExtractor extractor determinista por palabras clave y expresiones regulares.
// No necesita red: es el extractor por defecto sin LLM y el respaldo cuando el LLM falla.
type RuleExtractor struct{}

// NewRuleExtractor construye el extractor.
func NewRuleExtractor() *RuleExtractor { return &RuleExtractor{} }

// Name identifica al extractor.
func (RuleExtractor) Name() string { return "rule" }

var (
	thousandsRe = regexp.MustCompile(`(\d),(\d{3})`)
	segmentRe   = regexp.MustCompile(`[\n;]|그리고`)
	mixedWonRe  = regexp.MustCompile(`(\d+)\s*만\s*(\d+)\s*천\s*원`)
	quantityRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(개|박스|상자|병|세트|장|대|포|봉|kg|KG|EA|ea|box|통|권|켤레|톤|미터|m)`)
	priceRe     = regexp.MustCompile(`(개당|단가|@)?\s*(\d+(?:\.\d+)?)\s*(억|만|천)?\s*원`)
	particleRe  = regexp.MustCompile(`([가-힣A-Za-z0-9()㈜]+?)\s*(?:에게서|에게|한테서|한테|으로부터|로부터|에서|께|에)`)
	productRe   = regexp.MustCompile(`([가-힣A-Za-z][가-힣A-Za-z0-9]*)\s*\d+(?:\.\d+)?\s*(?:개|박스|상자|병|세트|장|대|포|봉|kg|KG|EA|ea|box|통|권|켤레|톤|미터|m)`)
	isoDateRe   = regexp.MustCompile(`(\d{4})[-./](\d{1,2})[-./](\d{1,2})`)
	monthDayRe  = regexp.MustCompile(`(\d{1,2})\s*월\s*(\d{1,2})\s*일`)
)

var keywordTypes = []struct {
	words []string
	kind  string
}{
	{[]string{"입금", "받았", "수금"}, ports.DraftReceipt},
	{[]string{"출금", "지급", "결제", "송금"}, ports.DraftDisbursement},
	{[]string{"판매", "팔았", "팔아", "매출", "납품"}, ports.DraftSale},
	{[]string{"구매", "매입", "샀", "구입"}, ports.DraftPurchase},
}

var unitMultiplier = map[string]int64{"억": 100000000, "만": 10000, "천": 1000}

// ExtractTransactions divide el texto en segmentos y extrae un borrador por segmento con tipo.
func (RuleExtractor) ExtractTransactions(_ context.Context, text string, hints ports.ExtractionHints) ([]ports.DraftTransaction, error) {
	today, err := time.Parse("2006-01-02", hints.Today)
	if err != nil {
		today = time.Now().In(time.FixedZone("KST", 9*60*60))
	}
	text = normalizeNumbers(text)

	var out []ports.DraftTransaction
	lastType, lastCustomer, lastDate := "", "", ""
	for _, seg := range splitSegments(text) {
		kind := detectType(seg)
		if kind == "" {
			kind = lastType
		}
		if kind == "" {
			continue
		}
		d := ports.DraftTransaction{Type: kind, Date: parseDate(seg, today)}

		d.CustomerName = bestHint(seg, hints.Customers)
		if d.CustomerName == "" {
			if m := particleRe.FindStringSubmatch(seg); m != nil {
				d.CustomerName = m[1]
			}
		}
		if d.CustomerName == "" {
			d.CustomerName = lastCustomer
		}
		if d.Date == "" {
			d.Date = lastDate
		}

		if kind == ports.DraftSale || kind == ports.DraftPurchase {
			d.ProductName = bestHint(seg, hints.Products)
			if d.ProductName == "" {
				if m := productRe.FindStringSubmatch(seg); m != nil && m[1] != d.CustomerName {
					d.ProductName = m[1]
				}
			}
			if m := quantityRe.FindStringSubmatch(seg); m != nil {
				d.Quantity, _ = decimal.NewFromString(m[1])
			}
		}
		for _, m := range priceRe.FindAllStringSubmatch(seg, -1) {
			v, err := decimal.NewFromString(m[2])
			if err != nil {
				continue
			}
			if mul, ok := unitMultiplier[m[3]]; ok {
				v = v.Mul(decimal.NewFromInt(mul))
			}
			if m[1] != "" {
				d.UnitPrice = v
			} else if d.Amount.IsZero() {
				d.Amount = v
			}
		}
		// un segmento sin importe ni cantidad no es una transacción
		if d.Amount.IsZero() && d.UnitPrice.IsZero() && d.Quantity.IsZero() {
			continue
		}
		lastType, lastCustomer, lastDate = kind, d.CustomerName, d.Date
		out = append(out, d)
	}
	return out, nil
}

// detectType cobros/pagos ganan salvo que el segmento tenga una cantidad de producto.
func detectType(seg string) string {
	hasQty := quantityRe.MatchString(seg)
	var found []string
	for _, kt := range keywordTypes {
		for _, w := range kt.words {
			if strings.Contains(seg, w) {
				found = append(found, kt.kind)
				break
			}
		}
	}
	if len(found) == 0 {
		return ""
	}
	if hasQty {
		for _, k := range found {
			if k == ports.DraftSale || k == ports.DraftPurchase {
				return k
			}
		}
	}
	return found[0]
}

// bestHint nombre conocido más largo contenido en el segmento (sin espacios, sin mayúsculas).
func bestHint(seg string, names []string) string {
	s := squash(seg)
	best := ""
	for _, n := range names {
		key := squash(n)
		if key == "" || !strings.Contains(s, key) {
			continue
		}
		if len(key) > len(squash(best)) {
			best = n
		}
	}
	return best
}

func squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// splitSegments corta por línea, ';' y "그리고"; una coma solo corta si lo que sigue
// tiene su propia palabra clave de transacción.
func splitSegments(text string) []string {
	var out []string
	for _, part := range segmentRe.Split(text, -1) {
		pieces := strings.Split(part, ",")
		cur := ""
		for _, p := range pieces {
			if cur != "" && detectType(p) == "" {
				cur += "," + p
				continue
			}
			if s := strings.TrimSpace(cur); s != "" {
				out = append(out, s)
			}
			cur = p
		}
		if s := strings.TrimSpace(cur); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// normalizeNumbers quita separadores de miles y convierte "3만 5천원" en "35000원".
func normalizeNumbers(s string) string {
	s = mixedWonRe.ReplaceAllStringFunc(s, func(m string) string {
		g := mixedWonRe.FindStringSubmatch(m)
		return strconv.Itoa(atoi(g[1])*10000+atoi(g[2])*1000) + "원"
	})
	for {
		next := thousandsRe.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}

func parseDate(seg string, today time.Time) string {
	switch {
	case strings.Contains(seg, "그저께"), strings.Contains(seg, "그제"):
		return today.AddDate(0, 0, -2).Format("2006-01-02")
	case strings.Contains(seg, "어제"):
		return today.AddDate(0, 0, -1).Format("2006-01-02")
	case strings.Contains(seg, "오늘"):
		return today.Format("2006-01-02")
	}
	if m := isoDateRe.FindStringSubmatch(seg); m != nil {
		return ymd(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := monthDayRe.FindStringSubmatch(seg); m != nil {
		return ymd(today.Year(), atoi(m[1]), atoi(m[2]))
	}
	return ""
}

func ymd(y, m, d int) string {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(m) || t.Day() != d {
		return ""
	}
	return t.Format("2006-01-02")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
