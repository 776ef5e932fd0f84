package chatbot

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Intenciones reconocidas.
const (
	IntentRegister = "register"
	IntentQuery    = "query"
)

// registerKeywords verbos de registro; junto con un dígito marcan la intención de registrar.
var registerKeywords = []string{
	"판매", "팔았", "매출등록", "구매", "매입", "샀", "입금", "출금", "받았", "지급", "결제",
}

// DetectIntent register si hay palabra clave de registro y al menos un dígito; si no, query.
func DetectIntent(text string) string {
	t := normalize(text)
	hasDigit := strings.IndexFunc(t, unicode.IsDigit) >= 0
	if !hasDigit {
		return IntentQuery
	}
	for _, k := range registerKeywords {
		if strings.Contains(t, k) {
			return IntentRegister
		}
	}
	return IntentQuery
}

// normalize NFC, minúsculas y sin espacios: "가나 상회" y "가나상회" comparan igual.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(norm.NFC.String(s)), ""))
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
