package bizno

import (
	"fmt"
	"regexp"
	"unicode"
)

// pesos del dígito de control del 사업자등록번호, aplicados a los 9 primeros dígitos.
var weights = [9]int{1, 3, 7, 1, 3, 7, 1, 3, 5}

var formatRe = regexp.MustCompile(`^\d{3}-\d{2}-\d{5}$`)

// ValidFormat indica si s tiene la forma 123-45-67890.
func ValidFormat(s string) bool {
	return formatRe.MatchString(s)
}

// Normalize convierte "1234567890" o "123 45 67890" a "123-45-67890".
func Normalize(s string) (string, error) {
	d := extractDigits(s)
	if len(d) != 10 {
		return "", fmt.Errorf("bizno: se esperaban 10 dígitos, se encontraron %d", len(d))
	}
	return string(d[:3]) + "-" + string(d[3:5]) + "-" + string(d[5:]), nil
}

// VerifyCheckDigit valida el dígito de control del número de registro.
// Acepta el número con o sin guiones.
func VerifyCheckDigit(s string) error {
	d := extractDigits(s)
	if len(d) != 10 {
		return fmt.Errorf("bizno: se esperaban 10 dígitos, se encontraron %d", len(d))
	}
	var sum int
	for i := 0; i < 9; i++ {
		sum += int(d[i]-'0') * weights[i]
	}
	sum += int(d[8]-'0') * 5 / 10
	expected := byte('0' + (10-sum%10)%10)
	if d[9] != expected {
		return fmt.Errorf("bizno: dígito de control inválido: esperado %c, recibido %c", expected, d[9])
	}
	return nil
}

func extractDigits(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
