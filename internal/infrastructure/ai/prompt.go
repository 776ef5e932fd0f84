// Package ai implementa ports.TransactionExtractor: adaptadores LLM (Gemini, OpenAI, Anthropic)
// y un extractor determinista por reglas usado cuando no hay LLM o como respaldo.
package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
)

// systemPrompt define el rol del modelo y el formato de salida (igual para todos los proveedores).
const systemPrompt = `당신은 한국 중소기업 ERP의 거래 입력 도우미입니다.
사용자의 한국어 문장에서 거래를 추출해 JSON 객체 하나만 반환하세요 (마크다운 금지).
형식:
{"transactions":[{"type":"sale|purchase|receipt|disbursement","customerName":"","productName":"","quantity":"","unitPrice":"","amount":"","date":"YYYY-MM-DD 또는 빈 문자열","memo":""}]}

규칙:
- type: 판매/팔았/매출 → sale, 구매/매입/샀 → purchase, 입금/받았 → receipt, 출금/지급/결제 → disbursement.
- customerName: 거래처 이름. 알려진 거래처 목록에 있으면 목록의 표기를 그대로 사용.
- productName: 품목 이름 (입금/출금은 빈 문자열). 알려진 품목 목록을 우선 사용.
- quantity, unitPrice, amount: 숫자만 담은 문자열 (쉼표, '원' 제외). "3만원" → "30000". 모르면 빈 문자열.
- amount 는 합계 금액이 명시된 경우에만 채웁니다. "개당", "단가" 뒤의 금액은 unitPrice 입니다.
- date: "오늘", "어제", "3월 5일" 같은 표현은 기준일을 이용해 YYYY-MM-DD 로 변환. 언급이 없으면 빈 문자열.
- 문장에 거래가 여러 개면 모두 배열에 넣습니다. 거래가 없으면 빈 배열.`

// llmDraft forma que se pide al modelo; los importes van como string para no perder precisión.
type llmDraft struct {
	Type         string `json:"type" jsonschema:"enum=sale,enum=purchase,enum=receipt,enum=disbursement" jsonschema_description:"Tipo de transacción"`
	CustomerName string `json:"customerName" jsonschema_description:"Nombre del cliente o proveedor"`
	ProductName  string `json:"productName" jsonschema_description:"Nombre del producto; vacío en cobros y pagos"`
	Quantity     string `json:"quantity" jsonschema_description:"Cantidad como número en texto; vacío si no se menciona"`
	UnitPrice    string `json:"unitPrice" jsonschema_description:"Precio unitario en won; vacío si no se menciona"`
	Amount       string `json:"amount" jsonschema_description:"Importe total en won; vacío si no se menciona"`
	Date         string `json:"date" jsonschema_description:"Fecha YYYY-MM-DD; vacío si no se menciona"`
	Memo         string `json:"memo" jsonschema_description:"Nota libre"`
}

// llmPayload objeto raíz de la respuesta.
type llmPayload struct {
	Transactions []llmDraft `json:"transactions" jsonschema_description:"Transacciones encontradas en el mensaje"`
}

var validDraftTypes = map[string]bool{
	ports.DraftSale: true, ports.DraftPurchase: true, ports.DraftReceipt: true, ports.DraftDisbursement: true,
}

// userPrompt mensaje del usuario con el contexto del negocio.
func userPrompt(text string, hints ports.ExtractionHints) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "기준일: %s\n", hints.Today)
	if len(hints.Customers) > 0 {
		fmt.Fprintf(&sb, "알려진 거래처: %s\n", strings.Join(limit(hints.Customers, 200), ", "))
	}
	if len(hints.Products) > 0 {
		fmt.Fprintf(&sb, "알려진 품목: %s\n", strings.Join(limit(hints.Products, 200), ", "))
	}
	fmt.Fprintf(&sb, "문장: %s", text)
	return sb.String()
}

func limit(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// parsePayload interpreta el JSON del modelo y descarta entradas sin tipo válido.
func parsePayload(raw string) ([]ports.DraftTransaction, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en la respuesta del modelo (respuesta: %s)", raw)
	}
	var p llmPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, clean)
	}
	out := make([]ports.DraftTransaction, 0, len(p.Transactions))
	for _, d := range p.Transactions {
		t := strings.ToLower(strings.TrimSpace(d.Type))
		if !validDraftTypes[t] {
			continue
		}
		out = append(out, ports.DraftTransaction{
			Type:         t,
			CustomerName: strings.TrimSpace(d.CustomerName),
			ProductName:  strings.TrimSpace(d.ProductName),
			Quantity:     number(d.Quantity),
			UnitPrice:    number(d.UnitPrice),
			Amount:       number(d.Amount),
			Date:         strings.TrimSpace(d.Date),
			Memo:         strings.TrimSpace(d.Memo),
		})
	}
	return out, nil
}

// number acepta "30,000", "30000원" o "3.5"; cualquier otra cosa es cero.
func number(s string) decimal.Decimal {
	s = strings.NewReplacer(",", "", "원", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON quita bloques ``` y devuelve el primer {...} del texto.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
