package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
)

func TestExtractJSON_BloqueMarkdown(t *testing.T) {
	raw := "결과입니다:\n```json\n{\"transactions\":[]}\n```"
	assert.Equal(t, `{"transactions":[]}`, extractJSON(raw))
	assert.Equal(t, `{"a":1}`, extractJSON(`texto {"a":1} fin`))
	assert.Empty(t, extractJSON("sin json"))
}

func TestParsePayload_DescartaTiposDesconocidos(t *testing.T) {
	out, err := parsePayload(`{"transactions":[
		{"type":"SALE","customerName":" 가나상회 ","productName":"토너","quantity":"2","unitPrice":"55,000원","amount":"","date":"","memo":""},
		{"type":"refund","customerName":"x","productName":"","quantity":"","unitPrice":"","amount":"1000","date":"","memo":""}
	]}`)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, ports.DraftSale, out[0].Type)
	assert.Equal(t, "가나상회", out[0].CustomerName)
	assert.Equal(t, "55000", out[0].UnitPrice.String())
	assert.True(t, out[0].Amount.IsZero())
}

func TestParsePayload_JSONInvalido(t *testing.T) {
	_, err := parsePayload("{no es json}")
	assert.Error(t, err)
}

func TestPayloadSchema_Estricto(t *testing.T) {
	s := payloadSchema()
	assert.Equal(t, "object", s["type"])
	assert.Equal(t, false, s["additionalProperties"])
	assert.Contains(t, s["required"], "transactions")
}

func TestUserPrompt_IncluyePistas(t *testing.T) {
	p := userPrompt("토너 2개 판매", ports.ExtractionHints{Today: "2024-03-20", Customers: []string{"가나상회"}})
	assert.Contains(t, p, "2024-03-20")
	assert.Contains(t, p, "가나상회")
	assert.NotContains(t, p, "알려진 품목")
}
