package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
)

var _ ports.TransactionExtractor = (*OpenAIExtractor)(nil)

// OpenAIExtractor usa la Responses API con salida estructurada (JSON Schema estricto).
type OpenAIExtractor struct {
	client *openai.Client
	model  string
	schema map[string]any
	ready  bool
}

// NewOpenAIExtractor construye el adaptador; opts permite p. ej. option.WithBaseURL en tests.
func NewOpenAIExtractor(apiKey, model string, opts ...option.RequestOption) *OpenAIExtractor {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIExtractor{client: &client, model: model, schema: payloadSchema(), ready: apiKey != ""}
}

// Name identifica al proveedor.
func (a *OpenAIExtractor) Name() string { return "openai" }

// ExtractTransactions pide al modelo el objeto {transactions:[...]} validado por el esquema.
func (a *OpenAIExtractor) ExtractTransactions(ctx context.Context, text string, hints ports.ExtractionHints) ([]ports.DraftTransaction, error) {
	if !a.ready {
		return nil, ports.ErrExtractorUnavailable
	}
	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(a.model),
		Instructions: param.NewOpt(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(userPrompt(text, hints)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "transaction_drafts",
					Strict:      param.NewOpt(true),
					Schema:      a.schema,
					Description: param.NewOpt("Transacciones extraídas del mensaje del usuario"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("AI: OpenAI responses: %w", err)
	}
	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return parsePayload(content)
}

// payloadSchema genera el JSON Schema de llmPayload a partir del struct.
func payloadSchema() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(reflector.Reflect(llmPayload{}))
	if err != nil {
		panic(fmt.Sprintf("ai: serializar esquema: %v", err))
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		panic(fmt.Sprintf("ai: esquema inválido: %v", err))
	}
	delete(schema, "$schema")
	delete(schema, "$id")
	return schema
}
