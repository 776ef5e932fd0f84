package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Tipos de transacción que puede proponer el extractor.
const (
	DraftSale         = "sale"
	DraftPurchase     = "purchase"
	DraftReceipt      = "receipt"
	DraftDisbursement = "disbursement"
)

// ErrExtractorUnavailable el adaptador no tiene credenciales configuradas.
var ErrExtractorUnavailable = errors.New("extractor no disponible")

// DraftTransaction transacción propuesta a partir de texto libre; los nombres aún no están resueltos a IDs.
type DraftTransaction struct {
	Type         string          `json:"type" jsonschema:"enum=sale,enum=purchase,enum=receipt,enum=disbursement"`
	CustomerName string          `json:"customerName"`
	ProductName  string          `json:"productName"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date" jsonschema:"description=YYYY-MM-DD; vacío si no se menciona"`
	Memo         string          `json:"memo"`
}

// ExtractionHints datos del negocio que ayudan al modelo a reconocer nombres.
type ExtractionHints struct {
	Today     string
	Customers []string
	Products  []string
}

// TransactionExtractor puerto de salida hacia el LLM (o el extractor por reglas).
// Cualquier adaptador (Gemini, OpenAI, reglas) debe implementar esta interfaz.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type TransactionExtractor interface {
	ExtractTransactions(ctx context.Context, text string, hints ExtractionHints) ([]DraftTransaction, error)
	Name() string
}
