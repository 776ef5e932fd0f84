package dto

import "github.com/shopspring/decimal"

// ChatbotRequest mensaje del usuario; DryRun solo devuelve la vista previa.
type ChatbotRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
	DryRun  bool   `json:"dryRun"`
}

// Estados de un borrador del chatbot.
const (
	DraftCreated = "created"
	DraftFailed  = "failed"
	DraftPreview = "preview"
)

// ChatbotDraft borrador resuelto con su resultado.
type ChatbotDraft struct {
	Type         string          `json:"type"`
	CustomerID   string          `json:"customerId,omitempty"`
	CustomerName string          `json:"customerName"`
	ProductID    string          `json:"productId,omitempty"`
	ProductName  string          `json:"productName,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TaxType      string          `json:"taxType,omitempty"`
	SupplyAmount decimal.Decimal `json:"supplyAmount"`
	VATAmount    decimal.Decimal `json:"vatAmount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Date         string          `json:"date"`
	Status       string          `json:"status"`
	Error        string          `json:"error,omitempty"`
	RecordID     string          `json:"recordId,omitempty"`
}

// ChatbotResponse respuesta del chatbot: texto en coreano y datos estructurados.
type ChatbotResponse struct {
	Intent    string         `json:"intent"`
	Reply     string         `json:"reply"`
	Extractor string         `json:"extractor,omitempty"`
	Drafts    []ChatbotDraft `json:"drafts,omitempty"`
	Data      any            `json:"data,omitempty"`
}
