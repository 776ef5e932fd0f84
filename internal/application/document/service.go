// Package document genera los documentos de una venta: 거래명세서 (PDF) y 전자세금계산서 (XML).
package document

import (
	"context"
	"fmt"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

// Service reúne venta, emisor, receptor y preferencias y delega el render en los adaptadores.
type Service struct {
	businesses repository.BusinessRepository
	customers  repository.CustomerRepository
	sales      repository.SaleRepository
	settings   repository.SettingsRepository
	statements ports.StatementRenderer
	invoices   ports.TaxInvoiceRenderer
}

// NewService construye el servicio inyectando todas sus dependencias.
func NewService(
	repos repository.Repositories,
	statements ports.StatementRenderer,
	invoices ports.TaxInvoiceRenderer,
) *Service {
	return &Service{
		businesses: repos.Businesses,
		customers:  repos.Customers,
		sales:      repos.Sales,
		settings:   repos.Settings,
		statements: statements,
		invoices:   invoices,
	}
}

// TaxInvoice XML canónico y su digest SHA-256 (hex).
type TaxInvoice struct {
	dto.FileDownload
	Digest string
}

// Statement genera el PDF del 거래명세서.
//
// Retorna:
//   - domain.ErrNotFound si la venta no existe en el negocio.
func (s *Service) Statement(ctx context.Context, businessID, saleID string) (*dto.FileDownload, error) {
	data, err := s.load(ctx, businessID, saleID)
	if err != nil {
		return nil, err
	}
	pdf, err := s.statements.RenderStatement(ctx, *data)
	if err != nil {
		return nil, fmt.Errorf("documento: generar PDF: %w", err)
	}
	return &dto.FileDownload{
		Filename:    fmt.Sprintf("statement_%s_%s.pdf", data.Sale.SaleDate.Format("20060102"), shortID(saleID)),
		ContentType: "application/pdf",
		Data:        pdf,
	}, nil
}

// TaxInvoice genera el XML del 전자세금계산서 (C14N) con su digest.
//
// Retorna:
//   - domain.ErrNotFound     si la venta no existe.
//   - domain.ErrInvalidInput si el emisor no tiene 사업자등록번호.
func (s *Service) TaxInvoice(ctx context.Context, businessID, saleID string) (*TaxInvoice, error) {
	data, err := s.load(ctx, businessID, saleID)
	if err != nil {
		return nil, err
	}
	if data.Business.BusinessNumber == "" {
		return nil, domain.NewValidationError("businessNumber", "세금계산서 발행에는 사업자번호가 필요합니다")
	}
	xml, digest, err := s.invoices.RenderTaxInvoice(ctx, *data)
	if err != nil {
		return nil, fmt.Errorf("documento: generar XML: %w", err)
	}
	return &TaxInvoice{
		FileDownload: dto.FileDownload{
			Filename:    fmt.Sprintf("tax_invoice_%s_%s.xml", data.Sale.SaleDate.Format("20060102"), shortID(saleID)),
			ContentType: "application/xml; charset=utf-8",
			Data:        xml,
		},
		Digest: digest,
	}, nil
}

func (s *Service) load(ctx context.Context, businessID, saleID string) (*ports.StatementData, error) {
	// ── 1. Venta con líneas ──────────────────────────────────────────────────
	sale, err := s.sales.GetByID(ctx, businessID, saleID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}

	// ── 2. Emisor ────────────────────────────────────────────────────────────
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener negocio: %w", err)
	}
	if business == nil {
		return nil, domain.ErrBusinessNotFound
	}

	// ── 3. Receptor (dado de baja: solo el nombre guardado en la venta) ──────
	customer, err := s.customers.GetByID(ctx, businessID, sale.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener cliente: %w", err)
	}
	if customer == nil {
		customer = &entity.Customer{ID: sale.CustomerID, BusinessID: businessID, Name: sale.CustomerName}
	}

	// ── 4. Preferencias (cuenta bancaria, nota al pie) ───────────────────────
	settings, err := s.settings.Get(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener configuración: %w", err)
	}
	if settings == nil {
		settings = entity.DefaultSettings(businessID)
	}

	return &ports.StatementData{Business: business, Customer: customer, Sale: sale, Settings: settings}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
