package ports

import (
	"context"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// StatementData datos de un 거래명세서 (venta con emisor, receptor y preferencias).
type StatementData struct {
	Business *entity.Business
	Customer *entity.Customer
	Sale     *entity.Sale
	Settings *entity.CompanySettings
}

// StatementRenderer genera el PDF del estado de transacción.
type StatementRenderer interface {
	RenderStatement(ctx context.Context, data StatementData) ([]byte, error)
}

// TaxInvoiceRenderer genera el XML canónico de la factura electrónica (전자세금계산서).
// Devuelve el XML C14N y su digest SHA-256 en hexadecimal.
type TaxInvoiceRenderer interface {
	RenderTaxInvoice(ctx context.Context, data StatementData) (xml []byte, digest string, err error)
}

// Spreadsheet codifica/decodifica hojas xlsx.
type Spreadsheet interface {
	// Write crea un libro con una hoja: fila de encabezados + filas.
	Write(sheet string, headers []string, rows [][]string) ([]byte, error)
	// Read devuelve las filas de la primera hoja (incluido el encabezado).
	Read(data []byte) ([][]string, error)
}

// FileStorage almacena archivos subidos y devuelve la ruta pública (/uploads/...).
type FileStorage interface {
	Save(ctx context.Context, dir, name string, data []byte) (string, error)
	Remove(ctx context.Context, publicPath string) error
}
