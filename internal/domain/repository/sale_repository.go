package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// SaleRepository persiste cabecera y líneas. Create/Update escriben ambas;
// el llamador las agrupa en una transacción vía TxRunner.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	// GetByID incluye las líneas.
	GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error)
	// List devuelve cabeceras (sin líneas); Search busca en nombre de cliente y memo.
	List(ctx context.Context, businessID string, f ListFilter) ([]*entity.Sale, int64, error)
	// Update, Delete y Sign solo tocan ventas sin firma: sobre una firmada devuelven
	// domain.ErrAlreadySigned. Update reemplaza las líneas existentes por s.Items.
	Update(ctx context.Context, s *entity.Sale) error
	Delete(ctx context.Context, businessID, id string) error
	Sign(ctx context.Context, businessID, id, signedBy string, signedAt time.Time, signaturePath string) error
}
