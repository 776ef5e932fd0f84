package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

// lado de la operación: decide qué precio del producto se usa por defecto.
type side int

const (
	sideSale side = iota
	sidePurchase
)

// resolvedLine línea validada con importes calculados por el motor de IVA.
type resolvedLine struct {
	ID        string
	ProductID string
	Name      string
	Spec      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxType   tax.Type
	Amounts   tax.Amounts
}

// resolveLines valida las líneas y calcula sus importes. El precio por defecto es el de
// venta o compra del producto; el tipo de tributación sale de la línea, del producto o
// del predeterminado del negocio, en ese orden.
func resolveLines(ctx context.Context, repos repository.Repositories, businessID string, s side, items []dto.LineItemRequest) ([]resolvedLine, tax.Amounts, error) {
	if len(items) == 0 {
		return nil, tax.Amounts{}, domain.NewValidationError("items", "품목을 1개 이상 입력하세요")
	}
	defaultType, err := defaultTaxType(ctx, repos.Settings, businessID)
	if err != nil {
		return nil, tax.Amounts{}, err
	}
	lines := make([]resolvedLine, 0, len(items))
	amounts := make([]tax.Amounts, 0, len(items))
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		line := resolvedLine{
			ID:       uuid.New().String(),
			Name:     strings.TrimSpace(it.ProductName),
			Spec:     strings.TrimSpace(it.Spec),
			Quantity: it.Quantity,
			TaxType:  defaultType,
		}
		var product *entity.Product
		if it.ProductID != "" {
			product, err = repos.Products.GetByID(ctx, businessID, it.ProductID)
			if err != nil {
				return nil, tax.Amounts{}, err
			}
			if product == nil {
				return nil, tax.Amounts{}, domain.NewValidationError(field+".productId", "품목을 찾을 수 없습니다")
			}
			line.ProductID = product.ID
			if line.Name == "" {
				line.Name = product.Name
			}
			if line.Spec == "" {
				line.Spec = product.Spec
			}
			line.TaxType = product.TaxType
		}
		if line.Name == "" {
			return nil, tax.Amounts{}, domain.NewValidationError(field+".productName", "품목명을 입력하세요")
		}
		if !line.Quantity.IsPositive() {
			return nil, tax.Amounts{}, domain.NewValidationError(field+".quantity", "수량은 0보다 커야 합니다")
		}
		switch {
		case it.UnitPrice != nil:
			line.UnitPrice = *it.UnitPrice
		case product != nil && s == sideSale:
			line.UnitPrice = product.SellPrice
		case product != nil:
			line.UnitPrice = product.BuyPrice
		}
		if line.UnitPrice.IsNegative() {
			return nil, tax.Amounts{}, domain.NewValidationError(field+".unitPrice", "단가는 0 이상이어야 합니다")
		}
		if it.TaxType != "" {
			t, ok := tax.Parse(it.TaxType)
			if !ok {
				return nil, tax.Amounts{}, domain.NewValidationError(field+".taxType", "과세 구분이 올바르지 않습니다")
			}
			line.TaxType = t
		}
		line.Amounts = tax.Compute(line.TaxType, line.UnitPrice, line.Quantity)
		lines = append(lines, line)
		amounts = append(amounts, line.Amounts)
	}
	return lines, tax.Sum(amounts...), nil
}

// loadCounterparty exige un cliente activo del negocio.
func loadCounterparty(ctx context.Context, repo repository.CustomerRepository, businessID, customerID string) (*entity.Customer, error) {
	c, err := repo.GetByID(ctx, businessID, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewValidationError("customerId", "거래처를 찾을 수 없습니다")
	}
	return c, nil
}

func toLineItemResponse(id, productID, name, spec string, qty, price decimal.Decimal, t tax.Type, supply, vat, total decimal.Decimal) dto.LineItemResponse {
	return dto.LineItemResponse{
		ID:           id,
		ProductID:    productID,
		ProductName:  name,
		Spec:         spec,
		Quantity:     qty,
		UnitPrice:    price,
		TaxType:      string(t),
		SupplyAmount: supply,
		VATAmount:    vat,
		TotalAmount:  total,
	}
}
