package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var purchaseSortable = []string{"purchaseDate", "totalAmount", "createdAt"}

// PurchaseUseCase compras (매입), mismo contrato transaccional que las ventas.
type PurchaseUseCase struct {
	repos repository.Repositories
	tx    repository.TxRunner
	now   func() time.Time
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(repos repository.Repositories, tx repository.TxRunner) *PurchaseUseCase {
	return &PurchaseUseCase{repos: repos, tx: tx, now: time.Now}
}

// List lista cabeceras de compra.
func (uc *PurchaseUseCase) List(ctx context.Context, businessID string, q dto.ListQuery) (*dto.PageResult[dto.PurchaseResponse], error) {
	f, p, err := buildListFilter(q, purchaseSortable, "purchaseDate")
	if err != nil {
		return nil, err
	}
	items, total, err := uc.repos.Purchases.List(ctx, businessID, f)
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[dto.PurchaseResponse]{Items: mapItems(items, ToPurchaseResponse), Meta: p.Meta(total)}, nil
}

// Get obtiene la compra con sus líneas.
func (uc *PurchaseUseCase) Get(ctx context.Context, businessID, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.repos.Purchases.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := ToPurchaseResponse(p)
	return &out, nil
}

// Create registra la compra y sus líneas.
func (uc *PurchaseUseCase) Create(ctx context.Context, actor Actor, businessID string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	date, err := ParseDate("purchaseDate", in.PurchaseDate)
	if err != nil {
		return nil, err
	}
	var purchase *entity.Purchase
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		supplier, err := loadCounterparty(ctx, repos.Customers, businessID, in.CustomerID)
		if err != nil {
			return err
		}
		lines, sum, err := resolveLines(ctx, repos, businessID, sidePurchase, in.Items)
		if err != nil {
			return err
		}
		now := uc.now()
		purchase = &entity.Purchase{
			ID:           uuid.New().String(),
			BusinessID:   businessID,
			CustomerID:   supplier.ID,
			CustomerName: supplier.Name,
			PurchaseDate: date,
			SupplyAmount: sum.Supply,
			VATAmount:    sum.VAT,
			TotalAmount:  sum.Total,
			Memo:         strings.TrimSpace(in.Memo),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		purchase.Items = purchaseItems(purchase.ID, lines)
		if err := repos.Purchases.Create(ctx, purchase); err != nil {
			return fmt.Errorf("crear compra: %w", err)
		}
		return repos.ActivityLogs.Create(ctx, newActivity(actor, businessID, entity.ActionCreate, EntityPurchase, purchase.ID,
			fmt.Sprintf("매입 등록: %s %s원", supplier.Name, purchase.TotalAmount.StringFixed(0))))
	})
	if err != nil {
		return nil, err
	}
	out := ToPurchaseResponse(purchase)
	return &out, nil
}

// Update reemplaza cabecera y líneas.
func (uc *PurchaseUseCase) Update(ctx context.Context, actor Actor, businessID, id string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	date, err := ParseDate("purchaseDate", in.PurchaseDate)
	if err != nil {
		return nil, err
	}
	var purchase *entity.Purchase
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		purchase, err = repos.Purchases.GetByID(ctx, businessID, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		supplier, err := loadCounterparty(ctx, repos.Customers, businessID, in.CustomerID)
		if err != nil {
			return err
		}
		lines, sum, err := resolveLines(ctx, repos, businessID, sidePurchase, in.Items)
		if err != nil {
			return err
		}
		purchase.CustomerID = supplier.ID
		purchase.CustomerName = supplier.Name
		purchase.PurchaseDate = date
		purchase.SupplyAmount = sum.Supply
		purchase.VATAmount = sum.VAT
		purchase.TotalAmount = sum.Total
		purchase.Memo = strings.TrimSpace(in.Memo)
		purchase.Items = purchaseItems(purchase.ID, lines)
		purchase.UpdatedAt = uc.now()
		if err := repos.Purchases.Update(ctx, purchase); err != nil {
			return fmt.Errorf("actualizar compra: %w", err)
		}
		return repos.ActivityLogs.Create(ctx, newActivity(actor, businessID, entity.ActionUpdate, EntityPurchase, purchase.ID,
			fmt.Sprintf("매입 수정: %s %s원", supplier.Name, purchase.TotalAmount.StringFixed(0))))
	})
	if err != nil {
		return nil, err
	}
	out := ToPurchaseResponse(purchase)
	return &out, nil
}

// Delete borra la compra y sus líneas.
func (uc *PurchaseUseCase) Delete(ctx context.Context, actor Actor, businessID, id string) error {
	return uc.tx.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Purchases.GetByID(ctx, businessID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := repos.Purchases.Delete(ctx, businessID, id); err != nil {
			return err
		}
		return repos.ActivityLogs.Create(ctx, newActivity(actor, businessID, entity.ActionDelete, EntityPurchase, id,
			fmt.Sprintf("매입 삭제: %s %s원", p.CustomerName, p.TotalAmount.StringFixed(0))))
	})
}

func purchaseItems(purchaseID string, lines []resolvedLine) []entity.PurchaseItem {
	items := make([]entity.PurchaseItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, entity.PurchaseItem{
			ID:           l.ID,
			PurchaseID:   purchaseID,
			ProductID:    l.ProductID,
			ProductName:  l.Name,
			Spec:         l.Spec,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TaxType:      l.TaxType,
			SupplyAmount: l.Amounts.Supply,
			VATAmount:    l.Amounts.VAT,
			TotalAmount:  l.Amounts.Total,
		})
	}
	return items
}

// ToPurchaseResponse mapea la entidad a DTO.
func ToPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	out := dto.PurchaseResponse{
		ID:           p.ID,
		BusinessID:   p.BusinessID,
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		PurchaseDate: formatDate(p.PurchaseDate),
		SupplyAmount: p.SupplyAmount,
		VATAmount:    p.VATAmount,
		TotalAmount:  p.TotalAmount,
		Memo:         p.Memo,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, toLineItemResponse(it.ID, it.ProductID, it.ProductName, it.Spec,
			it.Quantity, it.UnitPrice, it.TaxType, it.SupplyAmount, it.VATAmount, it.TotalAmount))
	}
	return out
}

// All devuelve todas las cabeceras de compra ordenadas por fecha (exportación Excel).
func (uc *PurchaseUseCase) All(ctx context.Context, businessID string) ([]*entity.Purchase, error) {
	items, _, err := uc.repos.Purchases.List(ctx, businessID, repository.ListFilter{SortBy: "purchaseDate"})
	return items, err
}
