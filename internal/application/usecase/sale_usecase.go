package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

var saleSortable = []string{"saleDate", "totalAmount", "createdAt"}

// jpegMagic primeros bytes de todo archivo JPEG.
var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// SaleUseCase ventas (매출): cabecera y líneas se escriben en una sola transacción.
type SaleUseCase struct {
	repos         repository.Repositories
	tx            repository.TxRunner
	storage       ports.FileStorage
	messenger     ports.MessageSender
	notifications *NotificationUseCase
	now           func() time.Time
}

// NewSaleUseCase construye el caso de uso. messenger puede ser nil.
func NewSaleUseCase(repos repository.Repositories, tx repository.TxRunner, storage ports.FileStorage, messenger ports.MessageSender, notifications *NotificationUseCase) *SaleUseCase {
	return &SaleUseCase{repos: repos, tx: tx, storage: storage, messenger: messenger, notifications: notifications, now: time.Now}
}

// List lista cabeceras de venta.
func (uc *SaleUseCase) List(ctx context.Context, businessID string, q dto.ListQuery) (*dto.PageResult[dto.SaleResponse], error) {
	f, p, err := buildListFilter(q, saleSortable, "saleDate")
	if err != nil {
		return nil, err
	}
	items, total, err := uc.repos.Sales.List(ctx, businessID, f)
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[dto.SaleResponse]{Items: mapItems(items, ToSaleResponse), Meta: p.Meta(total)}, nil
}

// Get obtiene la venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, businessID, id string) (*dto.SaleResponse, error) {
	s, err := uc.Load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := ToSaleResponse(s)
	return &out, nil
}

// Load devuelve la entidad con líneas o ErrNotFound.
func (uc *SaleUseCase) Load(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	s, err := uc.repos.Sales.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Create registra la venta, sus líneas y el log de actividad en una transacción.
func (uc *SaleUseCase) Create(ctx context.Context, actor Actor, businessID string, in dto.SaleRequest) (*dto.SaleResponse, error) {
	date, err := ParseDate("saleDate", in.SaleDate)
	if err != nil {
		return nil, err
	}
	var sale *entity.Sale
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		customer, err := loadCounterparty(ctx, repos.Customers, businessID, in.CustomerID)
		if err != nil {
			return err
		}
		lines, sum, err := resolveLines(ctx, repos, businessID, sideSale, in.Items)
		if err != nil {
			return err
		}
		now := uc.now()
		sale = &entity.Sale{
			ID:           uuid.New().String(),
			BusinessID:   businessID,
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			SaleDate:     date,
			SupplyAmount: sum.Supply,
			VATAmount:    sum.VAT,
			TotalAmount:  sum.Total,
			Memo:         strings.TrimSpace(in.Memo),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		sale.Items = saleItems(sale.ID, lines)
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("crear venta: %w", err)
		}
		return repos.ActivityLogs.Create(ctx, newActivity(actor, businessID, entity.ActionCreate, EntitySale, sale.ID,
			fmt.Sprintf("매출 등록: %s %s원", customer.Name, sale.TotalAmount.StringFixed(0))))
	})
	if err != nil {
		return nil, err
	}
	out := ToSaleResponse(sale)
	return &out, nil
}

// Update reemplaza cabecera y líneas. Una venta firmada no se puede modificar.
func (uc *SaleUseCase) Update(ctx context.Context, actor Actor, businessID, id string, in dto.SaleRequest) (*dto.SaleResponse, error) {
	date, err := ParseDate("saleDate", in.SaleDate)
	if err != nil {
		return nil, err
	}
	var sale *entity.Sale
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		sale, err = repos.Sales.GetByID(ctx, businessID, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.IsSigned() {
			return domain.ErrAlreadySigned
		}
		customer, err := loadCounterparty(ctx, repos.Customers, businessID, in.CustomerID)
		if err != nil {
			return err
		}
		lines, sum, err := resolveLines(ctx, repos, businessID, sideSale, in.Items)
		if err != nil {
			return err
		}
		sale.CustomerID = customer.ID
		sale.CustomerName = customer.Name
		sale.SaleDate = date
		sale.SupplyAmount = sum.Supply
		sale.VATAmount = sum.VAT
		sale.TotalAmount = sum.Total
		sale.Memo = strings.TrimSpace(in.Memo)
		sale.Items = saleItems(sale.ID, lines)
		sale.UpdatedAt = uc.now()
		if err := repos.Sales.Update(ctx, sale); err != nil {
			return fmt.Errorf("actualizar venta: %w", err)
		}
		return repos.ActivityLogs.Create(ctx, newActivity(actor, businessID, entity.ActionUpdate, EntitySale, sale.ID,
			fmt.Sprintf("매출 수정: %s %s원", customer.Name, sale.TotalAmount.StringFixed(0))))
	})
	if err != nil {
		return nil, err
	}
	out := ToSaleResponse(sale)
	return &out, nil
}

// Delete borra la venta y sus líneas. Una venta firmada no se puede borrar.
func (uc *SaleUseCase) Delete(ctx context.Context, actor Actor, businessID, id string) error {
	return uc.tx.Run(ctx, func(repos repository.Repositories) error {
		sale, err := repos.Sales.GetByID(ctx, businessID, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.IsSigned() {
			return domain.ErrAlreadySigned
		}
		if err := repos.Sales.Delete(ctx, businessID, id); err != nil {
			return err
		}
		return repos.ActivityLogs.Create(ctx, newActivity(actor, businessID, entity.ActionDelete, EntitySale, id,
			fmt.Sprintf("매출 삭제: %s %s원", sale.CustomerName, sale.TotalAmount.StringFixed(0))))
	})
}

// Sign registra la firma (JPEG) del receptor. Tras firmar notifica al dueño del negocio y,
// si las preferencias lo permiten, envía el aviso Alimtalk al teléfono del cliente.
func (uc *SaleUseCase) Sign(ctx context.Context, actor Actor, businessID, id string, image []byte) (*dto.SaleResponse, error) {
	if len(image) < len(jpegMagic) || !bytes.Equal(image[:len(jpegMagic)], jpegMagic) {
		return nil, domain.ErrInvalidSignature
	}
	sale, err := uc.Load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if sale.IsSigned() {
		return nil, domain.ErrAlreadySigned
	}
	// Nombre único por intento: una firma concurrente que pierde no pisa el archivo de la ganadora.
	path, err := uc.storage.Save(ctx, "signatures/"+businessID, sale.ID+"-"+uuid.NewString()[:8]+".jpg", image)
	if err != nil {
		return nil, fmt.Errorf("guardar firma: %w", err)
	}
	signedAt := uc.now()
	if err := uc.repos.Sales.Sign(ctx, businessID, id, actor.UserID, signedAt, path); err != nil {
		if rmErr := uc.storage.Remove(ctx, path); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", path).Msg("no se pudo borrar la firma descartada")
		}
		return nil, err
	}
	sale.SignedBy = actor.UserID
	sale.SignedAt = &signedAt
	sale.SignaturePath = path
	uc.afterSign(ctx, actor, businessID, sale)
	out := ToSaleResponse(sale)
	return &out, nil
}

func (uc *SaleUseCase) afterSign(ctx context.Context, actor Actor, businessID string, sale *entity.Sale) {
	desc := fmt.Sprintf("매출 서명: %s %s원", sale.CustomerName, sale.TotalAmount.StringFixed(0))
	if err := uc.repos.ActivityLogs.Create(ctx, newActivity(actor, businessID, entity.ActionSign, EntitySale, sale.ID, desc)); err != nil {
		log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo registrar actividad de firma")
	}
	b, err := uc.repos.Businesses.GetByID(ctx, businessID)
	if err != nil || b == nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("firma: negocio no encontrado para notificar")
		return
	}
	uc.notifications.Notify(ctx, b.UserID, businessID, entity.NotificationSaleSigned, "거래명세서 서명 완료",
		desc, fmt.Sprintf("/businesses/%s/sales/%s", businessID, sale.ID))

	if uc.messenger == nil {
		return
	}
	settings, err := uc.repos.Settings.Get(ctx, businessID)
	if err != nil {
		log.Warn().Err(err).Msg("firma: no se pudieron leer preferencias")
		return
	}
	if settings == nil {
		settings = entity.DefaultSettings(businessID)
	}
	if !settings.NotifyOnSign {
		return
	}
	customer, err := uc.repos.Customers.GetByID(ctx, businessID, sale.CustomerID)
	if err != nil || customer == nil || customer.Phone == "" {
		return
	}
	msg := ports.TemplateMessage{
		Template: ports.TemplateSignedSale,
		Vars: map[string]string{
			"business": b.Name,
			"customer": customer.Name,
			"date":     formatDate(sale.SaleDate),
			"amount":   sale.TotalAmount.StringFixed(0),
		},
		Text: fmt.Sprintf("[%s] %s 거래명세서(%s, %s원) 서명이 완료되었습니다.", b.Name, customer.Name, formatDate(sale.SaleDate), sale.TotalAmount.StringFixed(0)),
	}
	if _, err := uc.messenger.Send(ctx, customer.Phone, msg); err != nil {
		log.Warn().Err(err).Str("sale_id", sale.ID).Msg("firma: fallo el envío Alimtalk")
	}
}

func saleItems(saleID string, lines []resolvedLine) []entity.SaleItem {
	items := make([]entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, entity.SaleItem{
			ID:           l.ID,
			SaleID:       saleID,
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

// ToSaleResponse mapea la entidad a DTO (las líneas solo si fueron cargadas).
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:           s.ID,
		BusinessID:   s.BusinessID,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		SaleDate:     formatDate(s.SaleDate),
		SupplyAmount: s.SupplyAmount,
		VATAmount:    s.VATAmount,
		TotalAmount:  s.TotalAmount,
		Memo:         s.Memo,
		SignedBy:     s.SignedBy,
		SignedAt:     s.SignedAt,
		SignatureURL: s.SignaturePath,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, toLineItemResponse(it.ID, it.ProductID, it.ProductName, it.Spec,
			it.Quantity, it.UnitPrice, it.TaxType, it.SupplyAmount, it.VATAmount, it.TotalAmount))
	}
	return out
}

// All devuelve todas las cabeceras de venta ordenadas por fecha (exportación Excel).
func (uc *SaleUseCase) All(ctx context.Context, businessID string) ([]*entity.Sale, error) {
	items, _, err := uc.repos.Sales.List(ctx, businessID, repository.ListFilter{SortBy: "saleDate"})
	return items, err
}
