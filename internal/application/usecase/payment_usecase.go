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

var paymentSortable = []string{"paymentDate", "amount", "createdAt"}

// PaymentUseCase cobros (입금) y pagos (출금) contra clientes.
type PaymentUseCase struct {
	repo      repository.PaymentRepository
	customers repository.CustomerRepository
	activity  *ActivityLogUseCase
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(repo repository.PaymentRepository, customers repository.CustomerRepository, activity *ActivityLogUseCase) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, customers: customers, activity: activity}
}

// List lista cobros/pagos; Type filtra receipt|disbursement.
func (uc *PaymentUseCase) List(ctx context.Context, businessID string, q dto.ListQuery) (*dto.PageResult[dto.PaymentResponse], error) {
	if q.Type != "" && q.Type != entity.PaymentReceipt && q.Type != entity.PaymentDisbursement {
		return nil, domain.NewValidationError("type", "구분은 receipt 또는 disbursement 이어야 합니다")
	}
	f, p, err := buildListFilter(q, paymentSortable, "paymentDate")
	if err != nil {
		return nil, err
	}
	items, total, err := uc.repo.List(ctx, businessID, f)
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[dto.PaymentResponse]{Items: mapItems(items, ToPaymentResponse), Meta: p.Meta(total)}, nil
}

// Get obtiene un cobro/pago.
func (uc *PaymentUseCase) Get(ctx context.Context, businessID, id string) (*dto.PaymentResponse, error) {
	p, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := ToPaymentResponse(p)
	return &out, nil
}

func (uc *PaymentUseCase) load(ctx context.Context, businessID, id string) (*entity.Payment, error) {
	p, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Create registra un cobro/pago; el cliente debe pertenecer al negocio.
func (uc *PaymentUseCase) Create(ctx context.Context, actor Actor, businessID string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	p := &entity.Payment{ID: uuid.New().String(), BusinessID: businessID, CreatedAt: time.Now()}
	if err := uc.apply(ctx, businessID, p, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionCreate, EntityPayment, p.ID, paymentDescription("등록", p))
	out := ToPaymentResponse(p)
	return &out, nil
}

// Update modifica un cobro/pago.
func (uc *PaymentUseCase) Update(ctx context.Context, actor Actor, businessID, id string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	p, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(ctx, businessID, p, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionUpdate, EntityPayment, p.ID, paymentDescription("수정", p))
	out := ToPaymentResponse(p)
	return &out, nil
}

// Delete borra el cobro/pago.
func (uc *PaymentUseCase) Delete(ctx context.Context, actor Actor, businessID, id string) error {
	p, err := uc.load(ctx, businessID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, businessID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionDelete, EntityPayment, id, paymentDescription("삭제", p))
	return nil
}

func (uc *PaymentUseCase) apply(ctx context.Context, businessID string, p *entity.Payment, in dto.PaymentRequest) error {
	if !in.Amount.IsPositive() {
		return domain.NewValidationError("amount", "금액은 0보다 커야 합니다")
	}
	if in.Type != entity.PaymentReceipt && in.Type != entity.PaymentDisbursement {
		return domain.NewValidationError("type", "구분은 receipt 또는 disbursement 이어야 합니다")
	}
	date, err := ParseDate("paymentDate", in.PaymentDate)
	if err != nil {
		return err
	}
	customer, err := loadCounterparty(ctx, uc.customers, businessID, in.CustomerID)
	if err != nil {
		return err
	}
	method := in.Method
	if method == "" {
		method = entity.PaymentMethodTransfer
	}
	p.CustomerID = customer.ID
	p.CustomerName = customer.Name
	p.Type = in.Type
	p.Amount = in.Amount.Round(0)
	p.Method = method
	p.PaymentDate = date
	p.Memo = strings.TrimSpace(in.Memo)
	p.UpdatedAt = time.Now()
	return nil
}

func paymentDescription(verb string, p *entity.Payment) string {
	kind := "입금"
	if p.Type == entity.PaymentDisbursement {
		kind = "출금"
	}
	return fmt.Sprintf("%s %s: %s %s원", kind, verb, p.CustomerName, p.Amount.StringFixed(0))
}

// ToPaymentResponse mapea la entidad a DTO.
func ToPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:           p.ID,
		BusinessID:   p.BusinessID,
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		Type:         p.Type,
		Amount:       p.Amount,
		Method:       p.Method,
		PaymentDate:  formatDate(p.PaymentDate),
		Memo:         p.Memo,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
