package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

var productSortable = []string{"name", "code", "sellPrice", "buyPrice", "createdAt"}

// ProductUseCase casos de uso CRUD para productos. El borrado es lógico.
type ProductUseCase struct {
	repo     repository.ProductRepository
	settings repository.SettingsRepository
	activity *ActivityLogUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, settings repository.SettingsRepository, activity *ActivityLogUseCase) *ProductUseCase {
	return &ProductUseCase{repo: repo, settings: settings, activity: activity}
}

// List lista productos activos; Type filtra por tipo de tributación.
func (uc *ProductUseCase) List(ctx context.Context, businessID string, q dto.ListQuery) (*dto.PageResult[dto.ProductResponse], error) {
	if q.Type != "" && !tax.Type(q.Type).Valid() {
		return nil, domain.NewValidationError("type", "과세 구분이 올바르지 않습니다")
	}
	f, p, err := buildListFilter(q, productSortable, "createdAt")
	if err != nil {
		return nil, err
	}
	items, total, err := uc.repo.List(ctx, businessID, f)
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[dto.ProductResponse]{Items: mapItems(items, ToProductResponse), Meta: p.Meta(total)}, nil
}

// Get obtiene un producto activo.
func (uc *ProductUseCase) Get(ctx context.Context, businessID, id string) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := ToProductResponse(p)
	return &out, nil
}

func (uc *ProductUseCase) load(ctx context.Context, businessID, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Create crea un producto. Sin tipo de tributación se usa el predeterminado del negocio.
func (uc *ProductUseCase) Create(ctx context.Context, actor Actor, businessID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validatePrices(in.BuyPrice, in.SellPrice); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		next, err := nextCode(ctx, "P", businessID, uc.repo.CountAll, func(ctx context.Context, businessID, code string) (bool, error) {
			p, err := uc.repo.GetByCode(ctx, businessID, code)
			return p != nil, err
		})
		if err != nil {
			return nil, err
		}
		code = next
	} else if existing, err := uc.repo.GetByCode(ctx, businessID, code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrCodeAlreadyExists
	}
	taxType, err := uc.resolveTaxType(ctx, businessID, in.TaxType)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Code:       code,
		Name:       strings.TrimSpace(in.Name),
		Spec:       strings.TrimSpace(in.Spec),
		Unit:       strings.TrimSpace(in.Unit),
		BuyPrice:   in.BuyPrice.Round(0),
		SellPrice:  in.SellPrice.Round(0),
		TaxType:    taxType,
		Memo:       in.Memo,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, mapDuplicate(err, domain.ErrCodeAlreadyExists)
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionCreate, EntityProduct, p.ID, "품목 등록: "+p.Name)
	out := ToProductResponse(p)
	return &out, nil
}

// Update modifica un producto activo.
func (uc *ProductUseCase) Update(ctx context.Context, actor Actor, businessID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil && strings.TrimSpace(*in.Code) != p.Code {
		existing, err := uc.repo.GetByCode(ctx, businessID, strings.TrimSpace(*in.Code))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrCodeAlreadyExists
		}
	}
	p.Code = trimOr(in.Code, p.Code)
	p.Name = trimOr(in.Name, p.Name)
	p.Spec = trimOr(in.Spec, p.Spec)
	p.Unit = trimOr(in.Unit, p.Unit)
	if in.BuyPrice != nil {
		p.BuyPrice = in.BuyPrice.Round(0)
	}
	if in.SellPrice != nil {
		p.SellPrice = in.SellPrice.Round(0)
	}
	if err := validatePrices(p.BuyPrice, p.SellPrice); err != nil {
		return nil, err
	}
	if in.TaxType != nil {
		t, ok := tax.Parse(*in.TaxType)
		if !ok {
			return nil, domain.NewValidationError("taxType", "과세 구분이 올바르지 않습니다")
		}
		p.TaxType = t
	}
	if in.Memo != nil {
		p.Memo = *in.Memo
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, mapDuplicate(err, domain.ErrCodeAlreadyExists)
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionUpdate, EntityProduct, p.ID, "품목 수정: "+p.Name)
	out := ToProductResponse(p)
	return &out, nil
}

// Delete desactiva el producto.
func (uc *ProductUseCase) Delete(ctx context.Context, actor Actor, businessID, id string) error {
	p, err := uc.load(ctx, businessID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.SoftDelete(ctx, businessID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionDelete, EntityProduct, id, "품목 삭제: "+p.Name)
	return nil
}

// All devuelve todos los productos activos (exportación Excel, chatbot).
func (uc *ProductUseCase) All(ctx context.Context, businessID string) ([]*entity.Product, error) {
	items, _, err := uc.repo.List(ctx, businessID, repository.ListFilter{SortBy: "code"})
	return items, err
}

func (uc *ProductUseCase) resolveTaxType(ctx context.Context, businessID, label string) (tax.Type, error) {
	if label != "" {
		t, ok := tax.Parse(label)
		if !ok {
			return "", domain.NewValidationError("taxType", "과세 구분이 올바르지 않습니다")
		}
		return t, nil
	}
	return defaultTaxType(ctx, uc.settings, businessID)
}

func defaultTaxType(ctx context.Context, repo repository.SettingsRepository, businessID string) (tax.Type, error) {
	st, err := repo.Get(ctx, businessID)
	if err != nil {
		return "", err
	}
	if st == nil || !st.DefaultTaxType.Valid() {
		return tax.Separate, nil
	}
	return st.DefaultTaxType, nil
}

func validatePrices(buy, sell decimal.Decimal) error {
	if buy.IsNegative() {
		return domain.NewValidationError("buyPrice", "매입 단가는 0 이상이어야 합니다")
	}
	if sell.IsNegative() {
		return domain.NewValidationError("sellPrice", "판매 단가는 0 이상이어야 합니다")
	}
	return nil
}

// ToProductResponse mapea la entidad a DTO.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:         p.ID,
		BusinessID: p.BusinessID,
		Code:       p.Code,
		Name:       p.Name,
		Spec:       p.Spec,
		Unit:       p.Unit,
		BuyPrice:   p.BuyPrice,
		SellPrice:  p.SellPrice,
		TaxType:    string(p.TaxType),
		Memo:       p.Memo,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
