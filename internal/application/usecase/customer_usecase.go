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

var customerSortable = []string{"name", "code", "createdAt"}

// CustomerUseCase casos de uso CRUD para clientes (거래처). El borrado es lógico.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	activity *ActivityLogUseCase
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, activity *ActivityLogUseCase) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, activity: activity}
}

// List lista clientes activos con búsqueda, filtro por tipo, orden y paginación.
func (uc *CustomerUseCase) List(ctx context.Context, businessID string, q dto.ListQuery) (*dto.PageResult[dto.CustomerResponse], error) {
	if q.Type != "" && q.Type != entity.CustomerTypeSales && q.Type != entity.CustomerTypePurchase && q.Type != entity.CustomerTypeBoth {
		return nil, domain.NewValidationError("type", "거래처 구분은 sales, purchase, both 중 하나여야 합니다")
	}
	f, p, err := buildListFilter(q, customerSortable, "createdAt")
	if err != nil {
		return nil, err
	}
	items, total, err := uc.repo.List(ctx, businessID, f)
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[dto.CustomerResponse]{Items: mapItems(items, ToCustomerResponse), Meta: p.Meta(total)}, nil
}

// Get obtiene un cliente activo.
func (uc *CustomerUseCase) Get(ctx context.Context, businessID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

func (uc *CustomerUseCase) load(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// Create crea un cliente. Devuelve ErrBusinessNumberUsed si otro cliente activo del negocio
// usa el mismo número, o ErrCodeAlreadyExists si el código está tomado.
func (uc *CustomerUseCase) Create(ctx context.Context, actor Actor, businessID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := uc.ensureNumberFree(ctx, businessID, in.BusinessNumber, ""); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		next, err := uc.nextCode(ctx, businessID)
		if err != nil {
			return nil, err
		}
		code = next
	} else if existing, err := uc.repo.GetByCode(ctx, businessID, code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrCodeAlreadyExists
	}
	kind := in.Type
	if kind == "" {
		kind = entity.CustomerTypeBoth
	}
	now := time.Now()
	c := &entity.Customer{
		ID:             uuid.New().String(),
		BusinessID:     businessID,
		Code:           code,
		Name:           strings.TrimSpace(in.Name),
		Type:           kind,
		BusinessNumber: strings.TrimSpace(in.BusinessNumber),
		Representative: strings.TrimSpace(in.Representative),
		Phone:          strings.TrimSpace(in.Phone),
		Email:          strings.TrimSpace(in.Email),
		Address:        strings.TrimSpace(in.Address),
		Memo:           in.Memo,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, mapDuplicate(err, domain.ErrCodeAlreadyExists)
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionCreate, EntityCustomer, c.ID, "거래처 등록: "+c.Name)
	out := ToCustomerResponse(c)
	return &out, nil
}

// Update modifica un cliente activo.
func (uc *CustomerUseCase) Update(ctx context.Context, actor Actor, businessID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if in.BusinessNumber != nil && *in.BusinessNumber != c.BusinessNumber {
		if err := uc.ensureNumberFree(ctx, businessID, *in.BusinessNumber, c.ID); err != nil {
			return nil, err
		}
	}
	if in.Code != nil && strings.TrimSpace(*in.Code) != c.Code {
		existing, err := uc.repo.GetByCode(ctx, businessID, strings.TrimSpace(*in.Code))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrCodeAlreadyExists
		}
	}
	c.Code = trimOr(in.Code, c.Code)
	c.Name = trimOr(in.Name, c.Name)
	if in.Type != nil {
		c.Type = *in.Type
	}
	c.BusinessNumber = trimOr(in.BusinessNumber, c.BusinessNumber)
	c.Representative = trimOr(in.Representative, c.Representative)
	c.Phone = trimOr(in.Phone, c.Phone)
	c.Email = trimOr(in.Email, c.Email)
	c.Address = trimOr(in.Address, c.Address)
	if in.Memo != nil {
		c.Memo = *in.Memo
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, mapDuplicate(err, domain.ErrCodeAlreadyExists)
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionUpdate, EntityCustomer, c.ID, "거래처 수정: "+c.Name)
	out := ToCustomerResponse(c)
	return &out, nil
}

// Delete desactiva el cliente; sigue existiendo para las ventas históricas.
func (uc *CustomerUseCase) Delete(ctx context.Context, actor Actor, businessID, id string) error {
	c, err := uc.load(ctx, businessID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.SoftDelete(ctx, businessID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actor, businessID, entity.ActionDelete, EntityCustomer, id, "거래처 삭제: "+c.Name)
	return nil
}

// All devuelve todos los clientes activos (exportación Excel, chatbot).
func (uc *CustomerUseCase) All(ctx context.Context, businessID string) ([]*entity.Customer, error) {
	items, _, err := uc.repo.List(ctx, businessID, repository.ListFilter{SortBy: "code"})
	return items, err
}

func (uc *CustomerUseCase) ensureNumberFree(ctx context.Context, businessID, number, exceptID string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil
	}
	existing, err := uc.repo.GetActiveByBusinessNumber(ctx, businessID, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return domain.ErrBusinessNumberUsed
	}
	return nil
}

func (uc *CustomerUseCase) nextCode(ctx context.Context, businessID string) (string, error) {
	return nextCode(ctx, "C", businessID, uc.repo.CountAll, func(ctx context.Context, businessID, code string) (bool, error) {
		c, err := uc.repo.GetByCode(ctx, businessID, code)
		return c != nil, err
	})
}

// nextCode genera prefix+NNNN a partir del total de filas, saltando códigos ya usados.
func nextCode(
	ctx context.Context,
	prefix, businessID string,
	count func(ctx context.Context, businessID string) (int64, error),
	exists func(ctx context.Context, businessID, code string) (bool, error),
) (string, error) {
	n, err := count(ctx, businessID)
	if err != nil {
		return "", err
	}
	for i := n + 1; i < n+1000; i++ {
		code := fmt.Sprintf("%s%04d", prefix, i)
		taken, err := exists(ctx, businessID, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no se pudo generar código %s para el negocio %s", prefix, businessID)
}

// ToCustomerResponse mapea la entidad a DTO.
func ToCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:             c.ID,
		BusinessID:     c.BusinessID,
		Code:           c.Code,
		Name:           c.Name,
		Type:           c.Type,
		BusinessNumber: c.BusinessNumber,
		Representative: c.Representative,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		Memo:           c.Memo,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
