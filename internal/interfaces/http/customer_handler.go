package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
)

// CustomerHandler maneja las peticiones HTTP de 거래처 (protegido, por negocio).
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
	v  *Validator
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase, v *Validator) *CustomerHandler {
	return &CustomerHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar 거래처
// @Tags         customers
// @Produce      json
// @Param        businessId  path   string  true   "negocio"
// @Param        search      query  string  false  "nombre, código, número de registro o representante"
// @Param        type        query  string  false  "sales | purchase | both"
// @Param        sortBy      query  string  false  "name | code | createdAt"
// @Param        sortOrder   query  string  false  "asc | desc"
// @Param        page        query  int     false  "página"
// @Param        limit       query  int     false  "tamaño de página"
// @Success      200  {object}  dto.ListResponse
// @Router       /api/businesses/{businessId}/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := bindQuery(c, h.v, &q); err != nil {
		return err
	}
	page, err := h.uc.List(c.UserContext(), GetBusinessID(c), q)
	if err != nil {
		return err
	}
	return list(c, page)
}

// Get GET /api/businesses/:businessId/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear 거래처
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        businessId  path  string                     true  "negocio"
// @Param        body        body  dto.CreateCustomerRequest  true  "거래처"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/businesses/{businessId}/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update PUT /api/businesses/:businessId/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete DELETE /api/businesses/:businessId/customers/:id (baja lógica).
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "거래처가 삭제되었습니다.")
}
