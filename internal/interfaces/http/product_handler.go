package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP de 품목.
type ProductHandler struct {
	uc *usecase.ProductUseCase
	v  *Validator
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, v *Validator) *ProductHandler {
	return &ProductHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar 품목
// @Tags         products
// @Produce      json
// @Param        businessId  path   string  true   "negocio"
// @Param        search      query  string  false  "nombre o código"
// @Param        type        query  string  false  "tipo de IVA"
// @Param        sortBy      query  string  false  "name | code | sellPrice | buyPrice | createdAt"
// @Success      200  {object}  dto.ListResponse
// @Router       /api/businesses/{businessId}/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
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

// Get GET /api/businesses/:businessId/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create POST /api/businesses/:businessId/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update PUT /api/businesses/:businessId/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete DELETE /api/businesses/:businessId/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "품목이 삭제되었습니다.")
}
