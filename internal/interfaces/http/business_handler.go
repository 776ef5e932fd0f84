package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
)

// BusinessHandler negocios del admin autenticado.
type BusinessHandler struct {
	uc *usecase.BusinessUseCase
	v  *Validator
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase, v *Validator) *BusinessHandler {
	return &BusinessHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar negocios propios
// @Tags         businesses
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/businesses [get]
func (h *BusinessHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), ActorFrom(c))
	if err != nil {
		return err
	}
	if out == nil {
		out = []dto.BusinessResponse{}
	}
	return ok(c, out)
}

// Get GET /api/businesses/:id
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear negocio
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBusinessRequest  true  "negocio"
// @Success      201   {object}  dto.Response
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/businesses [post]
func (h *BusinessHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBusinessRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update PUT /api/businesses/:id
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBusinessRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete DELETE /api/businesses/:id (baja lógica).
func (h *BusinessHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "사업장이 삭제되었습니다.")
}

// UserHandler usuarios sales_viewer de un negocio.
type UserHandler struct {
	uc *usecase.UserUseCase
	v  *Validator
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase, v *Validator) *UserHandler {
	return &UserHandler{uc: uc, v: v}
}

// List GET /api/businesses/:businessId/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetBusinessID(c))
	if err != nil {
		return err
	}
	if out == nil {
		out = []dto.UserResponse{}
	}
	return ok(c, out)
}

// Create POST /api/businesses/:businessId/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update PUT /api/businesses/:businessId/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete DELETE /api/businesses/:businessId/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "사용자가 삭제되었습니다.")
}
