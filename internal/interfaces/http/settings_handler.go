package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
)

// SettingsHandler preferencias del negocio, reinicio de datos y baja de cuenta.
type SettingsHandler struct {
	uc           *usecase.SettingsUseCase
	v            *Validator
	cookieSecure bool
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase, v *Validator, cookieSecure bool) *SettingsHandler {
	return &SettingsHandler{uc: uc, v: v, cookieSecure: cookieSecure}
}

// Get GET /api/businesses/:businessId/settings (valores por defecto si no existen).
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Update PUT /api/businesses/:businessId/settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Reset godoc
// @Summary      Borrar los datos del negocio
// @Description  Borra ventas, compras, pagos, 거래처, 품목 y notas en una sola transacción.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        businessId  path  string                      true  "negocio"
// @Param        body        body  dto.PasswordConfirmRequest  true  "contraseña actual"
// @Success      200  {object}  dto.Response
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/businesses/{businessId}/settings/reset [post]
func (h *SettingsHandler) Reset(c *fiber.Ctx) error {
	var in dto.PasswordConfirmRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	if err := h.uc.ResetData(c.UserContext(), ActorFrom(c), GetBusinessID(c), in.Password); err != nil {
		return err
	}
	return message(c, "데이터가 초기화되었습니다.")
}

// DeleteAccount DELETE /api/settings/account: borra el usuario, sus negocios y todos sus datos.
func (h *SettingsHandler) DeleteAccount(c *fiber.Ctx) error {
	var in dto.PasswordConfirmRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	if err := h.uc.DeleteAccount(c.UserContext(), ActorFrom(c), in.Password); err != nil {
		return err
	}
	ClearSessionCookies(c, h.cookieSecure)
	return message(c, "계정이 삭제되었습니다.")
}
