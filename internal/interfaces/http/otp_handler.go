package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/otp"
)

// OTPHandler envío y verificación de códigos por Alimtalk.
type OTPHandler struct {
	svc *otp.Service
	v   *Validator
}

// NewOTPHandler construye el handler.
func NewOTPHandler(svc *otp.Service, v *Validator) *OTPHandler {
	return &OTPHandler{svc: svc, v: v}
}

// Send godoc
// @Summary      Enviar código OTP
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OTPSendRequest  true  "teléfono y propósito"
// @Success      200  {object}  dto.Response
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/otp/send [post]
func (h *OTPHandler) Send(c *fiber.Ctx) error {
	var in dto.OTPSendRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.svc.Send(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Verify POST /api/otp/verify
func (h *OTPHandler) Verify(c *fiber.Ctx) error {
	var in dto.OTPVerifyRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	if err := h.svc.Verify(c.UserContext(), in); err != nil {
		return err
	}
	return ok(c, fiber.Map{"verified": true})
}
