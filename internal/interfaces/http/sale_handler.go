package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/document"
	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
)

// SaleHandler ventas, firma del receptor y documentos de la venta.
type SaleHandler struct {
	uc        *usecase.SaleUseCase
	docs      *document.Service
	v         *Validator
	maxUpload int64
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *usecase.SaleUseCase, docs *document.Service, v *Validator, maxUpload int64) *SaleHandler {
	return &SaleHandler{uc: uc, docs: docs, v: v, maxUpload: maxUpload}
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        businessId  path   string  true   "negocio"
// @Param        search      query  string  false  "nombre de 거래처 o memo"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD"
// @Param        customerId  query  string  false  "거래처"
// @Param        sortBy      query  string  false  "saleDate | totalAmount | createdAt"
// @Success      200  {object}  dto.ListResponse
// @Router       /api/businesses/{businessId}/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
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

// Get GET /api/businesses/:businessId/sales/:id (con líneas).
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear venta
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        businessId  path  string           true  "negocio"
// @Param        body        body  dto.SaleRequest  true  "cabecera y líneas"
// @Success      201  {object}  dto.Response
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/businesses/{businessId}/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update PUT /api/businesses/:businessId/sales/:id (reemplaza las líneas).
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete DELETE /api/businesses/:businessId/sales/:id
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "매출이 삭제되었습니다.")
}

// Sign godoc
// @Summary      Firmar la recepción de una venta
// @Tags         sales
// @Accept       multipart/form-data
// @Produce      json
// @Param        businessId  path      string  true  "negocio"
// @Param        id          path      string  true  "venta"
// @Param        signature   formData  file    true  "imagen JPEG"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/businesses/{businessId}/sales/{id}/sign [post]
func (h *SaleHandler) Sign(c *fiber.Ctx) error {
	data, err := readUpload(c, "signature", h.maxUpload)
	if err != nil {
		return err
	}
	out, err := h.uc.Sign(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id"), data)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Statement GET /api/businesses/:businessId/sales/:id/statement.pdf (거래명세서).
func (h *SaleHandler) Statement(c *fiber.Ctx) error {
	f, err := h.docs.Statement(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return download(c, f)
}

// TaxInvoice GET /api/businesses/:businessId/sales/:id/tax-invoice.xml
// El digest SHA-256 (hex) del XML canónico va en X-Content-Digest.
func (h *SaleHandler) TaxInvoice(c *fiber.Ctx) error {
	inv, err := h.docs.TaxInvoice(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(digestHeader, inv.Digest)
	return download(c, &inv.FileDownload)
}

// PurchaseHandler 매입: mismo contrato CRUD que las ventas, sin firma ni documentos.
type PurchaseHandler struct {
	uc *usecase.PurchaseUseCase
	v  *Validator
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *usecase.PurchaseUseCase, v *Validator) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, v: v}
}

// List GET /api/businesses/:businessId/purchases
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
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

// Get GET /api/businesses/:businessId/purchases/:id
func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create POST /api/businesses/:businessId/purchases
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update PUT /api/businesses/:businessId/purchases/:id
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete DELETE /api/businesses/:businessId/purchases/:id
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "매입이 삭제되었습니다.")
}

// PaymentHandler 입금/출금.
type PaymentHandler struct {
	uc *usecase.PaymentUseCase
	v  *Validator
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *usecase.PaymentUseCase, v *Validator) *PaymentHandler {
	return &PaymentHandler{uc: uc, v: v}
}

// List GET /api/businesses/:businessId/payments?type=receipt|disbursement
func (h *PaymentHandler) List(c *fiber.Ctx) error {
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

// Get GET /api/businesses/:businessId/payments/:id
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create POST /api/businesses/:businessId/payments
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Update PUT /api/businesses/:businessId/payments/:id
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete DELETE /api/businesses/:businessId/payments/:id
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "입출금 내역이 삭제되었습니다.")
}
