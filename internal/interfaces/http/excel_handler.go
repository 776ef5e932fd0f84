package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/excel"
)

// ExcelHandler plantillas, exportación e importación en xlsx.
type ExcelHandler struct {
	svc       *excel.Service
	maxUpload int64
}

// NewExcelHandler construye el handler.
func NewExcelHandler(svc *excel.Service, maxUpload int64) *ExcelHandler {
	return &ExcelHandler{svc: svc, maxUpload: maxUpload}
}

// Template GET /api/businesses/:businessId/excel/template/:kind
func (h *ExcelHandler) Template(c *fiber.Ctx) error {
	f, err := h.svc.Template(c.Params("kind"))
	if err != nil {
		return err
	}
	return download(c, f)
}

// Export GET /api/businesses/:businessId/excel/export/:kind
func (h *ExcelHandler) Export(c *fiber.Ctx) error {
	f, err := h.svc.Export(c.UserContext(), GetBusinessID(c), c.Params("kind"))
	if err != nil {
		return err
	}
	return download(c, f)
}

// Upload godoc
// @Summary      Importar filas desde xlsx
// @Description  Valida y crea fila por fila; las filas con error se informan sin abortar el resto.
// @Tags         excel
// @Accept       multipart/form-data
// @Produce      json
// @Param        businessId  path      string  true  "negocio"
// @Param        kind        path      string  true  "customers | products | sales | purchases"
// @Param        file        formData  file    true  "archivo xlsx"
// @Success      200  {object}  dto.Response
// @Router       /api/businesses/{businessId}/excel/upload/{kind} [post]
func (h *ExcelHandler) Upload(c *fiber.Ctx) error {
	data, err := readUpload(c, "file", h.maxUpload)
	if err != nil {
		return err
	}
	out, err := h.svc.Import(c.UserContext(), ActorFrom(c), GetBusinessID(c), c.Params("kind"), data)
	if err != nil {
		return err
	}
	return ok(c, out)
}
