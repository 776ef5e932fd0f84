package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/usecase"
)

// DashboardHandler resumen del mes y saldos por 거래처.
type DashboardHandler struct {
	dashboard *usecase.DashboardUseCase
	ledger    *usecase.LedgerUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboard *usecase.DashboardUseCase, ledger *usecase.LedgerUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, ledger: ledger}
}

// Summary godoc
// @Summary      Dashboard del negocio
// @Description  Ventas y compras del mes, cobros y pagos, saldos, tendencia de 6 meses,
// @Description  top 5 de 거래처 y transacciones recientes. Las fechas se calculan en KST.
// @Tags         dashboard
// @Produce      json
// @Param        businessId  path  string  true  "negocio"
// @Success      200  {object}  dto.Response
// @Router       /api/businesses/{businessId}/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.dashboard.Get(c.UserContext(), GetBusinessID(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Balances GET /api/businesses/:businessId/ledger
func (h *DashboardHandler) Balances(c *fiber.Ctx) error {
	out, err := h.ledger.Balances(c.UserContext(), GetBusinessID(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// CustomerLedger GET /api/businesses/:businessId/ledger/customers/:customerId?from=&to=
func (h *DashboardHandler) CustomerLedger(c *fiber.Ctx) error {
	out, err := h.ledger.CustomerLedger(c.UserContext(), GetBusinessID(c), c.Params("customerId"), c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}
	return ok(c, out)
}
