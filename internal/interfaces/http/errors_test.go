package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/domain"
	apphttp "github.com/jhoicas/bizledger-api/internal/interfaces/http"
)

func failingApp(dev bool, err error) *fiber.App {
	app := apphttp.NewApp("errors-test", dev, 1<<20)
	app.Get("/fail", func(c *fiber.Ctx) error { return err })
	return app
}

func callFail(t *testing.T, app *fiber.App) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil), -1)
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func TestErrorHandler_TablaDeCodigos(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "ERR_AUTH_002"},
		{domain.ErrInactiveUser, http.StatusForbidden, "ERR_AUTH_004"},
		{domain.ErrForbidden, http.StatusForbidden, "ERR_AUTH_005"},
		{domain.ErrBusinessNotFound, http.StatusNotFound, "ERR_BIZ_001"},
		{domain.ErrEmailAlreadyExists, http.StatusConflict, "ERR_USER_001"},
		{domain.ErrNotFound, http.StatusNotFound, "ERR_DB_001"},
		{domain.ErrAlreadySigned, http.StatusConflict, "ERR_SALE_002"},
		{domain.ErrOTPTooManyAttempts, http.StatusTooManyRequests, "ERR_OTP_003"},
		{apphttp.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "ERR_FILE_003"},
		{apphttp.ErrRateLimited, http.StatusTooManyRequests, "ERR_RATE_001"},
		// envuelto con contexto sigue resolviendo por errors.Is
		{fmt.Errorf("crear venta: %w", domain.ErrNotFound), http.StatusNotFound, "ERR_DB_001"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			resp, env := callFail(t, failingApp(false, tc.err))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, env.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestErrorHandler_ValidationErrorIncluyeCampos(t *testing.T) {
	resp, env := callFail(t, failingApp(false, domain.NewValidationError("saleDate", "날짜 형식")))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ERR_VAL_001", env.Code)
	assert.Equal(t, "날짜 형식", env.Errors["saleDate"])
}

func TestErrorHandler_500OcultaDetalleFueraDeDev(t *testing.T) {
	boom := errors.New("pq: connection refused")

	resp, env := callFail(t, failingApp(false, boom))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "ERR_SERVER_001", env.Code)
	assert.Empty(t, env.Detail)

	_, env = callFail(t, failingApp(true, boom))
	assert.Equal(t, "pq: connection refused", env.Detail)
}

func TestErrorHandler_RutaDesconocida(t *testing.T) {
	app := apphttp.NewApp("errors-test", false, 1<<20)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/no-existe", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ERR_ROUTE_001", decode(t, resp).Code)
}

func TestLookup_ErrorDesconocido(t *testing.T) {
	_, ok := apphttp.Lookup(errors.New("otro"))
	assert.False(t, ok)

	api, ok := apphttp.Lookup(domain.ErrConflict)
	require.True(t, ok)
	assert.Equal(t, "ERR_DB_004", api.Code)
}
