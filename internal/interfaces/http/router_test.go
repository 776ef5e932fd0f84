package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/bizledger-api/internal/interfaces/http"
	pkgredis "github.com/jhoicas/bizledger-api/pkg/redis"
)

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestSignup_CreaSesionConCookies(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"email":    "owner@example.com",
		"password": "password123",
		"name":     "김사장",
		"business": map[string]any{"name": "한빛상사", "businessNumber": validBizNo},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var access, refresh *http.Cookie
	for _, c := range resp.Cookies() {
		switch c.Name {
		case apphttp.CookieAccess:
			access = c
		case apphttp.CookieRefresh:
			refresh = c
		}
	}
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/api/auth", refresh.Path)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), access.Value, "los tokens solo viajan en cookies")
}

func TestSignup_EmailDuplicado_Retorna409(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "owner@example.com", validBizNo)

	resp := s.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"email":    "owner@example.com",
		"password": "password123",
		"name":     "다른사람",
		"business": map[string]any{"name": "다른상사", "businessNumber": otherBizNo},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ERR_USER_001", decode(t, resp).Code)
}

func TestSignup_Invalido_DevuelveCampos(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"email":    "owner",
		"password": "short",
		"name":     "김사장",
		"business": map[string]any{"name": "한빛상사", "businessNumber": "12345"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decode(t, resp)
	assert.Equal(t, "ERR_VAL_001", env.Code)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
	assert.Contains(t, env.Errors, "business.businessNumber")
}

func TestSignup_JSONMalformado(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ERR_VAL_002", decode(t, resp).Code)
}

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "owner@example.com", validBizNo)

	resp := s.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "owner@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "ERR_AUTH_002", decode(t, resp).Code)
}

func TestMe_ConCookie(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)

	resp := s.do(t, http.MethodGet, "/api/auth/me", nil, withCookie(apphttp.CookieAccess, sess.token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeData(t, resp, &me)
	assert.Equal(t, "owner@example.com", me.Email)
	assert.Equal(t, "admin", me.Role)
}

func TestRefresh_ConCookie(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"email":    "owner@example.com",
		"password": "password123",
		"name":     "김사장",
		"business": map[string]any{"name": "한빛상사", "businessNumber": validBizNo},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	refresh := cookieValue(resp, apphttp.CookieRefresh)

	resp = s.do(t, http.MethodPost, "/api/auth/refresh", nil, withCookie(apphttp.CookieRefresh, refresh))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, cookieValue(resp, apphttp.CookieAccess))
}

func TestRefresh_TokenInvalidoLimpiaCookies(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/refresh", map[string]any{"refreshToken": "basura"})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == apphttp.CookieAccess && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
	resp.Body.Close()
}

func TestAvatar_SeSirveConContentTypeFijo(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)

	resp := s.upload(t, "/api/auth/me/avatar", "avatar", "me.jpg", jpegBytes, withToken(sess.token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		AvatarURL string `json:"avatarUrl"`
	}
	decodeData(t, resp, &me)
	require.True(t, strings.HasPrefix(me.AvatarURL, "/uploads/avatars/"))

	resp = s.do(t, http.MethodGet, me.AvatarURL, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestAvatar_RechazaHTML(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)

	resp := s.upload(t, "/api/auth/me/avatar", "avatar", "x.jpg", []byte("<html><script>alert(1)</script></html>"), withToken(sess.token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ERR_FILE_001", decode(t, resp).Code)
}

func TestUploads_ExtensionNoPermitida(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/uploads/avatars/evil.html", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ERR_ROUTE_001", decode(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento entre negocios y roles
// ──────────────────────────────────────────────────────────────────────────────

func TestTenant_NegocioAjeno_Retorna404(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "owner@example.com", validBizNo)
	other := s.signup(t, "other@example.com", otherBizNo)

	resp := s.do(t, http.MethodGet, "/api/businesses/"+owner.businessID+"/customers", nil, withToken(other.token))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ERR_BIZ_001", decode(t, resp).Code)

	resp = s.do(t, http.MethodGet, "/api/businesses/no-existe/sales", nil, withToken(owner.token))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ERR_BIZ_001", decode(t, resp).Code)
}

func TestCustomers_ListaConEnvelope(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)
	s.createCustomer(t, sess, "가나상회")
	s.createCustomer(t, sess, "다라상사")

	resp := s.do(t, http.MethodGet, "/api/businesses/"+sess.businessID+"/customers?page=1&limit=1", nil, withToken(sess.token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	env := decodeData(t, resp, &items)
	assert.True(t, env.Success)
	assert.Len(t, items, 1)
	assert.EqualValues(t, 2, env.Total)
	assert.Equal(t, 1, env.Page)
	assert.Equal(t, 1, env.Limit)
	assert.Equal(t, 2, env.TotalPages)
}

func TestSales_CrearCalculaIVA(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)
	customerID := s.createCustomer(t, sess, "가나상회")
	saleID := s.createSale(t, sess, customerID)

	resp := s.do(t, http.MethodGet, "/api/businesses/"+sess.businessID+"/sales/"+saleID, nil, withToken(sess.token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sale struct {
		SupplyAmount string `json:"supplyAmount"`
		VATAmount    string `json:"vatAmount"`
		TotalAmount  string `json:"totalAmount"`
		CustomerName string `json:"customerName"`
	}
	decodeData(t, resp, &sale)
	assert.Equal(t, "220000", sale.SupplyAmount)
	assert.Equal(t, "22000", sale.VATAmount)
	assert.Equal(t, "242000", sale.TotalAmount)
	assert.Equal(t, "가나상회", sale.CustomerName)
}

// newViewer crea un sales_viewer en el negocio de sess y devuelve su token.
func newViewer(t *testing.T, s *testServer, sess session) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/businesses/"+sess.businessID+"/users", map[string]any{
		"email":    "viewer@example.com",
		"password": "viewerpass1",
		"name":     "이직원",
	}, withToken(sess.token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	return s.login(t, "viewer@example.com", "viewerpass1")
}

func TestSalesViewer_SoloLecturaYFirma(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)
	customerID := s.createCustomer(t, sess, "가나상회")
	saleID := s.createSale(t, sess, customerID)
	viewer := newViewer(t, s, sess)
	base := "/api/businesses/" + sess.businessID

	resp := s.do(t, http.MethodGet, base+"/sales", nil, withToken(viewer))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, base+"/sales", map[string]any{
		"customerId": customerID,
		"saleDate":   "2026-10-01",
		"items":      []map[string]any{{"productName": "볼펜", "quantity": 1, "unitPrice": 1000}},
	}, withToken(viewer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ERR_AUTH_005", decode(t, resp).Code)

	resp = s.do(t, http.MethodGet, base+"/customers", nil, withToken(viewer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/businesses", nil, withToken(viewer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.upload(t, base+"/sales/"+saleID+"/sign", "signature", "sign.jpg", jpegBytes, withToken(viewer))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Firma y documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestSign_RechazaNoJPEGYFirmaUnaVez(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)
	saleID := s.createSale(t, sess, s.createCustomer(t, sess, "가나상회"))
	path := "/api/businesses/" + sess.businessID + "/sales/" + saleID + "/sign"

	resp := s.upload(t, path, "signature", "sign.png", []byte("\x89PNG\r\n\x1a\n0000"), withToken(sess.token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ERR_SALE_001", decode(t, resp).Code)

	resp = s.upload(t, path, "signature", "sign.jpg", jpegBytes, withToken(sess.token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sale struct {
		SignatureURL string `json:"signatureUrl"`
		SignedBy     string `json:"signedBy"`
	}
	decodeData(t, resp, &sale)
	assert.NotEmpty(t, sale.SignatureURL)
	assert.Equal(t, sess.userID, sale.SignedBy)

	resp = s.upload(t, path, "signature", "sign.jpg", jpegBytes, withToken(sess.token))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ERR_SALE_002", decode(t, resp).Code)

	resp = s.do(t, http.MethodDelete, "/api/businesses/"+sess.businessID+"/sales/"+saleID, nil, withToken(sess.token))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ERR_SALE_002", decode(t, resp).Code)

	resp = s.do(t, http.MethodGet, sale.SignatureURL, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
}

func TestSign_SinArchivo(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)
	saleID := s.createSale(t, sess, s.createCustomer(t, sess, "가나상회"))

	resp := s.upload(t, "/api/businesses/"+sess.businessID+"/sales/"+saleID+"/sign", "otro", "x.jpg", jpegBytes, withToken(sess.token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ERR_FILE_002", decode(t, resp).Code)
}

func TestStatement_DescargaPDF(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)
	saleID := s.createSale(t, sess, s.createCustomer(t, sess, "가나상회"))

	resp := s.do(t, http.MethodGet, "/api/businesses/"+sess.businessID+"/sales/"+saleID+"/statement.pdf", nil, withToken(sess.token))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestTaxInvoice_XMLConDigest(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)
	saleID := s.createSale(t, sess, s.createCustomer(t, sess, "가나상회"))

	resp := s.do(t, http.MethodGet, "/api/businesses/"+sess.businessID+"/sales/"+saleID+"/tax-invoice.xml", nil, withToken(sess.token))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	assert.Len(t, resp.Header.Get("X-Content-Digest"), 64)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "TaxInvoice")
}

// ──────────────────────────────────────────────────────────────────────────────
// Chatbot
// ──────────────────────────────────────────────────────────────────────────────

func TestChatbot_RegistraVentaEnLenguajeNatural(t *testing.T) {
	s := newTestServer(t)
	sess := s.signup(t, "owner@example.com", validBizNo)
	s.createCustomer(t, sess, "가나상회")
	base := "/api/businesses/" + sess.businessID

	resp := s.do(t, http.MethodPost, base+"/products", map[string]any{
		"name": "A4 복사용지", "unit": "박스", "buyPrice": 18000, "sellPrice": 22000, "taxType": "tax_separate",
	}, withToken(sess.token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, base+"/chatbot/message", map[string]any{
		"message": "가나상회에 A4 복사용지 10박스 개당 22,000원에 팔았어",
	}, withToken(sess.token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Intent string `json:"intent"`
		Reply  string `json:"reply"`
		Drafts []struct {
			Status   string `json:"status"`
			RecordID string `json:"recordId"`
		} `json:"drafts"`
	}
	decodeData(t, resp, &out)
	assert.Contains(t, out.Reply, "242,000원")
	require.Len(t, out.Drafts, 1)
	assert.Equal(t, "created", out.Drafts[0].Status)
	assert.NotEmpty(t, out.Drafts[0].RecordID)

	resp = s.do(t, http.MethodGet, base+"/sales", nil, withToken(sess.token))
	env := decode(t, resp)
	assert.EqualValues(t, 1, env.Total)
}

func TestChatbot_LimitePorUsuario(t *testing.T) {
	s := newTestServer(t, func(d *apphttp.RouterDeps) { d.ChatbotPerMinute = 1 })
	sess := s.signup(t, "owner@example.com", validBizNo)
	path := "/api/businesses/" + sess.businessID + "/chatbot/message"

	resp := s.do(t, http.MethodPost, path, map[string]any{"message": "오늘 매출 얼마야?"}, withToken(sess.token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, path, map[string]any{"message": "오늘 매출 얼마야?"}, withToken(sess.token))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "ERR_RATE_001", decode(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Seguridad
// ──────────────────────────────────────────────────────────────────────────────

func TestCSRF_CookieSinTokenRechazada(t *testing.T) {
	s := newTestServer(t, func(d *apphttp.RouterDeps) { d.Security.CSRFEnabled = true })
	sess := s.signup(t, "owner@example.com", validBizNo, withCSRF(s.csrfToken(t)))
	path := "/api/businesses/" + sess.businessID + "/customers"
	body := map[string]any{"name": "가나상회"}

	resp := s.do(t, http.MethodPost, path, body, withCookie(apphttp.CookieAccess, sess.token))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ERR_AUTH_006", decode(t, resp).Code)

	// Bearer no lleva cookies: sin CSRF.
	resp = s.do(t, http.MethodPost, path, body, withToken(sess.token))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestCSRF_DoubleSubmitAceptado(t *testing.T) {
	s := newTestServer(t, func(d *apphttp.RouterDeps) { d.Security.CSRFEnabled = true })
	token := s.csrfToken(t)
	sess := s.signup(t, "owner@example.com", validBizNo, withCSRF(token))

	resp := s.do(t, http.MethodPost, "/api/businesses/"+sess.businessID+"/customers", map[string]any{"name": "가나상회"},
		withCookie(apphttp.CookieAccess, sess.token),
		withCSRF(token),
	)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestRateLimit_ConStorageRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := pkgredis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	s := newTestServer(t, func(d *apphttp.RouterDeps) {
		d.Security.Max = 2
		d.Security.Window = time.Minute
		d.Security.Storage = pkgredis.NewStorage(client, "limiter:")
	})

	for i := 0; i < 2; i++ {
		resp := s.do(t, http.MethodGet, "/api/auth/csrf", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	resp := s.do(t, http.MethodGet, "/api/auth/csrf", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "ERR_RATE_001", decode(t, resp).Code)
	assert.NotEmpty(t, mr.Keys(), "el contador vive en Redis")
}

func TestRutaDesconocida_Retorna404(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/no-existe", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ERR_ROUTE_001", decode(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operación
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestMetrics_ExponeContadores(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", nil)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/metrics", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bizledger_http_requests_total")
	assert.Contains(t, string(body), `route="/health"`)
}
