package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/auth"
	"github.com/jhoicas/bizledger-api/internal/application/chatbot"
	"github.com/jhoicas/bizledger-api/internal/application/document"
	"github.com/jhoicas/bizledger-api/internal/application/excel"
	"github.com/jhoicas/bizledger-api/internal/application/otp"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/ai"
	infraexcel "github.com/jhoicas/bizledger-api/internal/infrastructure/excel"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/sms"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/storage"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/taxinvoice"
	apphttp "github.com/jhoicas/bizledger-api/internal/interfaces/http"
)

const (
	accessSecret  = "access-secret-for-http-tests"
	refreshSecret = "refresh-secret-for-http-tests"
	validBizNo    = "220-81-62517"
	otherBizNo    = "101-86-17326"
)

type testServer struct {
	app       *fiber.App
	store     *memory.Store
	uploadDir string
}

// newTestServer monta el API completo sobre el store en memoria. mods ajusta RouterDeps.
func newTestServer(t *testing.T, mods ...func(*apphttp.RouterDeps)) *testServer {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	tx := memory.NewTxRunner(store)
	uploadDir := t.TempDir()
	files, err := storage.NewLocalStorage(uploadDir)
	require.NoError(t, err)
	messenger := sms.LogSender{}

	activity := usecase.NewActivityLogUseCase(repos.ActivityLogs)
	notifications := usecase.NewNotificationUseCase(repos.Notifications)
	guard := usecase.NewTenantGuard(repos.Businesses, repos.Users)
	customers := usecase.NewCustomerUseCase(repos.Customers, activity)
	products := usecase.NewProductUseCase(repos.Products, repos.Settings, activity)
	sales := usecase.NewSaleUseCase(repos, tx, files, messenger, notifications)
	purchases := usecase.NewPurchaseUseCase(repos, tx)
	payments := usecase.NewPaymentUseCase(repos.Payments, repos.Customers, activity)
	dashboard := usecase.NewDashboardUseCase(repos.Reports)
	ledger := usecase.NewLedgerUseCase(repos.Reports, repos.Customers)

	authUC := auth.NewAuthUseCase(repos, tx, auth.TokenConfig{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "bizledger-test",
	}, notifications, auth.WithStorage(files), auth.WithMessenger(messenger))

	deps := apphttp.RouterDeps{
		AuthUC:         authUC,
		BusinessUC:     usecase.NewBusinessUseCase(repos.Businesses, guard, activity),
		UserUC:         usecase.NewUserUseCase(repos.Users, activity),
		Guard:          guard,
		CustomerUC:     customers,
		ProductUC:      products,
		SaleUC:         sales,
		PurchaseUC:     purchases,
		PaymentUC:      payments,
		DashboardUC:    dashboard,
		LedgerUC:       ledger,
		NoteUC:         usecase.NewNoteUseCase(repos.Notes, activity),
		NotificationUC: notifications,
		ActivityLogUC:  activity,
		SettingsUC:     usecase.NewSettingsUseCase(repos, tx, activity),
		OTP:            otp.NewService(repos.OTPs, messenger, "session-secret"),
		Documents:      document.NewService(repos, pdf.NewStatementRenderer(), taxinvoice.NewBuilder()),
		Excel:          excel.NewService(infraexcel.NewSheet(), customers, products, sales, purchases, activity, notifications),
		Chatbot: chatbot.NewService(chatbot.Deps{
			Customers: customers,
			Products:  products,
			Sales:     sales,
			Purchases: purchases,
			Payments:  payments,
			Dashboard: dashboard,
			Ledger:    ledger,
		}, nil, ai.NewRuleExtractor(), time.Second),
		Metrics:   apphttp.NewMetrics(prometheus.NewRegistry()),
		JWTSecret: accessSecret,
		Security: apphttp.SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			Max:            1000,
			Window:         time.Minute,
			AuthMax:        1000,
			AuthWindow:     time.Minute,
		},
		UploadDir:        uploadDir,
		MaxUploadBytes:   1 << 20,
		ChatbotPerMinute: 600,
		ServiceName:      "bizledger-test",
	}
	for _, m := range mods {
		m(&deps)
	}
	app := apphttp.NewApp("bizledger-test", false, deps.MaxUploadBytes)
	apphttp.Router(app, deps)
	return &testServer{app: app, store: store, uploadDir: uploadDir}
}

type reqOpt func(*http.Request)

func withToken(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(name, value string) reqOpt {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

// withCSRF envía el token en cookie y header (double-submit).
func withCSRF(token string) reqOpt {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: apphttp.CSRFCookie, Value: token})
		r.Header.Set(apphttp.CSRFHeader, token)
	}
}

// csrfToken pide GET /api/auth/csrf y comprueba que cookie y cuerpo coinciden.
func (s *testServer) csrfToken(t *testing.T) string {
	t.Helper()
	resp := s.do(t, http.MethodGet, "/api/auth/csrf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := cookieValue(resp, apphttp.CSRFCookie)
	var out struct {
		CSRFToken string `json:"csrfToken"`
	}
	decodeData(t, resp, &out)
	require.NotEmpty(t, cookie)
	require.Equal(t, cookie, out.CSRFToken)
	return cookie
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...reqOpt) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) upload(t *testing.T, path, field, filename string, data []byte, opts ...reqOpt) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, o := range opts {
		o(req)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// envelope cuerpo genérico de respuesta (éxito o error).
type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	Errors     map[string]string `json:"errors"`
	Detail     string            `json:"detail"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, resp *http.Response, dst any) envelope {
	t.Helper()
	env := decode(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, dst))
	return env
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type session struct {
	token      string
	userID     string
	businessID string
}

// signup registra un admin con su negocio y devuelve el token de acceso de la cookie.
func (s *testServer) signup(t *testing.T, email, bizNo string, opts ...reqOpt) session {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"email":    email,
		"password": "password123",
		"name":     "김사장",
		"phone":    "010-1234-5678",
		"business": map[string]any{"name": "한빛상사", "businessNumber": bizNo},
	}, opts...)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := cookieValue(resp, apphttp.CookieAccess)
	require.NotEmpty(t, token)

	var out struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Businesses []struct {
			ID string `json:"id"`
		} `json:"businesses"`
	}
	decodeData(t, resp, &out)
	require.Len(t, out.Businesses, 1)
	return session{token: token, userID: out.User.ID, businessID: out.Businesses[0].ID}
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	token := cookieValue(resp, apphttp.CookieAccess)
	require.NotEmpty(t, token)
	return token
}

func (s *testServer) createCustomer(t *testing.T, sess session, name string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/businesses/"+sess.businessID+"/customers",
		map[string]any{"name": name, "type": "both", "phone": "010-9876-5432"}, withToken(sess.token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &out)
	return out.ID
}

func (s *testServer) createSale(t *testing.T, sess session, customerID string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/businesses/"+sess.businessID+"/sales", map[string]any{
		"customerId": customerID,
		"saleDate":   "2026-10-01",
		"items": []map[string]any{
			{"productName": "A4 복사용지", "quantity": 10, "unitPrice": 22000, "taxType": "tax_separate"},
		},
	}, withToken(sess.token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &out)
	return out.ID
}

var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x00}, 64)...)
