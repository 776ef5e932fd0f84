package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/bizledger-api/internal/application/auth"
	"github.com/jhoicas/bizledger-api/internal/application/chatbot"
	"github.com/jhoicas/bizledger-api/internal/application/document"
	"github.com/jhoicas/bizledger-api/internal/application/excel"
	"github.com/jhoicas/bizledger-api/internal/application/otp"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	BusinessUC     *usecase.BusinessUseCase
	UserUC         *usecase.UserUseCase
	Guard          *usecase.TenantGuard
	CustomerUC     *usecase.CustomerUseCase
	ProductUC      *usecase.ProductUseCase
	SaleUC         *usecase.SaleUseCase
	PurchaseUC     *usecase.PurchaseUseCase
	PaymentUC      *usecase.PaymentUseCase
	DashboardUC    *usecase.DashboardUseCase
	LedgerUC       *usecase.LedgerUseCase
	NoteUC         *usecase.NoteUseCase
	NotificationUC *usecase.NotificationUseCase
	ActivityLogUC  *usecase.ActivityLogUseCase
	SettingsUC     *usecase.SettingsUseCase
	OTP            *otp.Service
	Documents      *document.Service
	Excel          *excel.Service
	Chatbot        *chatbot.Service

	Logger           *logger.Logger
	Metrics          *Metrics // nil desactiva /metrics
	JWTSecret        string
	Security         SecurityConfig
	UploadDir        string
	MaxUploadBytes   int64
	ChatbotPerMinute int
	ServiceName      string
}

// NewApp crea la app Fiber con el ErrorHandler central. dev expone el detalle de los 500.
func NewApp(name string, dev bool, maxUploadBytes int64) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: NewErrorHandler(dev),
		BodyLimit:    int(maxUploadBytes) + 1<<20,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
}

// Router registra middleware global y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	v := NewValidator()

	app.Use(requestid.New())
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	app.Use(RequestLogger(log))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(CORS(deps.Security))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}
	if deps.UploadDir != "" {
		app.Get("/uploads/*", Uploads(deps.UploadDir))
	}

	sec := deps.Security.withDefaults()
	api := app.Group("/api", RateLimit(sec.Max, sec.Window, sec.Storage), CSRF(sec))
	authLimit := RateLimit(sec.AuthMax, sec.AuthWindow, sec.Storage)
	authMW := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleSalesViewer)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, v, sec.CookieSecure, deps.MaxUploadBytes)
	api.Get("/auth/csrf", CSRFToken)
	api.Post("/auth/signup", authLimit, authHandler.Signup)
	api.Post("/auth/login", authLimit, authHandler.Login)
	api.Post("/auth/refresh", authLimit, authHandler.Refresh)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/me", authMW, authHandler.Me)
	api.Put("/auth/me", authMW, authHandler.UpdateMe)
	api.Put("/auth/me/password", authMW, authHandler.ChangePassword)
	api.Post("/auth/me/avatar", authMW, authHandler.UploadAvatar)

	// OTP (público, mismo límite estricto que auth)
	otpHandler := NewOTPHandler(deps.OTP, v)
	api.Post("/otp/send", authLimit, otpHandler.Send)
	api.Post("/otp/verify", authLimit, otpHandler.Verify)

	// Notificaciones del usuario
	notificationHandler := NewNotificationHandler(deps.NotificationUC, v)
	notifications := api.Group("/notifications", authMW, anyRole)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	settingsHandler := NewSettingsHandler(deps.SettingsUC, v, sec.CookieSecure)
	api.Delete("/settings/account", authMW, adminOnly, settingsHandler.DeleteAccount)

	// Negocios del admin. Rutas sueltas: un Group("/businesses", adminOnly) también
	// cubriría /businesses/:businessId/* y dejaría fuera al sales_viewer.
	businessHandler := NewBusinessHandler(deps.BusinessUC, v)
	api.Get("/businesses", authMW, adminOnly, businessHandler.List)
	api.Post("/businesses", authMW, adminOnly, businessHandler.Create)
	api.Get("/businesses/:id", authMW, adminOnly, businessHandler.Get)
	api.Put("/businesses/:id", authMW, adminOnly, businessHandler.Update)
	api.Delete("/businesses/:id", authMW, adminOnly, businessHandler.Delete)

	// Rutas por negocio: auth + tenant guard (404 ERR_BIZ_001 si no hay acceso).
	biz := api.Group("/businesses/:businessId", authMW, RequireBusiness(deps.Guard))

	// Ventas: el sales_viewer solo lista, consulta, firma y descarga el 거래명세서.
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Documents, v, deps.MaxUploadBytes)
	sales := biz.Group("/sales")
	sales.Get("/", anyRole, saleHandler.List)
	sales.Post("/", adminOnly, saleHandler.Create)
	sales.Get("/:id", anyRole, saleHandler.Get)
	sales.Put("/:id", adminOnly, saleHandler.Update)
	sales.Delete("/:id", adminOnly, saleHandler.Delete)
	sales.Post("/:id/sign", anyRole, saleHandler.Sign)
	sales.Get("/:id/statement.pdf", anyRole, saleHandler.Statement)
	sales.Get("/:id/tax-invoice.xml", adminOnly, saleHandler.TaxInvoice)

	customerHandler := NewCustomerHandler(deps.CustomerUC, v)
	customers := biz.Group("/customers", adminOnly)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC, v)
	products := biz.Group("/products", adminOnly)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, v)
	purchases := biz.Group("/purchases", adminOnly)
	purchases.Get("/", purchaseHandler.List)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.Get)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)

	paymentHandler := NewPaymentHandler(deps.PaymentUC, v)
	payments := biz.Group("/payments", adminOnly)
	payments.Get("/", paymentHandler.List)
	payments.Post("/", paymentHandler.Create)
	payments.Get("/:id", paymentHandler.Get)
	payments.Put("/:id", paymentHandler.Update)
	payments.Delete("/:id", paymentHandler.Delete)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.LedgerUC)
	biz.Get("/dashboard", adminOnly, dashboardHandler.Summary)
	biz.Get("/ledger", adminOnly, dashboardHandler.Balances)
	biz.Get("/ledger/customers/:customerId", adminOnly, dashboardHandler.CustomerLedger)

	settings := biz.Group("/settings", adminOnly)
	settings.Get("/", settingsHandler.Get)
	settings.Put("/", settingsHandler.Update)
	settings.Post("/reset", settingsHandler.Reset)

	userHandler := NewUserHandler(deps.UserUC, v)
	users := biz.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	noteHandler := NewNoteHandler(deps.NoteUC, v)
	notes := biz.Group("/notes", adminOnly)
	notes.Get("/", noteHandler.List)
	notes.Post("/", noteHandler.Create)
	notes.Get("/:id", noteHandler.Get)
	notes.Put("/:id", noteHandler.Update)
	notes.Delete("/:id", noteHandler.Delete)

	activityHandler := NewActivityLogHandler(deps.ActivityLogUC, v)
	biz.Get("/activity-logs", adminOnly, activityHandler.List)

	excelHandler := NewExcelHandler(deps.Excel, deps.MaxUploadBytes)
	excelGroup := biz.Group("/excel", adminOnly)
	excelGroup.Get("/template/:kind", excelHandler.Template)
	excelGroup.Get("/export/:kind", excelHandler.Export)
	excelGroup.Post("/upload/:kind", excelHandler.Upload)

	perMinute := deps.ChatbotPerMinute
	if perMinute <= 0 {
		perMinute = 20
	}
	chatbotHandler := NewChatbotHandler(deps.Chatbot, v, deps.Metrics)
	biz.Post("/chatbot/message", adminOnly, NewUserRateLimiter(perMinute, perMinute/4+1).Middleware(), chatbotHandler.Message)
}
