// @title        BizLedger API
// @version      1.0
// @description  Ventas, compras, cobros y libro de clientes para pequeños negocios en Corea.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in           header
// @name         Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/bizledger-api/docs"
	"github.com/jhoicas/bizledger-api/internal/application/auth"
	"github.com/jhoicas/bizledger-api/internal/application/chatbot"
	"github.com/jhoicas/bizledger-api/internal/application/document"
	"github.com/jhoicas/bizledger-api/internal/application/excel"
	"github.com/jhoicas/bizledger-api/internal/application/otp"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	infraai "github.com/jhoicas/bizledger-api/internal/infrastructure/ai"
	infraexcel "github.com/jhoicas/bizledger-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/bizledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/sms"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/storage"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/taxinvoice"
	httpRouter "github.com/jhoicas/bizledger-api/internal/interfaces/http"
	"github.com/jhoicas/bizledger-api/pkg/config"
	"github.com/jhoicas/bizledger-api/pkg/logger"
	pkgredis "github.com/jhoicas/bizledger-api/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	level := "info"
	if cfg.App.IsDevelopment() {
		level = "debug"
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	repos := postgres.NewRepositories(pool)
	txRunner := postgres.NewTxRunner(pool)

	files, err := storage.NewLocalStorage(cfg.Upload.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de subidas")
	}

	// Redis es opcional: sin él las sesiones de refresh no se revocan y el limiter es por proceso.
	var (
		redisClient *pkgredis.Client
		authOpts    = []auth.Option{auth.WithStorage(files)}
		security    = httpRouter.SecurityConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			CookieSecure:   cfg.HTTP.CookieSecure,
			CSRFEnabled:    cfg.HTTP.CSRFEnabled,
			Max:            cfg.RateLimit.Max,
			Window:         time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			AuthMax:        cfg.RateLimit.AuthMax,
			AuthWindow:     time.Duration(cfg.RateLimit.AuthWindowSeconds) * time.Second,
		}
	)
	if cfg.Redis.URL != "" {
		redisClient, err = pkgredis.New(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		authOpts = append(authOpts, auth.WithSessions(pkgredis.NewSessionStore(redisClient)))
		security.Storage = pkgredis.NewStorage(redisClient, "limiter:")
		log.Info().Msg("redis habilitado para sesiones y rate limit")
	}

	var messenger ports.MessageSender = sms.LogSender{}
	if cfg.SMS.APIKey != "" {
		messenger = sms.NewAlimtalkSender(cfg.SMS)
	} else {
		log.Warn().Msg("SMS_API_KEY vacío: los mensajes solo se registran en el log")
	}
	authOpts = append(authOpts, auth.WithMessenger(messenger))

	activityUC := usecase.NewActivityLogUseCase(repos.ActivityLogs)
	notificationUC := usecase.NewNotificationUseCase(repos.Notifications)
	guard := usecase.NewTenantGuard(repos.Businesses, repos.Users)
	customerUC := usecase.NewCustomerUseCase(repos.Customers, activityUC)
	productUC := usecase.NewProductUseCase(repos.Products, repos.Settings, activityUC)
	saleUC := usecase.NewSaleUseCase(repos, txRunner, files, messenger, notificationUC)
	purchaseUC := usecase.NewPurchaseUseCase(repos, txRunner)
	paymentUC := usecase.NewPaymentUseCase(repos.Payments, repos.Customers, activityUC)
	dashboardUC := usecase.NewDashboardUseCase(repos.Reports)
	ledgerUC := usecase.NewLedgerUseCase(repos.Reports, repos.Customers)

	authUC := auth.NewAuthUseCase(repos, txRunner, auth.TokenConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     time.Duration(cfg.JWT.Expiration) * time.Minute,
		RefreshTTL:    time.Duration(cfg.JWT.RefreshExpiration) * time.Hour,
		Issuer:        cfg.JWT.Issuer,
	}, notificationUC, authOpts...)

	// Documentos: 거래명세서 en PDF y 세금계산서 en XML canónico.
	pdfOpts := []infrapdf.Option{infrapdf.WithViewURL(cfg.HTTP.FrontendURL)}
	if cfg.PDF.FontPath != "" {
		pdfOpts = append(pdfOpts, infrapdf.WithKoreanFont(cfg.PDF.FontPath, cfg.PDF.BoldFontPath))
	} else {
		log.Warn().Msg("PDF_FONT_PATH vacío: el 거래명세서 no mostrará hangul")
	}
	documents := document.NewService(repos, infrapdf.NewStatementRenderer(pdfOpts...), taxinvoice.NewBuilder())

	excelSvc := excel.NewService(infraexcel.NewSheet(), customerUC, productUC, saleUC, purchaseUC, activityUC, notificationUC)

	extractor := newExtractor(cfg.AI)
	if extractor == nil {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("chatbot sin LLM: solo extractor por reglas")
	}
	chatbotSvc := chatbot.NewService(chatbot.Deps{
		Customers: customerUC,
		Products:  productUC,
		Sales:     saleUC,
		Purchases: purchaseUC,
		Payments:  paymentUC,
		Dashboard: dashboardUC,
		Ledger:    ledgerUC,
	}, extractor, infraai.NewRuleExtractor(), time.Duration(cfg.AI.TimeoutSeconds)*time.Second)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	maxUpload := int64(cfg.Upload.MaxMB) << 20
	app := httpRouter.NewApp(cfg.App.Name, cfg.App.IsDevelopment(), maxUpload)

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "BizLedger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		BusinessUC:       usecase.NewBusinessUseCase(repos.Businesses, guard, activityUC),
		UserUC:           usecase.NewUserUseCase(repos.Users, activityUC),
		Guard:            guard,
		CustomerUC:       customerUC,
		ProductUC:        productUC,
		SaleUC:           saleUC,
		PurchaseUC:       purchaseUC,
		PaymentUC:        paymentUC,
		DashboardUC:      dashboardUC,
		LedgerUC:         ledgerUC,
		NoteUC:           usecase.NewNoteUseCase(repos.Notes, activityUC),
		NotificationUC:   notificationUC,
		ActivityLogUC:    activityUC,
		SettingsUC:       usecase.NewSettingsUseCase(repos, txRunner, activityUC),
		OTP:              otp.NewService(repos.OTPs, messenger, cfg.Session.Secret),
		Documents:        documents,
		Excel:            excelSvc,
		Chatbot:          chatbotSvc,
		Logger:           log,
		Metrics:          httpRouter.NewMetrics(registry),
		JWTSecret:        cfg.JWT.Secret,
		Security:         security,
		UploadDir:        files.Root(),
		MaxUploadBytes:   maxUpload,
		ChatbotPerMinute: cfg.RateLimit.ChatbotPerMinute,
		ServiceName:      cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newExtractor elige el LLM del chatbot; nil si el proveedor es "rule" o falta la API key.
func newExtractor(cfg config.AIConfig) ports.TransactionExtractor {
	switch cfg.Provider {
	case config.AIProviderGemini:
		if cfg.GeminiAPIKey != "" {
			return infraai.NewGeminiExtractor(cfg.GeminiAPIKey, cfg.GeminiModel)
		}
	case config.AIProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			return infraai.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		}
	case config.AIProviderAnthropic:
		if cfg.AnthropicAPIKey != "" {
			return infraai.NewAnthropicExtractor(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		}
	}
	return nil
}
