package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/bizledger-api/pkg/logger"
)

// Nombres del token CSRF (double-submit cookie).
const (
	CSRFCookie   = "csrf_token"
	CSRFHeader   = "X-CSRF-Token"
	localCSRFKey = "csrf"
	digestHeader = "X-Content-Digest"
)

// SecurityConfig parámetros de CORS, CSRF y rate limit.
type SecurityConfig struct {
	AllowedOrigins []string
	CookieSecure   bool
	CSRFEnabled    bool
	Max            int
	Window         time.Duration
	AuthMax        int
	AuthWindow     time.Duration
	// Storage compartido del limiter (Redis); nil usa memoria del proceso.
	Storage fiber.Storage
}

func (cfg SecurityConfig) withDefaults() SecurityConfig {
	if cfg.Max <= 0 {
		cfg.Max = 300
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.AuthMax <= 0 {
		cfg.AuthMax = 10
	}
	if cfg.AuthWindow <= 0 {
		cfg.AuthWindow = 15 * time.Minute
	}
	return cfg
}

// CORS allow-list con credenciales (las cookies de sesión viajan cross-origin).
func CORS(cfg SecurityConfig) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowCredentials: len(cfg.AllowedOrigins) > 0,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization," + CSRFHeader,
		ExposeHeaders:    "Content-Disposition," + digestHeader + "," + fiber.HeaderXRequestID,
		MaxAge:           600,
	})
}

// RateLimit limitador por IP con la ventana indicada.
func RateLimit(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Security(logger.EventRateLimited).
				Str("ip", c.IP()).
				Str("path", c.Path()).
				Msg("límite de peticiones alcanzado")
			return ErrRateLimited
		},
	})
}

// CSRF double-submit cookie en métodos no seguros. Se omite si está deshabilitado o si la
// petición se autentica con Authorization: Bearer (sin cookies no hay CSRF posible).
func CSRF(cfg SecurityConfig) fiber.Handler {
	return csrf.New(csrf.Config{
		Next: func(c *fiber.Ctx) bool {
			if !cfg.CSRFEnabled {
				return true
			}
			return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderAuthorization)), "bearer ")
		},
		KeyLookup:      "header:" + CSRFHeader,
		CookieName:     CSRFCookie,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: false,
		Expiration:     12 * time.Hour,
		ContextKey:     localCSRFKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Security(logger.EventCSRFFailure).
				Str("ip", c.IP()).
				Str("path", c.Path()).
				Err(err).
				Msg("token CSRF rechazado")
			return ErrCSRF
		},
	})
}

// CSRFToken GET /api/auth/csrf devuelve el token vigente para el header X-CSRF-Token.
func CSRFToken(c *fiber.Ctx) error {
	token, _ := c.Locals(localCSRFKey).(string)
	return ok(c, fiber.Map{"csrfToken": token})
}
