package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/pkg/jwt"
	"github.com/jhoicas/bizledger-api/pkg/logger"
)

// Locals keys que deja AuthMiddleware en el contexto de Fiber.
const (
	LocalUserID     = "user_id"
	LocalRole       = "role"
	LocalBusinessID = "business_id"
	LocalBearer     = "auth_bearer"
)

// Nombres de las cookies de sesión.
const (
	CookieAccess  = "authToken"
	CookieRefresh = "refreshToken"
)

// AuthMiddleware valida el JWT de acceso y deja UserID, Role y BusinessID en c.Locals.
// Busca primero la cookie authToken y después el header Authorization: Bearer.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, bearer := extractToken(c)
		if token == "" {
			return ErrMissingToken
		}
		claims, err := jwt.Parse(jwtSecret, token, jwt.TokenAccess)
		if err != nil {
			logger.Security(logger.EventTokenInvalid).
				Str("ip", c.IP()).
				Str("path", c.Path()).
				Err(err).
				Msg("token rechazado")
			return ErrInvalidToken
		}
		if claims.Role == "" {
			return ErrInvalidToken
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalBusinessID, claims.BusinessID)
		c.Locals(LocalBearer, bearer)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (token string, bearer bool) {
	if v := strings.TrimSpace(c.Cookies(CookieAccess)); v != "" {
		return v, false
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1]), true
	}
	return "", false
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return ErrMissingToken
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		logger.Security(logger.EventForbidden).
			Str("user_id", GetUserID(c)).
			Str("role", role).
			Str("path", c.Path()).
			Msg("rol sin permiso")
		return domain.ErrForbidden
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetTokenBusinessID devuelve el negocio asignado en el token (solo sales_viewer).
func GetTokenBusinessID(c *fiber.Ctx) string { return localString(c, LocalBusinessID) }

// UsesBearer indica si la petición se autenticó por header y no por cookie.
func UsesBearer(c *fiber.Ctx) bool {
	b, _ := c.Locals(LocalBearer).(bool)
	return b
}

// ActorFrom arma el actor del caso de uso a partir del token.
func ActorFrom(c *fiber.Ctx) usecase.Actor {
	return usecase.Actor{
		UserID:     GetUserID(c),
		Role:       GetRole(c),
		BusinessID: GetTokenBusinessID(c),
		IP:         c.IP(),
	}
}
