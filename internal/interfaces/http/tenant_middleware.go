package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/pkg/logger"
)

// LocalBusiness negocio ya autorizado por RequireBusiness.
const LocalBusiness = "business"

// RequireBusiness verifica que el usuario del token pueda operar sobre :businessId.
// Debe usarse DESPUÉS de AuthMiddleware. Cualquier fallo responde 404 ERR_BIZ_001.
func RequireBusiness(guard *usecase.TenantGuard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := guard.Authorize(c.UserContext(), ActorFrom(c), c.Params("businessId"))
		if err != nil {
			if errors.Is(err, domain.ErrBusinessNotFound) {
				logger.Security(logger.EventForbidden).
					Str("user_id", GetUserID(c)).
					Str("business_id", c.Params("businessId")).
					Msg("acceso a negocio denegado")
			}
			return err
		}
		c.Locals(LocalBusiness, b)
		return c.Next()
	}
}

// GetBusinessID devuelve el id del negocio autorizado.
func GetBusinessID(c *fiber.Ctx) string {
	if b, ok := c.Locals(LocalBusiness).(*entity.Business); ok && b != nil {
		return b.ID
	}
	return ""
}
