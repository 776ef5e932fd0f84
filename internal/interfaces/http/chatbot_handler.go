package http

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/bizledger-api/internal/application/chatbot"
	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/pkg/logger"
)

// ChatbotHandler mensajes del chatbot de un negocio.
type ChatbotHandler struct {
	svc     *chatbot.Service
	v       *Validator
	metrics *Metrics
}

// NewChatbotHandler construye el handler; metrics puede ser nil.
func NewChatbotHandler(svc *chatbot.Service, v *Validator, metrics *Metrics) *ChatbotHandler {
	return &ChatbotHandler{svc: svc, v: v, metrics: metrics}
}

// Message godoc
// @Summary      Enviar mensaje al chatbot
// @Description  Registra ventas, compras y pagos escritos en lenguaje natural o responde consultas.
// @Description  Con dryRun=true los borradores se devuelven como preview sin guardar.
// @Tags         chatbot
// @Accept       json
// @Produce      json
// @Param        businessId  path  string              true  "negocio"
// @Param        body        body  dto.ChatbotRequest  true  "mensaje"
// @Success      200  {object}  dto.Response
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/businesses/{businessId}/chatbot/message [post]
func (h *ChatbotHandler) Message(c *fiber.Ctx) error {
	var in dto.ChatbotRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.svc.Handle(c.UserContext(), ActorFrom(c), GetBusinessID(c), in)
	if err != nil {
		return err
	}
	if h.metrics != nil {
		h.metrics.ChatbotIntent(out.Intent)
	}
	return ok(c, out)
}

// UserRateLimiter token bucket por usuario (golang.org/x/time/rate). Debe ir después de AuthMiddleware.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

// NewUserRateLimiter permite perMinute peticiones por minuto con ráfaga de burst.
func NewUserRateLimiter(perMinute, burst int) *UserRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &UserRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(float64(perMinute) / 60),
		burst:    burst,
	}
}

func (l *UserRateLimiter) limiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, exists := l.limiters[userID]
	if !exists {
		lim = rate.NewLimiter(l.r, l.burst)
		l.limiters[userID] = lim
	}
	return lim
}

// Middleware rechaza con 429 ERR_RATE_001 cuando el usuario agota su cupo.
func (l *UserRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return ErrMissingToken
		}
		if !l.limiter(userID).Allow() {
			logger.Security(logger.EventRateLimited).
				Str("user_id", userID).
				Str("path", c.Path()).
				Msg("límite del chatbot alcanzado")
			return ErrRateLimited
		}
		return c.Next()
	}
}
