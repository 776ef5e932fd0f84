package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics métricas Prometheus del API.
type Metrics struct {
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	chatbot  *prometheus.CounterVec
}

// NewMetrics registra los colectores en reg. Los tests usan un prometheus.NewRegistry() propio.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizledger",
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bizledger",
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		chatbot: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizledger",
			Name:      "chatbot_messages_total",
			Help:      "Mensajes del chatbot por intención.",
		}, []string{"intent"}),
	}
	reg.MustRegister(m.requests, m.latency, m.chatbot)
	return m
}

// Middleware cuenta peticiones por plantilla de ruta para no disparar la cardinalidad.
// Debe ir antes de RequestLogger: cuando este devuelve, el status ya es el final.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		m.requests.WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).Inc()
		m.latency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// ChatbotIntent incrementa el contador de la intención detectada.
func (m *Metrics) ChatbotIntent(intent string) {
	m.chatbot.WithLabelValues(intent).Inc()
}

// Handler expone /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
