package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contadores de las decisiones del pipeline de autorización.
var (
	authTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kioscocloud_auth_total",
		Help: "Resultados del middleware de autenticación.",
	}, []string{"outcome"}) // authenticated | anonymous | invalid | revoked

	subscriptionBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kioscocloud_subscription_blocks_total",
		Help: "Bloqueos 402 del gate de suscripción, por code.",
	}, []string{"code"})

	quotaRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kioscocloud_quota_rejections_total",
		Help: "Creaciones rechazadas por cuota de plan, por tipo de recurso.",
	}, []string{"limit_type"})
)

// MetricsHandler expone /metrics en formato Prometheus sobre Fiber.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
