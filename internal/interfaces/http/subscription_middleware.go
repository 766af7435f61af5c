package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
)

// PrefijosExentos son las rutas que el gate de suscripción nunca bloquea,
// en cualquier estado: autenticación, webhook de pagos, health check,
// administración, gestión de suscripciones (para poder renovar) y catálogo
// de planes. La comprobación de exención ocurre antes de consultar estado.
var PrefijosExentos = []string{
	"/api/auth",
	"/api/webhooks/pagos",
	"/health",
	"/api/admin",
	"/api/suscripciones",
	"/api/planes",
}

// suscripcionChecker es el contrato mínimo del gate (lo implementa
// *usecase.SuscripcionUseCase; la interfaz evita el acople directo).
type suscripcionChecker interface {
	EstadoPara(ctx context.Context, kioscoID string) (usecase.EstadoGate, error)
}

// SubscriptionGate bloquea con 402 las requests de kioscos sin suscripción
// vigente. Debe registrarse DESPUÉS de AuthMiddleware: lee el TenantContext.
//
// Una request sin tenant (anónima o con token de selección de cuenta) pasa
// sin bloqueo: eso lo gobierna la autenticación, no la suscripción.
func SubscriptionGate(checker suscripcionChecker, renewURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, prefijo := range PrefijosExentos {
			if strings.HasPrefix(path, prefijo) {
				return c.Next()
			}
		}

		tc, ok := TenantFromCtx(c)
		if !ok || !tc.TieneKiosco() {
			return c.Next()
		}

		estado, err := checker.EstadoPara(c.Context(), tc.KioscoID)
		if err != nil {
			// Fallo de infraestructura, no un estado de negocio: 503.
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SUBSCRIPTION_CHECK_FAILED",
				Message: "no se pudo verificar la suscripción, intente más tarde",
			})
		}
		if estado.Permitido {
			return c.Next()
		}

		subscriptionBlocks.WithLabelValues(estado.Code).Inc()
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.SubscriptionRequiredResponse{
			Error:    "Subscription Required",
			Message:  mensajeBloqueo(estado.Code),
			Code:     estado.Code,
			RenewURL: renewURL,
			Status:   fiber.StatusPaymentRequired,
		})
	}
}

func mensajeBloqueo(code string) string {
	switch code {
	case usecase.CodeSuscripcionCancelada:
		return "la suscripción del kiosco fue cancelada; contrate un plan para continuar"
	case usecase.CodeSinSuscripcion:
		return "el kiosco no tiene suscripción; contrate un plan para continuar"
	default:
		return "la suscripción del kiosco está vencida; renuévela para continuar"
	}
}
