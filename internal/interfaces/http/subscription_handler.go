package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
)

// SuscripcionHandler gestión de suscripciones, webhook de pagos y planes.
type SuscripcionHandler struct {
	uc       *usecase.SuscripcionUseCase
	planRepo repository.PlanRepository
}

// NewSuscripcionHandler construye el handler.
func NewSuscripcionHandler(uc *usecase.SuscripcionUseCase, planRepo repository.PlanRepository) *SuscripcionHandler {
	return &SuscripcionHandler{uc: uc, planRepo: planRepo}
}

// Actual godoc
// @Summary      Suscripción actual del kiosco del token
// @Tags         suscripciones
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuscripcionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suscripciones/actual [get]
func (h *SuscripcionHandler) Actual(c *fiber.Ctx) error {
	tc, _ := TenantFromCtx(c) // RequireKiosco ya corrió
	out, err := h.uc.Actual(c.Context(), tc.KioscoID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el kiosco no tiene suscripción"})
	}
	return c.JSON(out)
}

// Cancelar godoc
// @Summary      Cancelar la suscripción vigente del kiosco del token
// @Tags         suscripciones
// @Security     Bearer
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suscripciones/cancelar [post]
func (h *SuscripcionHandler) Cancelar(c *fiber.Ctx) error {
	tc, _ := TenantFromCtx(c)
	if err := h.uc.Cancelar(c.Context(), tc.KioscoID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay suscripción vigente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// WebhookPago godoc
// @Summary      Webhook de confirmación de pago (renueva o crea suscripción)
// @Tags         suscripciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RenovarSuscripcionRequest  true  "Pago confirmado"
// @Success      200   {object}  dto.SuscripcionResponse
// @Router       /api/webhooks/pagos [post]
func (h *SuscripcionHandler) WebhookPago(c *fiber.Ctx) error {
	var in dto.RenovarSuscripcionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Renovar(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kioscoId y planName son requeridos"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_PLAN", Message: "el plan indicado no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Planes godoc
// @Summary      Catálogo de planes
// @Tags         planes
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/planes [get]
func (h *SuscripcionHandler) Planes(c *fiber.Ctx) error {
	planes, err := h.planRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.PlanResponse, 0, len(planes))
	for _, p := range planes {
		out = append(out, toPlanResponse(p))
	}
	return c.JSON(out)
}

func toPlanResponse(p *entity.Plan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:              p.ID,
		Name:            p.Name,
		PrecioMensual:   p.PrecioMensual.StringFixed(2),
		MaxProductos:    p.MaxProductos,
		MaxUsuarios:     p.MaxUsuarios,
		MaxVentasPorMes: p.MaxVentasPorMes,
		PermiteCadenas:  p.PermiteCadenas,
	}
}
