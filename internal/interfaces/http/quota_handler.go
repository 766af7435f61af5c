package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
)

// CuotaHandler expone el consumo de cuota y la pre-validación de creación.
type CuotaHandler struct {
	uc *usecase.CuotaUseCase
}

// NewCuotaHandler construye el handler.
func NewCuotaHandler(uc *usecase.CuotaUseCase) *CuotaHandler {
	return &CuotaHandler{uc: uc}
}

// Uso godoc
// @Summary      Consumo actual del kiosco contra su plan
// @Tags         cuotas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UsoResponse
// @Router       /api/cuotas/uso [get]
func (h *CuotaHandler) Uso(c *fiber.Ctx) error {
	tc, _ := TenantFromCtx(c) // RequireKiosco ya corrió
	out, err := h.uc.Uso(c.Context(), tc.KioscoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "kiosco o plan no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Validar godoc
// @Summary      Pre-validar si se puede crear un recurso sin exceder cuota
// @Tags         cuotas
// @Security     Bearer
// @Produce      json
// @Param        tipo  path  string  true  "PRODUCTOS | USUARIOS | VENTAS"
// @Success      204
// @Failure      402   {object}  dto.CuotaExcedidaResponse
// @Router       /api/cuotas/validar/{tipo} [get]
func (h *CuotaHandler) Validar(c *fiber.Ctx) error {
	tc, _ := TenantFromCtx(c)
	tipo := entity.TipoLimite(c.Params("tipo"))
	err := h.uc.ValidateCanCreate(c.Context(), tipo, tc.KioscoID)
	if err == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return ResponderErrorCuota(c, err)
}

// ResponderErrorCuota mapea un error de cuota al 402 estructurado; cualquier
// otro error va como 500/400. Lo usan también los handlers de creación.
func ResponderErrorCuota(c *fiber.Ctx, err error) error {
	var cuota *domain.CuotaExcedidaError
	switch {
	case errors.As(err, &cuota):
		quotaRejections.WithLabelValues(cuota.Tipo).Inc()
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.CuotaExcedidaResponse{
			Code:     "QUOTA_EXCEEDED",
			Message:  cuota.Error(),
			Tipo:     cuota.Tipo,
			Actual:   cuota.Actual,
			Limite:   cuota.Limite,
			PlanName: cuota.PlanName,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de límite desconocido"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "kiosco o plan no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
