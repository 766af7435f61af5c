package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain"
)

// CadenaHandler gestión de cadenas y visibilidad entre kioscos.
type CadenaHandler struct {
	uc *usecase.CadenaUseCase
}

// NewCadenaHandler construye el handler.
func NewCadenaHandler(uc *usecase.CadenaUseCase) *CadenaHandler {
	return &CadenaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cadena (el creador queda como owner)
// @Tags         cadenas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCadenaRequest  true  "Datos de la cadena"
// @Success      201   {object}  dto.CadenaResponse
// @Router       /api/cadenas [post]
func (h *CadenaHandler) Create(c *fiber.Ctx) error {
	tc, _ := TenantFromCtx(c) // RequireAuth ya corrió
	var in dto.CreateCadenaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), tc.UserID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AgregarMiembro godoc
// @Summary      Agregar miembro a la cadena
// @Tags         cadenas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cadena"
// @Param        body  body  dto.AgregarMiembroRequest  true  "Miembro"
// @Success      201   {object}  dto.MiembroCadenaResponse
// @Router       /api/cadenas/{id}/miembros [post]
func (h *CadenaHandler) AgregarMiembro(c *fiber.Ctx) error {
	var in dto.AgregarMiembroRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AgregarMiembro(c.Context(), c.Params("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rol inválido"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cadena no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// KioscosVisibles godoc
// @Summary      Kioscos de la cadena visibles para el usuario del token
// @Tags         cadenas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cadena"
// @Success      200  {array}  dto.KioscoResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/cadenas/{id}/kioscos [get]
func (h *CadenaHandler) KioscosVisibles(c *fiber.Ctx) error {
	tc, _ := TenantFromCtx(c)
	out, err := h.uc.KioscosVisibles(c.Context(), c.Params("id"), tc.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no es miembro de esta cadena"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
