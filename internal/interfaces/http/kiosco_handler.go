package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain"
)

// KioscoHandler maneja las peticiones HTTP de kioscos (admin).
type KioscoHandler struct {
	uc *usecase.KioscoUseCase
}

// NewKioscoHandler construye el handler.
func NewKioscoHandler(uc *usecase.KioscoUseCase) *KioscoHandler {
	return &KioscoHandler{uc: uc}
}

// Create godoc
// @Summary      Crear kiosco
// @Tags         kioscos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateKioscoRequest  true  "Datos del kiosco"
// @Success      201   {object}  dto.KioscoResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/kioscos [post]
func (h *KioscoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateKioscoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_PLAN", Message: "el plan indicado no existe"})
		case errors.Is(err, domain.ErrSchemaCollision):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SCHEMA_COLLISION", Message: "colisión de namespace de tenant, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener kiosco por ID
// @Tags         kioscos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del kiosco"
// @Success      200  {object}  dto.KioscoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/kioscos/{id} [get]
func (h *KioscoHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "kiosco no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar kioscos
// @Tags         kioscos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.KioscoResponse
// @Router       /api/admin/kioscos [get]
func (h *KioscoHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// AgregarUsuario godoc
// @Summary      Agregar un usuario existente al kiosco
// @Tags         kioscos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del kiosco"
// @Param        body  body  dto.AgregarUsuarioRequest  true  "Email y rol"
// @Success      201   {object}  dto.MembershipResponse
// @Failure      402   {object}  dto.CuotaExcedidaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/kioscos/{id}/usuarios [post]
func (h *KioscoHandler) AgregarUsuario(c *fiber.Ctx) error {
	var in dto.AgregarUsuarioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AgregarUsuario(c.Context(), c.Params("id"), in)
	if err != nil {
		var cuota *domain.CuotaExcedidaError
		switch {
		case errors.As(err, &cuota):
			return ResponderErrorCuota(c, cuota)
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rol inválido"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "no existe un usuario con ese email"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "kiosco no encontrado"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_MEMBER", Message: "el usuario ya pertenece al kiosco"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Desactivar godoc
// @Summary      Desactivar kiosco (no lo borra)
// @Tags         kioscos
// @Security     Bearer
// @Param        id   path  string  true  "ID del kiosco"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/kioscos/{id} [delete]
func (h *KioscoHandler) Desactivar(c *fiber.Ctx) error {
	if err := h.uc.Desactivar(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "kiosco no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
