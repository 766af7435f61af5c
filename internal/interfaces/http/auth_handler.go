package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/application/auth"
	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/domain"
	"github.com/jortega/kiosco-cloud/pkg/token"
)

// AuthHandler maneja registro, login, selección de kiosco y logout.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	tokens *token.Service
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase, tokens *token.Service) *AuthHandler {
	return &AuthHandler{uc: uc, tokens: tokens}
}

// Register godoc
// @Summary      Registrar usuario dueño con su kiosco
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos de registro"
// @Success      201   {object}  dto.LoginResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Register(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email, password y kioscoName son requeridos"})
		case errors.Is(err, domain.ErrSchemaCollision):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SCHEMA_COLLISION", Message: "colisión de namespace de tenant, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Con un solo kiosco disponible devuelve token con tenant; con varios, token de selección; sin ninguno, 403 con los motivos.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.KioscosNoDisponiblesResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		var sinKioscos *domain.SinKioscosDisponiblesError
		switch {
		case errors.As(err, &sinKioscos):
			kioscos := make([]dto.KioscoNoDisponible, 0, len(sinKioscos.Kioscos))
			for _, k := range sinKioscos.Kioscos {
				kioscos = append(kioscos, dto.KioscoNoDisponible{KioscoName: k.KioscoName, Motivo: k.Motivo})
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.KioscosNoDisponiblesResponse{
				Code:    "NO_AVAILABLE_KIOSCOS",
				Message: "ningún kiosco disponible para este usuario",
				Kioscos: kioscos,
			})
		case errors.Is(err, domain.ErrSeleccionInvalida):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INVALID_KIOSCO_SELECTION", Message: "el kiosco seleccionado no está disponible"})
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "credenciales inválidas"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "usuario inhabilitado o sin membresías"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SeleccionarKiosco godoc
// @Summary      Canjear token de selección por token con kiosco
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SeleccionarKioscoRequest  true  "Kiosco elegido"
// @Success      200   {object}  dto.LoginResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/seleccionar [post]
func (h *AuthHandler) SeleccionarKiosco(c *fiber.Ctx) error {
	tc, ok := TenantFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "AUTH_REQUIRED", Message: "se requiere un token de selección válido"})
	}
	var in dto.SeleccionarKioscoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	claims := &token.Claims{UserID: tc.UserID, UserName: tc.UserName}
	claims.Subject = tc.UserEmail
	out, err := h.uc.SeleccionarKiosco(c.Context(), claims, in.KioscoID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeleccionInvalida):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INVALID_KIOSCO_SELECTION", Message: "el kiosco seleccionado no está disponible"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kioscoId es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token presentado)
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	raw := RawToken(c)
	if raw == "" {
		return c.SendStatus(fiber.StatusNoContent) // nada que revocar
	}
	claims, err := h.tokens.Verify(raw)
	if err != nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err := h.uc.Logout(c.Context(), raw, claims); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOGOUT_FAILED", Message: "no se pudo revocar el token"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
