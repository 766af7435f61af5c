package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/application/dto"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/pkg/token"
)

// localRawToken guarda el token crudo para poder revocarlo en el logout.
const localRawToken = "raw_token"

// revocadoChecker consulta el blacklist de tokens. Puede ser nil (sin Redis).
type revocadoChecker interface {
	EstaRevocado(ctx context.Context, tok string) (bool, error)
}

// AuthMiddleware extrae el Bearer token y, si verifica, instala el
// TenantContext de la request. Es extracción best-effort: con header ausente,
// con formato distinto de "Bearer <token>" o con token inválido/revocado la
// request sigue SIN autenticar; el 401 lo decide cada endpoint según su
// propio requisito (RequireAuth / RequireKiosco), no esta capa.
//
// Debe registrarse estrictamente ANTES del gate de suscripción: ese gate lee
// el contexto que acá se instala. El orden es un invariante de corrección.
func AuthMiddleware(tokens *token.Service, revocados revocadoChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			authTotal.WithLabelValues("anonymous").Inc()
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			authTotal.WithLabelValues("anonymous").Inc()
			return c.Next()
		}
		raw := strings.TrimSpace(parts[1])
		if raw == "" {
			authTotal.WithLabelValues("anonymous").Inc()
			return c.Next()
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			authTotal.WithLabelValues("invalid").Inc()
			return c.Next()
		}
		if revocados != nil {
			revocado, err := revocados.EstaRevocado(c.Context(), raw)
			if err == nil && revocado {
				authTotal.WithLabelValues("revoked").Inc()
				return c.Next()
			}
			// Con el blacklist caído se sigue con el token verificado: la
			// firma y la expiración ya pasaron.
		}

		SetTenantContext(c, &TenantContext{
			KioscoID:  claims.KioscoID,
			Rol:       entity.Rol(claims.KioscoRole),
			UserID:    claims.UserID,
			UserEmail: claims.Subject,
			UserName:  claims.UserName,
		})
		c.Locals(localRawToken, raw)
		authTotal.WithLabelValues("authenticated").Inc()
		return c.Next()
	}
}

// RequireAuth exige identidad (con o sin tenant). 401 si la request llegó sin
// credencial válida.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := TenantFromCtx(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "AUTH_REQUIRED", Message: "se requiere un Bearer token válido"})
		}
		return c.Next()
	}
}

// RequireKiosco exige identidad atada a un kiosco. Un token de selección de
// cuenta no alcanza para operar sobre datos de tenant.
func RequireKiosco() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tc, ok := TenantFromCtx(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "AUTH_REQUIRED", Message: "se requiere un Bearer token válido"})
		}
		if !tc.TieneKiosco() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "KIOSCO_REQUIRED", Message: "el token no está atado a un kiosco; seleccione uno"})
		}
		return c.Next()
	}
}

// RequireRol exige uno de los roles dados dentro del kiosco.
func RequireRol(roles ...entity.Rol) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tc, ok := TenantFromCtx(c)
		if !ok || !tc.TieneKiosco() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "AUTH_REQUIRED", Message: "se requiere un Bearer token con kiosco"})
		}
		for _, r := range roles {
			if tc.Rol == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol insuficiente para esta operación"})
	}
}

// RawToken devuelve el token crudo de la request (vacío si no autenticó).
func RawToken(c *fiber.Ctx) string {
	v := c.Locals(localRawToken)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
