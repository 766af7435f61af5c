package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/domain/entity"
)

// localTenantCtx es la clave única bajo la que viaja el contexto de tenant en
// los Locals de Fiber. Fiber descarta los Locals al terminar cada request en
// todos los caminos de salida (respuesta normal, error o panic recuperado),
// así el reuso de workers no puede filtrar el contexto de un tenant al
// request siguiente.
const localTenantCtx = "tenant_ctx"

// TenantContext es la identidad resuelta de la request: quién llama y sobre
// qué kiosco. Se escribe una sola vez a la entrada (middleware de auth) y de
// ahí en adelante es de solo lectura.
//
// KioscoID vacío significa "autenticado sin tenant": un token de selección
// de cuenta. Rol presente si y solo si KioscoID presente.
type TenantContext struct {
	KioscoID  string
	Rol       entity.Rol
	UserID    string
	UserEmail string
	UserName  string
}

// TieneKiosco informa si la request quedó atada a un tenant.
func (t *TenantContext) TieneKiosco() bool {
	return t.KioscoID != ""
}

// SetTenantContext instala el contexto en la request. Solo debe llamarlo el
// middleware de auth, a la entrada del pipeline.
func SetTenantContext(c *fiber.Ctx, tc *TenantContext) {
	c.Locals(localTenantCtx, tc)
}

// TenantFromCtx devuelve el contexto de la request y si existe. Antes del
// middleware de auth, o con credencial ausente/inválida, devuelve (nil,
// false): ausencia explícita, nunca un tenant por defecto.
func TenantFromCtx(c *fiber.Ctx) (*TenantContext, bool) {
	v := c.Locals(localTenantCtx)
	if v == nil {
		return nil, false
	}
	tc, ok := v.(*TenantContext)
	if !ok || tc == nil {
		return nil, false
	}
	return tc, true
}
