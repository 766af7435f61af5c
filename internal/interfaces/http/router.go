package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jortega/kiosco-cloud/internal/application/auth"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/domain/entity"
	"github.com/jortega/kiosco-cloud/internal/domain/repository"
	"github.com/jortega/kiosco-cloud/pkg/token"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	KioscoUC   *usecase.KioscoUseCase
	SuscriUC   *usecase.SuscripcionUseCase
	CuotaUC    *usecase.CuotaUseCase
	CadenaUC   *usecase.CadenaUseCase
	PlanRepo   repository.PlanRepository
	Tokens     *token.Service
	Blacklist  revocadoChecker // nil = sin revocación
	RenewURL   string
}

// Router registra middlewares y rutas. El orden de los middlewares es un
// invariante: autenticación primero (instala el TenantContext), gate de
// suscripción después (lo lee). Todo lo demás corre detrás de ambos.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(AuthMiddleware(deps.Tokens, deps.Blacklist))
	app.Use(SubscriptionGate(deps.SuscriUC, deps.RenewURL))

	api := app.Group("/api")

	// Auth (público; seleccionar y logout requieren token)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Tokens)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/seleccionar", RequireAuth(), authHandler.SeleccionarKiosco)
	authGroup.Post("/logout", authHandler.Logout)

	// Suscripciones y planes (exentos del gate para poder renovar)
	susHandler := NewSuscripcionHandler(deps.SuscriUC, deps.PlanRepo)
	sus := api.Group("/suscripciones")
	sus.Get("/actual", RequireKiosco(), susHandler.Actual)
	sus.Post("/cancelar", RequireKiosco(), RequireRol(entity.RolOwner), susHandler.Cancelar)
	api.Get("/planes", susHandler.Planes)

	// Webhook de pagos (público: lo llama la pasarela, no un usuario)
	api.Post("/webhooks/pagos", susHandler.WebhookPago)

	// Cuotas (protegido, sujeto al gate de suscripción)
	cuotaHandler := NewCuotaHandler(deps.CuotaUC)
	cuotas := api.Group("/cuotas", RequireKiosco())
	cuotas.Get("/uso", cuotaHandler.Uso)
	cuotas.Get("/validar/:tipo", cuotaHandler.Validar)

	// Cadenas (protegido; requiere identidad, no necesariamente tenant)
	cadenaHandler := NewCadenaHandler(deps.CadenaUC)
	cadenas := api.Group("/cadenas", RequireAuth())
	cadenas.Post("/", cadenaHandler.Create)
	cadenas.Post("/:id/miembros", cadenaHandler.AgregarMiembro)
	cadenas.Get("/:id/kioscos", cadenaHandler.KioscosVisibles)

	// Administración de kioscos (exenta del gate; owner/admin del tenant)
	kioscoHandler := NewKioscoHandler(deps.KioscoUC)
	admin := api.Group("/admin", RequireAuth())
	admin.Post("/kioscos", kioscoHandler.Create)
	admin.Get("/kioscos", kioscoHandler.List)
	admin.Get("/kioscos/:id", kioscoHandler.GetByID)
	admin.Post("/kioscos/:id/usuarios", kioscoHandler.AgregarUsuario)
	admin.Delete("/kioscos/:id", kioscoHandler.Desactivar)
}
