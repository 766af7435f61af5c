package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jortega/kiosco-cloud/internal/application/auth"
	"github.com/jortega/kiosco-cloud/internal/application/usecase"
	"github.com/jortega/kiosco-cloud/internal/infrastructure/postgres"
	httpRouter "github.com/jortega/kiosco-cloud/internal/interfaces/http"
	"github.com/jortega/kiosco-cloud/pkg/blacklist"
	"github.com/jortega/kiosco-cloud/pkg/config"
	"github.com/jortega/kiosco-cloud/pkg/logger"
	"github.com/jortega/kiosco-cloud/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tokens, err := token.New(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("servicio de tokens")
	}

	// Blacklist de tokens revocados (logout). Sin Redis configurado, el
	// logout queda como no-op y los tokens solo caducan por TTL.
	var revocados *blacklist.TokenBlacklist
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		revocados = blacklist.New(rdb)
	}

	userRepo := postgres.NewUserRepository(pool)
	memberRepo := postgres.NewMembershipRepository(pool)
	kioscoRepo := postgres.NewKioscoRepository(pool)
	susRepo := postgres.NewSuscripcionRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	cadenaRepo := postgres.NewCadenaRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	kioscoUC := usecase.NewKioscoUseCase(kioscoRepo, planRepo, susRepo, userRepo, txRunner)
	suscriUC := usecase.NewSuscripcionUseCase(susRepo, planRepo, log)
	cuotaUC := usecase.NewCuotaUseCase(kioscoRepo, planRepo, usageRepo)
	cadenaUC := usecase.NewCadenaUseCase(cadenaRepo, kioscoRepo)
	var revocador auth.Revocador
	if revocados != nil {
		revocador = revocados
	}
	authUC := auth.NewAuthUseCase(userRepo, memberRepo, kioscoRepo, susRepo, kioscoUC, tokens, revocador)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kiosco Cloud API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", httpRouter.MetricsHandler())

	deps := httpRouter.RouterDeps{
		AuthUC:   authUC,
		KioscoUC: kioscoUC,
		SuscriUC: suscriUC,
		CuotaUC:  cuotaUC,
		CadenaUC: cadenaUC,
		PlanRepo: planRepo,
		Tokens:   tokens,
		RenewURL: cfg.HTTP.RenewURL,
	}
	if revocados != nil {
		deps.Blacklist = revocados
	}
	httpRouter.Router(app, deps)

	// Barrido periódico: pasa a VENCIDA las suscripciones cuya fecha de fin
	// ya pasó, para que el gate no dependa solo de la comparación en caliente.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if iv := cfg.Suscri.SweepInterval(); iv > 0 {
		go func() {
			ticker := time.NewTicker(iv)
			defer ticker.Stop()
			for {
				select {
				case <-sweepCtx.Done():
					return
				case <-ticker.C:
					suscriUC.Sweep(sweepCtx)
				}
			}
		}()
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
