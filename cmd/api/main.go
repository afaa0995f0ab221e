package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-ledger/internal/application/finance"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/pricing"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/drivers"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/internal/scheduler"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, closeStore, err := drivers.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("conexión al almacén de documentos")
	}
	defer closeStore()

	coordinator := inventory.NewTransactionCoordinator(store, log)
	queryUC := inventory.NewQueryUseCase(store)
	reconciliationUC := inventory.NewReconciliationUseCase(store, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(store)
	replenishmentPDFUC := inventory.NewReplenishmentPDFUseCase(replenishmentUC, pdf.NewMarotoPDFGenerator(cfg.App.Name, cfg.App.Currency))
	priceEngine := pricing.NewBulkPriceEngine(store, log)
	financeUC := finance.NewUseCase(store)

	var sched *scheduler.Scheduler
	if cfg.Audit.Cron != "" {
		sched = scheduler.NewScheduler(cfg.Audit.Cron, reconciliationUC, replenishmentUC, log)
		sinks, closeSinks := auditSinks(cfg.Audit, log)
		defer closeSinks()
		if sinks.Len() > 0 {
			sched.WithNotifier(sinks, cfg.App.Name)
		}
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("scheduler de auditoría")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	err = httpRouter.Router(app, httpRouter.RouterDeps{
		Coordinator:      coordinator,
		Query:            queryUC,
		Reconciliation:   reconciliationUC,
		Replenishment:    replenishmentUC,
		ReplenishmentPDF: replenishmentPDFUC,
		Pricing:          priceEngine,
		Finance:          financeUC,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("registro de rutas")
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
	if sched != nil {
		sched.Stop()
	}

	log.Info().Msg("aplicación detenida")
}

// auditSinks arma los destinos de las alertas de auditoría configurados en AUDIT_*.
// Un destino mal configurado se omite con un warning.
func auditSinks(cfg config.AuditConfig, log *logger.Logger) (*notify.Fanout, func()) {
	var sinks []notify.AuditNotifier
	var closers []io.Closer

	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookNotifier(cfg.WebhookURL))
	}
	if cfg.RedisURL != "" {
		n, err := notify.NewRedisNotifier(cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			log.Warn().Err(err).Msg("notificador redis omitido")
		} else {
			sinks = append(sinks, n)
			closers = append(closers, n)
		}
	}
	if len(cfg.KafkaBrokers) > 0 {
		n, err := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Warn().Err(err).Msg("notificador kafka omitido")
		} else {
			sinks = append(sinks, n)
			closers = append(closers, n)
		}
	}
	return notify.NewFanout(sinks...), func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
}
