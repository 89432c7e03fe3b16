package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/backoffice-api/docs"
	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/application/syncdelta"
	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/application/usecase"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/backoffice-api/internal/infrastructure/pdf"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/jhoicas/backoffice-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("backoffice", reg)

	ctx := context.Background()

	// Persistencia: PostgreSQL en producción, memoria para demos locales.
	var (
		repos repository.Registry
		tx    ports.TxRunner
	)
	switch cfg.Storage.Driver {
	case "memory":
		st := memory.New()
		repos, tx = st.Registry(), st
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Storage.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		repos, tx = postgres.NewRegistry(pool), postgres.NewTxRunner(pool)
	}

	accessSvc := access.NewService(repos.RolePermissions(), tx, log)
	gate := access.NewGate(accessSvc, log, m)
	resolver := auth.NewResolver(jwt.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer), repos.Employees(), log, m)
	authUC := auth.NewAuthUseCase(repos, tx, accessSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	deps := usecase.Deps{
		Tx:      tx,
		Repos:   repos,
		Log:     log,
		Metrics: m,
		Policy:  upsert.ParsePolicy(cfg.Sync.ReferencePolicy),
	}
	invoiceUC := usecase.NewInvoiceUseCase(deps)
	invoicePDFUC := billing.NewPDFUseCase(repos, infrapdf.NewMarotoPDFGenerator("es"))
	engine := syncdelta.NewEngine(tx, accessSvc, log, m, syncdelta.WithWatermarkLag(cfg.Sync.WatermarkLag))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderAuthToken,
	}))
	app.Use(httpRouter.Observe(m, log))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Backoffice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Resolver:   resolver,
		Gate:       gate,
		Access:     accessSvc,
		AuthUC:     authUC,
		CompanyUC:  usecase.NewCompanyUseCase(deps),
		ProfileUC:  usecase.NewProfileUseCase(deps, accessSvc),
		Categories: usecase.NewCategoryUseCase(deps),
		Units:      usecase.NewUnitUseCase(deps),
		Brands:     usecase.NewBrandUseCase(deps),
		Products:   usecase.NewProductUseCase(deps),
		Customers:  usecase.NewCustomerUseCase(deps),
		Suppliers:  usecase.NewSupplierUseCase(deps),
		Employees:  usecase.NewEmployeeUseCase(deps),
		Invoices:   invoiceUC,
		InvoicePDF: invoicePDFUC,
		Sync:       engine,
		Log:        log,
	})

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
