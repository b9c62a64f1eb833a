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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/talent-invoice/internal/application/account"
	"github.com/jhoicas/talent-invoice/internal/application/auth"
	"github.com/jhoicas/talent-invoice/internal/application/invoicing"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
	"github.com/jhoicas/talent-invoice/internal/domain/subscription"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/cache"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/memory"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/talent-invoice/internal/infrastructure/pdf"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/postgres"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/webhook"
	httpRouter "github.com/jhoicas/talent-invoice/internal/interfaces/http"
	"github.com/jhoicas/talent-invoice/pkg/config"
	"github.com/jhoicas/talent-invoice/pkg/logger"
)

// txRunner transacciones de facturación y de registro de cuentas.
type txRunner interface {
	invoicing.TxRunner
	auth.TxRunner
}

// repositories repos del backend elegido en APP_STORAGE.
type repositories struct {
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	organizers  repository.OrganizerRepository
	invoices    repository.InvoiceRepository
	orgInvoices repository.OrganizerInvoiceRepository
	events      repository.InvoiceEventRepository
	tx          txRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")
	zl := log.Zerolog()

	ctx := context.Background()
	var repos repositories
	switch cfg.App.Storage {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		repos = repositories{
			users:       store.Users(),
			profiles:    store.Profiles(),
			organizers:  store.Organizers(),
			invoices:    store.Invoices(),
			orgInvoices: store.OrganizerInvoices(),
			events:      store.Events(),
			tx:          store,
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		repos = repositories{
			users:       postgres.NewUserRepository(pool),
			profiles:    postgres.NewProfileRepository(pool),
			organizers:  postgres.NewOrganizerRepository(pool),
			invoices:    postgres.NewInvoiceRepository(pool),
			orgInvoices: postgres.NewOrganizerInvoiceRepository(pool),
			events:      postgres.NewInvoiceEventRepository(pool),
			tx:          postgres.NewTxRunner(pool),
		}
	}

	// Redis es opcional: sin él no hay caché de códigos ni límite de intentos.
	var codeCache account.CodeCache
	var limiter account.AttemptLimiter
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer client.Close()
			codeCache = cache.NewOrganizerCodeCache(client, cache.DefaultOrganizerTTL)
			limiter = cache.NewAttemptLimiter(client, 0, 0)
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer, "")
	policy := subscription.Policy{
		FreeInvoiceLimit: cfg.Billing.FreeInvoiceLimit,
		TrialMonths:      cfg.Billing.TrialMonths,
	}

	organizerUC := account.NewOrganizerUseCase(repos.organizers, codeCache, limiter, zl)
	profileUC := account.NewProfileUseCase(repos.profiles, policy)
	billingUC := account.NewBillingUseCase(repos.profiles, zl)
	authUC := auth.NewAuthUseCase(repos.tx, repos.users, policy, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	invoiceUC := invoicing.NewInvoiceUseCase(
		repos.tx, repos.invoices, repos.orgInvoices, repos.events,
		organizerUC, m,
		invoicing.Config{TaxRatePercent: cfg.Billing.TaxRatePercent, Policy: policy},
		zl,
	)
	reviewUC := invoicing.NewReviewUseCase(repos.tx, repos.organizers, repos.invoices, repos.orgInvoices, m, zl)

	// PDF desde la instantánea guardada
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.PDF.FontPath)
	pdfUC := invoicing.NewPDFUseCase(repos.invoices, repos.orgInvoices, repos.organizers, repos.profiles, pdfGenerator)

	if cfg.Billing.WebhookSecret == "" {
		log.Warn().Msg("STRIPE_WEBHOOK_SECRET vacío: el webhook de cobro rechazará todos los eventos")
	}

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
		Title:    "Talent Invoice API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		InvoiceUC:       invoiceUC,
		ReviewUC:        reviewUC,
		PDFUC:           pdfUC,
		OrganizerUC:     organizerUC,
		ProfileUC:       profileUC,
		BillingUC:       billingUC,
		WebhookVerifier: webhook.NewStripeVerifier(cfg.Billing.WebhookSecret, webhook.DefaultTolerance),
		Metrics:         m,
		Gatherer:        prometheus.DefaultGatherer,
		Logger:          zl,
		AppName:         cfg.App.Name,
		JWTSecret:       cfg.JWT.Secret,
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
