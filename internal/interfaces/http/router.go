package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/talent-invoice/internal/application/account"
	"github.com/jhoicas/talent-invoice/internal/application/auth"
	"github.com/jhoicas/talent-invoice/internal/application/invoicing"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/metrics"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/webhook"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	InvoiceUC       *invoicing.InvoiceUseCase
	ReviewUC        *invoicing.ReviewUseCase
	PDFUC           *invoicing.PDFUseCase
	OrganizerUC     *account.OrganizerUseCase
	ProfileUC       *account.ProfileUseCase
	BillingUC       *account.BillingUseCase
	WebhookVerifier *webhook.StripeVerifier
	Metrics         *metrics.Metrics    // nil = sin métricas HTTP
	Gatherer        prometheus.Gatherer // nil = sin /metrics
	Logger          zerolog.Logger      // valor cero = no escribe nada
	AppName         string
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		app.Use(Metrics(deps.Metrics))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Webhook de cobro (público, autenticado por firma)
	webhookHandler := NewWebhookHandler(deps.WebhookVerifier, deps.BillingUC)
	api.Post("/webhooks/billing", webhookHandler.Billing)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	organizerHandler := NewOrganizerHandler(deps.OrganizerUC)
	profileHandler := NewProfileHandler(deps.ProfileUC)
	reviewHandler := NewReviewHandler(deps.ReviewUC, deps.PDFUC)

	// Cualquier rol autenticado; se registran antes de los grupos con RequireRole.
	protected.Post("/invoices/preview", invoiceHandler.Preview)
	protected.Get("/organizers/verify", organizerHandler.Verify)

	// Talento
	talentOnly := RequireRole(entity.RoleTalent)

	profile := protected.Group("/profile", talentOnly)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Update)

	subscription := protected.Group("/subscription", talentOnly)
	subscription.Get("/limits", profileHandler.Limits)

	invoices := protected.Group("/invoices", talentOnly)
	invoices.Post("/", RequireInvoiceQuota(deps.ProfileUC), invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/sent", invoiceHandler.MarkSent)
	invoices.Post("/:id/paid", invoiceHandler.MarkPaid)
	invoices.Get("/:id/events", invoiceHandler.Events)
	invoices.Get("/:id/pdf", invoiceHandler.GetPDF)

	// Organizador
	organizer := protected.Group("/organizer", RequireRole(entity.RoleOrganizer))
	organizer.Get("/", organizerHandler.Me)
	organizer.Post("/code", organizerHandler.RegenerateCode)
	organizer.Get("/invoices", reviewHandler.List)
	organizer.Get("/invoices/:id", reviewHandler.GetByID)
	organizer.Post("/invoices/:id/approve", reviewHandler.Approve)
	organizer.Post("/invoices/:id/pay", reviewHandler.MarkPaid)
	organizer.Post("/invoices/:id/return", reviewHandler.Return)
	organizer.Get("/invoices/:id/pdf", reviewHandler.GetPDF)
}
