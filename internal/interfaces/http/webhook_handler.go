package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/talent-invoice/internal/application/account"
	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/webhook"
)

// WebhookHandler eventos del proveedor de cobro (público; autenticado por firma).
type WebhookHandler struct {
	verifier *webhook.StripeVerifier
	uc       *account.BillingUseCase
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(verifier *webhook.StripeVerifier, uc *account.BillingUseCase) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, uc: uc}
}

// Billing godoc
// @Summary      Webhook de suscripciones
// @Description  Verifica Stripe-Signature y actualiza el estado de suscripción del talento.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header  string  true  "t=…,v1=…"
// @Success      200  {object}  dto.BillingEventResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/webhooks/billing [post]
func (h *WebhookHandler) Billing(c *fiber.Ctx) error {
	evt, err := h.verifier.Parse(c.Body(), c.Get(webhook.SignatureHeader))
	if err != nil {
		log.Warn().Err(err).Msg("webhook de cobro rechazado")
		return respondError(c, err)
	}

	status, applied, err := h.uc.ApplyEvent(c.Context(), evt)
	if errors.Is(err, domain.ErrNotFound) {
		// Perfil desconocido: se acusa recibo para que el proveedor no reintente.
		log.Warn().Str("event_id", evt.ID).Str("type", evt.Type).Msg("webhook sin perfil asociado")
		return c.JSON(dto.BillingEventResponse{Received: true})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BillingEventResponse{Received: true, Applied: applied, Status: status})
}
