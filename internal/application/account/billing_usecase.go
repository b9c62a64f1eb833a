package account

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

// BillingUseCase aplica los eventos del proveedor de cobro al estado de suscripción.
type BillingUseCase struct {
	profileRepo repository.ProfileRepository
	log         zerolog.Logger
}

// NewBillingUseCase construye el caso de uso.
func NewBillingUseCase(profileRepo repository.ProfileRepository, log zerolog.Logger) *BillingUseCase {
	return &BillingUseCase{profileRepo: profileRepo, log: log}
}

// SubscriptionStatusFor traduce un evento al estado de suscripción. ok=false si el evento no aplica.
func SubscriptionStatusFor(evt BillingEvent) (status string, ok bool) {
	switch evt.Type {
	case EventCheckoutCompleted:
		return entity.SubscriptionActive, true
	case EventSubscriptionUpdated:
		switch evt.SubscriptionStatus {
		case "active", "trialing":
			return entity.SubscriptionActive, true
		case "past_due", "unpaid":
			return entity.SubscriptionInactive, true
		case "canceled":
			return entity.SubscriptionCancelled, true
		}
	case EventSubscriptionDeleted:
		return entity.SubscriptionCancelled, true
	case EventPaymentFailed:
		return entity.SubscriptionInactive, true
	}
	return "", false
}

// ApplyEvent resuelve el perfil por metadata.user_id o por customer id y guarda el nuevo estado.
// Eventos desconocidos se ignoran (applied=false, sin error) para que el proveedor no reintente.
func (uc *BillingUseCase) ApplyEvent(ctx context.Context, evt BillingEvent) (status string, applied bool, err error) {
	status, ok := SubscriptionStatusFor(evt)
	if !ok {
		uc.log.Debug().Str("event_id", evt.ID).Str("type", evt.Type).Msg("evento de cobro ignorado")
		return "", false, nil
	}

	var profile *entity.Profile
	if evt.UserID != "" {
		profile, err = uc.profileRepo.GetByUserID(ctx, evt.UserID)
	}
	if err == nil && profile == nil && evt.CustomerID != "" {
		profile, err = uc.profileRepo.GetByStripeCustomerID(ctx, evt.CustomerID)
	}
	if err != nil {
		return "", false, err
	}
	if profile == nil {
		return "", false, fmt.Errorf("%w: perfil para el evento %s", domain.ErrNotFound, evt.ID)
	}

	if err := uc.profileRepo.UpdateSubscription(ctx, profile.UserID, status, evt.CustomerID); err != nil {
		return "", false, err
	}
	uc.log.Info().
		Str("event_id", evt.ID).
		Str("type", evt.Type).
		Str("user_id", profile.UserID).
		Str("from", profile.SubscriptionStatus).
		Str("to", status).
		Msg("suscripción actualizada")
	return status, true, nil
}
