package repository

import (
	"context"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
)

// ProfileRepository puerto de persistencia para el perfil del talento.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	// Update guarda datos de contacto y bancarios; no toca suscripción ni contador.
	Update(ctx context.Context, profile *entity.Profile) error
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	// GetByUserIDForUpdate serializa creaciones concurrentes frente al límite del plan.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*entity.Profile, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*entity.Profile, error)
	IncrementInvoiceCount(ctx context.Context, userID string) error
	// UpdateSubscription deja intacto el customer id si llega vacío.
	UpdateSubscription(ctx context.Context, userID, status, stripeCustomerID string) error
}
