package account

import (
	"context"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
)

// CodeCache caché de búsqueda por código de organizador. Get devuelve (nil, nil) si no está.
type CodeCache interface {
	GetOrganizer(ctx context.Context, code string) (*entity.Organizer, error)
	SetOrganizer(ctx context.Context, org *entity.Organizer) error
	DeleteOrganizer(ctx context.Context, code string) error
}

// AttemptLimiter cuenta intentos fallidos de verificación de código por actor.
type AttemptLimiter interface {
	Blocked(ctx context.Context, actorID string) (bool, error)
	RecordFailure(ctx context.Context, actorID string) error
}

// BillingEvent evento del proveedor de cobro ya verificado y decodificado.
type BillingEvent struct {
	ID                 string
	Type               string
	UserID             string // metadata.user_id
	CustomerID         string
	SubscriptionStatus string // solo customer.subscription.updated
}

// Tipos de evento que cambian la suscripción.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventPaymentFailed       = "invoice.payment_failed"
)
