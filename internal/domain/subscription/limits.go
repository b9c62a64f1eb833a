// Package subscription decide si un talento puede crear más facturas según su plan.
package subscription

import (
	"time"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
)

// Valores por defecto del plan gratuito.
const (
	DefaultFreeInvoiceLimit = 3
	DefaultTrialMonths      = 3
)

// Motivos de rechazo.
const (
	ReasonNone         = ""
	ReasonLimitReached = "free_invoice_limit_reached"
	ReasonTrialExpired = "trial_expired"
)

// Policy parámetros del plan gratuito.
type Policy struct {
	FreeInvoiceLimit int
	TrialMonths      int
}

// DefaultPolicy 3 facturas durante 3 meses.
func DefaultPolicy() Policy {
	return Policy{FreeInvoiceLimit: DefaultFreeInvoiceLimit, TrialMonths: DefaultTrialMonths}
}

// Limits resultado de la verificación. Remaining es -1 para planes sin límite.
type Limits struct {
	CanCreate   bool
	Reason      string
	Remaining   int
	TrialEndsAt time.Time
	Unlimited   bool
}

// TrialEnd fecha de fin de prueba a partir del registro.
func (p Policy) TrialEnd(registeredAt time.Time) time.Time {
	return registeredAt.AddDate(0, p.TrialMonths, 0)
}

// Check aplica la regla: active no tiene límite; el resto puede crear mientras
// invoiceCount < límite y now < trialEndDate, lo que ocurra primero.
func (p Policy) Check(profile *entity.Profile, now time.Time) Limits {
	if profile.SubscriptionStatus == entity.SubscriptionActive {
		return Limits{CanCreate: true, Remaining: -1, Unlimited: true}
	}
	remaining := p.FreeInvoiceLimit - profile.InvoiceCount
	if remaining < 0 {
		remaining = 0
	}
	out := Limits{Remaining: remaining, TrialEndsAt: profile.TrialEndDate}
	switch {
	case !now.Before(profile.TrialEndDate):
		out.Reason = ReasonTrialExpired
	case remaining == 0:
		out.Reason = ReasonLimitReached
	default:
		out.CanCreate = true
	}
	return out
}
