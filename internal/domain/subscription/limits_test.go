package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/subscription"
)

var registered = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func freeProfile(count int) *entity.Profile {
	p := subscription.DefaultPolicy()
	return &entity.Profile{
		SubscriptionStatus: entity.SubscriptionFree,
		InvoiceCount:       count,
		TrialEndDate:       p.TrialEnd(registered),
	}
}

func TestCheck_ActivoSinLimite(t *testing.T) {
	p := freeProfile(50)
	p.SubscriptionStatus = entity.SubscriptionActive

	got := subscription.DefaultPolicy().Check(p, registered.AddDate(1, 0, 0))

	assert.True(t, got.CanCreate)
	assert.True(t, got.Unlimited)
	assert.Equal(t, -1, got.Remaining)
}

func TestCheck_GratisDentroDelLimite(t *testing.T) {
	got := subscription.DefaultPolicy().Check(freeProfile(2), registered.AddDate(0, 1, 0))

	assert.True(t, got.CanCreate)
	assert.Equal(t, 1, got.Remaining)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), got.TrialEndsAt)
}

func TestCheck_LimiteAlcanzado(t *testing.T) {
	got := subscription.DefaultPolicy().Check(freeProfile(3), registered.AddDate(0, 1, 0))

	assert.False(t, got.CanCreate)
	assert.Equal(t, subscription.ReasonLimitReached, got.Reason)
	assert.Equal(t, 0, got.Remaining)
}

func TestCheck_PruebaVencidaAunqueQuedenFacturas(t *testing.T) {
	got := subscription.DefaultPolicy().Check(freeProfile(0), registered.AddDate(0, 3, 0))

	assert.False(t, got.CanCreate)
	assert.Equal(t, subscription.ReasonTrialExpired, got.Reason)
}

func TestCheck_CanceladoVuelveAlPlanGratuito(t *testing.T) {
	p := freeProfile(1)
	p.SubscriptionStatus = entity.SubscriptionCancelled

	got := subscription.DefaultPolicy().Check(p, registered.AddDate(0, 0, 10))

	assert.True(t, got.CanCreate)
	assert.Equal(t, 2, got.Remaining)
}
