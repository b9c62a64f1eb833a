package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/cache"
)

func TestSinCliente_DegradaSinErrores(t *testing.T) {
	ctx := context.Background()
	codes := cache.NewOrganizerCodeCache(nil, 0)
	limiter := cache.NewAttemptLimiter(nil, 0, 0)

	require.NoError(t, codes.SetOrganizer(ctx, &entity.Organizer{ID: "org-1", OrganizerCode: "ABCD2345"}))
	org, err := codes.GetOrganizer(ctx, "ABCD2345")
	require.NoError(t, err)
	assert.Nil(t, org)
	assert.NoError(t, codes.DeleteOrganizer(ctx, "ABCD2345"))

	for i := 0; i < cache.DefaultMaxAttempts+1; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "talent-1"))
	}
	blocked, err := limiter.Blocked(ctx, "talent-1")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestReceptorNil(t *testing.T) {
	var codes *cache.OrganizerCodeCache
	var limiter *cache.AttemptLimiter

	org, err := codes.GetOrganizer(context.Background(), "ABCD2345")
	assert.NoError(t, err)
	assert.Nil(t, org)
	blocked, err := limiter.Blocked(context.Background(), "x")
	assert.NoError(t, err)
	assert.False(t, blocked)
}
