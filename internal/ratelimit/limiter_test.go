package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg Config) *RateLimiter {
	t.Helper()
	client, err := NewRedisClient("", "", 0)
	require.NoError(t, err)
	return NewRateLimiter(client, cfg, nil)
}

func TestAllowIPFallback(t *testing.T) {
	cfg := Config{
		IPLimitPerMin:    2,
		ScoreLimitPerMin: 2,
		BurstMultiplier:  1,
	}
	rl := newTestLimiter(t, cfg)

	ctx := context.Background()

	// Burst floor is 5, so the first five requests pass
	for i := 0; i < 5; i++ {
		result, err := rl.AllowIP(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
	}

	result, err := rl.AllowIP(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter.Seconds(), float64(0))
}

func TestAllowIPIsolatedPerIP(t *testing.T) {
	rl := newTestLimiter(t, Config{IPLimitPerMin: 1, BurstMultiplier: 1})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := rl.AllowIP(ctx, "198.51.100.1")
		require.NoError(t, err)
	}
	blocked, err := rl.AllowIP(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	other, err := rl.AllowIP(ctx, "198.51.100.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestGetStatsDisabledRedis(t *testing.T) {
	rl := newTestLimiter(t, DefaultConfig())

	_, err := rl.AllowIP(context.Background(), "192.0.2.1")
	require.NoError(t, err)

	stats := rl.GetStats()
	assert.Equal(t, false, stats["redis_enabled"])
	assert.Equal(t, 1, stats["fallback_limiters"])
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 60, cfg.IPLimitPerMin)
	assert.Equal(t, 20, cfg.ScoreLimitPerMin)
	assert.Equal(t, 2, cfg.BurstMultiplier)
}
