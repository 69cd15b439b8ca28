package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowKeyBucketsTime(t *testing.T) {
	window := time.Hour
	base := time.Date(2026, 9, 1, 10, 15, 0, 0, time.UTC)

	sameWindow := windowKey("u1", "like", base.Add(20*time.Minute), window)
	assert.Equal(t, windowKey("u1", "like", base, window), sameWindow)

	nextWindow := windowKey("u1", "like", base.Add(2*time.Hour), window)
	assert.NotEqual(t, windowKey("u1", "like", base, window), nextWindow)
}

func TestWindowKeySeparatesUsersAndActions(t *testing.T) {
	now := time.Now()
	window := time.Hour

	assert.NotEqual(t, windowKey("u1", "like", now, window), windowKey("u2", "like", now, window))
	assert.NotEqual(t, windowKey("u1", "like", now, window), windowKey("u1", "pass", now, window))
}

func TestUnknownActionIsUnlimited(t *testing.T) {
	limiter := NewLimiter(nil, map[string]Limit{
		"like": {Max: 10, Window: time.Hour},
	})

	allowed, err := limiter.Allow(context.Background(), "u1", "view")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNilClientFailsOpen(t *testing.T) {
	limiter := NewLimiter(nil, map[string]Limit{
		"like": {Max: 10, Window: time.Hour},
	})

	allowed, err := limiter.Allow(context.Background(), "u1", "like")
	require.NoError(t, err)
	assert.True(t, allowed)
}
