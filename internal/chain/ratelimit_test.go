package chain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("https://rpc.example"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("https://rpc.example"), "burst exceeded")
}

func TestRateLimiter_PerEndpointIsolation(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("https://eth.example"))
	assert.False(t, rl.Allow("https://eth.example"))

	// A different endpoint gets its own bucket.
	assert.True(t, rl.Allow("https://base.example"))
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	require.True(t, rl.Allow("rpc"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx, "rpc")
	assert.Error(t, err)
}

func TestDefaultRateLimiter(t *testing.T) {
	rl := DefaultRateLimiter()
	assert.True(t, rl.Allow("rpc"))
}
