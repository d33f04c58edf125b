package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiter_Burst(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
		{name: "zero rps disables limiting", rps: 0, burst: 1, calls: 50, wantPass: 50},
		{name: "burst below one is raised", rps: 1, burst: 0, calls: 2, wantPass: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)

			passed := 0
			for range tt.calls {
				if rl.getLimiter("pokemon").Allow() {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(10, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, rl.Wait(ctx, "box"))
	assert.Less(t, time.Since(start), 50*time.Millisecond, "first Wait() should be immediate")

	// Second call should wait ~100ms (1/10 rps)
	start = time.Now()
	require.NoError(t, rl.Wait(ctx, "box"))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
	assert.Less(t, elapsed, 250*time.Millisecond)
}

func TestKeyedRateLimiter_WaitContextCancelled(t *testing.T) {
	rl := New(0.1, 1) // one request per 10 seconds
	rl.getLimiter("box").Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.Error(t, rl.Wait(ctx, "box"))
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)

	rl.getLimiter("box").Allow()
	assert.False(t, rl.getLimiter("box").Allow(), "box should be exhausted")
	assert.True(t, rl.getLimiter("pokemon").Allow(), "pokemon should be independent")
}

func TestKeyedRateLimiter_ConcurrentGetLimiter(t *testing.T) {
	rl := New(1000, 1000)

	var wg sync.WaitGroup
	for range 32 {
		wg.Go(func() {
			rl.getLimiter("pokemon").Allow()
		})
	}
	wg.Wait()

	assert.Len(t, rl.limiters, 1)
}
