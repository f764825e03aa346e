package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestBucket_TakeAndRefill(t *testing.T) {
	start := time.Now()
	b := newBucket(3, 1, start)

	for i := 0; i < 3; i++ {
		assert.True(t, b.take(start), "request %d", i+1)
	}
	assert.False(t, b.take(start))
	assert.Equal(t, time.Second, b.retryAfter())

	assert.True(t, b.take(start.Add(time.Second)))
	assert.False(t, b.take(start.Add(time.Second)))
}

func TestBucket_ResetAt(t *testing.T) {
	start := time.Now()
	b := newBucket(10, 2, start)
	assert.Equal(t, start, b.resetAt(start))

	for i := 0; i < 4; i++ {
		b.take(start)
	}
	assert.Equal(t, start.Add(2*time.Second), b.resetAt(start))
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, Config{})
	assert.False(t, l.Enabled())
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("1.2.3.4", "/search", "POST").Allowed)
	}

	var nilLimiter *Limiter
	assert.False(t, nilLimiter.Enabled())
	assert.True(t, nilLimiter.Allow("x", "/search", "POST").Allowed)
	nilLimiter.Stop()
}

func TestLimiter_DefaultAllowance(t *testing.T) {
	l, clock := newTestLimiter(t, Config{PerMinute: 60, Burst: 2})

	first := l.Allow("1.2.3.4", "/search", "POST")
	assert.True(t, first.Allowed)
	assert.Equal(t, 60, first.Limit)
	assert.Equal(t, 1, first.Remaining)

	assert.True(t, l.Allow("1.2.3.4", "/search", "POST").Allowed)
	denied := l.Allow("1.2.3.4", "/search", "POST")
	assert.False(t, denied.Allowed)
	assert.Equal(t, time.Second, denied.RetryAfter)

	// Other clients and other routes have their own buckets.
	assert.True(t, l.Allow("5.6.7.8", "/search", "POST").Allowed)
	assert.True(t, l.Allow("1.2.3.4", "/stats", "GET").Allowed)

	clock.advance(time.Second)
	assert.True(t, l.Allow("1.2.3.4", "/search", "POST").Allowed)
}

func TestLimiter_Rules(t *testing.T) {
	l, _ := newTestLimiter(t, Config{PerMinute: 1, Rules: DefaultRules()})

	for i := 0; i < 50; i++ {
		require.True(t, l.Allow("ip", "/health", "GET").Allowed)
		require.True(t, l.Allow("ip", "/metrics", "GET").Allowed)
	}

	assert.True(t, l.Allow("ip", "/admin/rebuild", "POST").Allowed)
	info := l.Allow("ip", "/admin/rebuild", "POST")
	assert.True(t, info.Allowed)
	assert.Equal(t, 6, info.Limit)
	assert.False(t, l.Allow("ip", "/admin/rebuild", "POST").Allowed)
}

func TestMatch(t *testing.T) {
	rules := []Rule{
		{Method: "POST", Path: "/admin/", PerMinute: 5},
		{Method: "POST", Path: "/admin/rebuild", PerMinute: 1},
		{Method: "GET", Path: "/health", PerMinute: -1},
	}

	tests := []struct {
		name   string
		path   string
		method string
		want   int
		found  bool
	}{
		{name: "exact beats prefix", path: "/admin/rebuild", method: "POST", want: 1, found: true},
		{name: "prefix", path: "/admin/reload", method: "POST", want: 5, found: true},
		{name: "method mismatch", path: "/admin/rebuild", method: "GET"},
		{name: "unlimited", path: "/health", method: "GET", want: -1, found: true},
		{name: "no rule", path: "/search", method: "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.path, tt.method, rules)
			if !tt.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.PerMinute)
		})
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	l, clock := newTestLimiter(t, Config{PerMinute: 10, IdleTimeout: time.Minute})

	l.Allow("a", "/search", "POST")
	clock.advance(30 * time.Second)
	l.Allow("b", "/search", "POST")
	clock.advance(45 * time.Second)

	assert.Equal(t, 1, l.evictIdle())
	l.mu.Lock()
	_, kept := l.buckets["b:POST:/search"]
	l.mu.Unlock()
	assert.True(t, kept)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, Config{PerMinute: 60, Burst: 20})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("ip", "/search", "POST").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, allowed)
}
