package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yash-755/robo/pkg/logx"
)

func TestMain(m *testing.M) {
	logx.Nop()
	m.Run()
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestMemory(limit int, window time.Duration) (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(limit, window)
	m.now = clock.now
	return m, clock
}

func TestMemory_AllowsUpToLimit(t *testing.T) {
	m, clock := newTestMemory(3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := m.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 3-i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, clock.t.Add(time.Minute), res.ResetAt)
	}

	res, err := m.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	m, _ := newTestMemory(1, time.Minute)
	ctx := context.Background()

	res, _ := m.Allow(ctx, "a")
	assert.True(t, res.Allowed)
	res, _ = m.Allow(ctx, "b")
	assert.True(t, res.Allowed)
	res, _ = m.Allow(ctx, "a")
	assert.False(t, res.Allowed)
}

func TestMemory_WindowResets(t *testing.T) {
	m, clock := newTestMemory(1, time.Minute)
	ctx := context.Background()

	res, _ := m.Allow(ctx, "a")
	assert.True(t, res.Allowed)
	res, _ = m.Allow(ctx, "a")
	assert.False(t, res.Allowed)

	clock.t = clock.t.Add(time.Minute + time.Second)
	res, _ = m.Allow(ctx, "a")
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestMemory_SweepsExpiredEntries(t *testing.T) {
	m, clock := newTestMemory(5, time.Minute)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		_, _ = m.Allow(ctx, k)
	}
	clock.t = clock.t.Add(2 * time.Minute)
	_, _ = m.Allow(ctx, "d")

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Len(t, m.entries, 1)
	assert.Contains(t, m.entries, "d")
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory(50, time.Minute)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := m.Allow(ctx, "shared")
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

type failingLimiter struct{ calls int }

func (f *failingLimiter) Allow(context.Context, string) (Result, error) {
	f.calls++
	return Result{}, errors.New("connection refused")
}

func TestFallback_UsesSecondaryOnError(t *testing.T) {
	primary := &failingLimiter{}
	secondary := NewMemory(1, time.Minute)
	f := NewFallback(primary, secondary)
	ctx := context.Background()

	res, err := f.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = f.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 2, primary.calls)
}

func TestFallback_PrefersPrimary(t *testing.T) {
	primary := NewMemory(10, time.Minute)
	secondary := &failingLimiter{}
	f := NewFallback(primary, secondary)

	res, err := f.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 9, res.Remaining)
	assert.Zero(t, secondary.calls)
}

func TestParseReply(t *testing.T) {
	count, ttl, err := parseReply([]any{int64(4), int64(37)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, int64(37), ttl)

	_, _, err = parseReply("OK")
	assert.Error(t, err)

	_, _, err = parseReply([]any{int64(1)})
	assert.Error(t, err)

	_, _, err = parseReply([]any{"1", int64(2)})
	assert.Error(t, err)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-redis", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing redis url")
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), "redis://127.0.0.1:1/0", 200*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pinging redis")
}
