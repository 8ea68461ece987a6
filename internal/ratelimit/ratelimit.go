// Package ratelimit implements fixed-window request counting per key,
// backed by Redis when available and process memory otherwise.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/yash-755/robo/pkg/logx"
)

// Result describes the state of a key's window after one request.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts one request against key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func result(count, limit int, resetAt time.Time) Result {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

type entry struct {
	count   int
	resetAt time.Time
}

// Memory is an in-process fixed-window limiter. Expired windows are swept
// lazily, so it needs no background goroutine.
type Memory struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= m.window {
		for k, e := range m.entries {
			if now.After(e.resetAt) {
				delete(m.entries, k)
			}
		}
		m.lastSweep = now
	}

	e, ok := m.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{resetAt: now.Add(m.window)}
		m.entries[key] = e
	}
	e.count++
	return result(e.count, m.limit, e.resetAt), nil
}

// Fallback consults primary and switches to secondary for any request on
// which primary fails. It fails open: an error never blocks a request.
type Fallback struct {
	primary   Limiter
	secondary Limiter
}

func NewFallback(primary, secondary Limiter) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Allow(ctx context.Context, key string) (Result, error) {
	res, err := f.primary.Allow(ctx, key)
	if err == nil {
		return res, nil
	}
	logx.Warn().Err(err).Msg("rate limiter backend failed, using in-memory window")
	return f.secondary.Allow(ctx, key)
}
