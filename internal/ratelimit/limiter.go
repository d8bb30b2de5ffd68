package ratelimit

import (
	"context"
	"time"
)

// Result reports one gate decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is a fixed-window gate over an injected Store. Fixed window
// is deliberate: it admits short bursts at window boundaries, but the
// semantics are trivial to reason about and test, and the durable
// per-user cooldown at the persistence layer backstops it.
type Limiter struct {
	store  Store
	window time.Duration
	limit  int
	now    func() time.Time
}

func NewLimiter(store Store, window time.Duration, limit int) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		store:  store,
		window: window,
		limit:  limit,
		now:    time.Now,
	}
}

// WithClock overrides the limiter's clock. Test hook.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Check consumes one slot for identity within the current window.
func (l *Limiter) Check(ctx context.Context, identity string) (Result, error) {
	now := l.now()
	rec, err := l.store.Incr(ctx, identity, l.window, now)
	if err != nil {
		return Result{}, err
	}

	remaining := l.limit - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   rec.Count <= l.limit,
		Remaining: remaining,
		ResetAt:   rec.ResetAt,
	}, nil
}
