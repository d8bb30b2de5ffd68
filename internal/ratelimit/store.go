package ratelimit

import (
	"context"
	"time"
)

// Record is one fixed-window counter. The window never slides: the
// counter resets wholesale once now passes ResetAt.
type Record struct {
	Count   int
	ResetAt time.Time
}

// Store owns the per-key counters. Incr is the whole critical section:
// read, expire-check and increment happen atomically per key, so two
// concurrent requests can never both observe the pre-increment count.
type Store interface {
	// Incr bumps the counter for key, starting a fresh window of the
	// given length when the key is absent or its window has expired.
	// Returns the record after the increment.
	Incr(ctx context.Context, key string, window time.Duration, now time.Time) (Record, error)

	// Sweep drops entries whose window ended before now. Backends with
	// native TTLs may treat this as a no-op.
	Sweep(ctx context.Context, now time.Time)
}
