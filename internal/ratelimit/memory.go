package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the process-local backend. Good enough for a soft
// usability throttle on a single instance; use the Redis store when
// counters must be shared.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration, now time.Time) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || now.After(rec.ResetAt) {
		rec = &Record{Count: 1, ResetAt: now.Add(window)}
		s.records[key] = rec
		return *rec, nil
	}
	rec.Count++
	return *rec, nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range s.records {
		if now.After(rec.ResetAt) {
			delete(s.records, key)
		}
	}
}

// StartSweeper evicts expired windows on an interval until ctx is done.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(ctx, now)
			}
		}
	}()
}
