package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
)

// RedisStore shares fixed-window counters across instances. INCR plus
// a first-writer expiry keeps the read-check-increment atomic on the
// Redis side; expired keys are evicted by Redis itself.
type RedisStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewRedisStore(log *logger.Logger, addr string) (*RedisStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		log:    log.With("service", "RateLimitRedisStore"),
		rdb:    rdb,
		prefix: "ratelimit:",
	}, nil
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration, now time.Time) (Record, error) {
	full := s.prefix + key

	count, err := s.rdb.Incr(ctx, full).Result()
	if err != nil {
		return Record{}, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if err := s.rdb.PExpire(ctx, full, window).Err(); err != nil {
			return Record{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		return Record{Count: int(count), ResetAt: now.Add(window)}, nil
	}

	ttl, err := s.rdb.PTTL(ctx, full).Result()
	if err != nil {
		return Record{}, fmt.Errorf("ratelimit pttl: %w", err)
	}
	if ttl <= 0 {
		// Expiry lost (e.g. first writer died between INCR and PEXPIRE);
		// restart the window rather than leaving an immortal counter.
		if err := s.rdb.PExpire(ctx, full, window).Err(); err != nil {
			return Record{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		ttl = window
	}
	return Record{Count: int(count), ResetAt: now.Add(ttl)}, nil
}

func (s *RedisStore) Sweep(context.Context, time.Time) {}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
