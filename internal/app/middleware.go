package app

import (
	"context"
	"time"

	"github.com/pairforge/pairforge-backend/internal/middleware"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/ratelimit"
)

type Middleware struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimitMiddleware

	GenerateLimiter *ratelimit.Limiter
}

func wireMiddleware(ctx context.Context, log *logger.Logger, cfg Config, serviceset Services) Middleware {
	log.Info("Wiring middleware...")

	store := wireRateLimitStore(ctx, log, cfg)

	return Middleware{
		Auth:            middleware.NewAuthMiddleware(log, serviceset.Auth),
		RateLimit:       middleware.NewRateLimitMiddleware(log),
		GenerateLimiter: ratelimit.NewLimiter(store, cfg.GenerateLimitWindow, cfg.GenerateLimitMax),
	}
}

func wireRateLimitStore(ctx context.Context, log *logger.Logger, cfg Config) ratelimit.Store {
	if cfg.RedisAddr != "" {
		store, err := ratelimit.NewRedisStore(log, cfg.RedisAddr)
		if err == nil {
			return store
		}
		log.Warn("Redis rate limit store unavailable, using memory", "addr", cfg.RedisAddr, "error", err)
	}
	store := ratelimit.NewMemoryStore()
	store.StartSweeper(ctx, 10*time.Minute)
	return store
}
