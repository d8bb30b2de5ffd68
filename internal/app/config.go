package app

import (
	"strings"
	"time"

	"github.com/pairforge/pairforge-backend/internal/pkg/envutil"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type Config struct {
	Port         string
	AllowOrigins []string
	CronSecret   string

	// Burst limit on the generate endpoint, enforced before the durable
	// per-user cooldown.
	GenerateLimitWindow time.Duration
	GenerateLimitMax    int

	// RedisAddr switches the rate limit store from memory to Redis when
	// set.
	RedisAddr string

	MatchGen services.MatchGenConfig
}

func LoadConfig() Config {
	matchGen := services.DefaultMatchGenConfig()
	matchGen.TopK = envutil.Int("MATCH_TOP_K", matchGen.TopK)
	matchGen.MinScore = envutil.Int("MATCH_MIN_SCORE", matchGen.MinScore)
	matchGen.OnDemandMax = envutil.Int("MATCH_ON_DEMAND_MAX", matchGen.OnDemandMax)
	matchGen.BatchMax = envutil.Int("MATCH_BATCH_MAX", matchGen.BatchMax)
	matchGen.OnDemandCooldown = envutil.Duration("MATCH_ON_DEMAND_COOLDOWN", matchGen.OnDemandCooldown)
	matchGen.BatchCooldown = envutil.Duration("MATCH_BATCH_COOLDOWN", matchGen.BatchCooldown)
	matchGen.BatchActiveWindow = envutil.Duration("MATCH_BATCH_ACTIVE_WINDOW", matchGen.BatchActiveWindow)

	return Config{
		Port:                envutil.Get("PORT", "8080"),
		AllowOrigins:        splitCSV(envutil.Get("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		CronSecret:          envutil.Get("CRON_SECRET", ""),
		GenerateLimitWindow: envutil.Duration("GENERATE_RATE_WINDOW", 5*time.Minute),
		GenerateLimitMax:    envutil.Int("GENERATE_RATE_MAX", 1),
		RedisAddr:           envutil.Get("REDIS_ADDR", ""),
		MatchGen:            matchGen,
	}
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
