package app

import (
	"github.com/gin-gonic/gin"

	"github.com/pairforge/pairforge-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AuthMiddleware:   mw.Auth,
		GenerateLimiter:  mw.RateLimit.Limit(mw.GenerateLimiter),
		ProfileHandler:   handlerset.Profile,
		EmbeddingHandler: handlerset.Embedding,
		AnalysisHandler:  handlerset.Analysis,
		MatchHandler:     handlerset.Match,
		MessageHandler:   handlerset.Message,
		OutreachHandler:  handlerset.Outreach,
		CronHandler:      handlerset.Cron,
	})
}
