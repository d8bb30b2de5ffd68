package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pairforge/pairforge-backend/internal/handlers"
	"github.com/pairforge/pairforge-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins []string

	AuthMiddleware  *middleware.AuthMiddleware
	GenerateLimiter gin.HandlerFunc

	ProfileHandler   *handlers.ProfileHandler
	EmbeddingHandler *handlers.EmbeddingHandler
	AnalysisHandler  *handlers.AnalysisHandler
	MatchHandler     *handlers.MatchHandler
	MessageHandler   *handlers.MessageHandler
	OutreachHandler  *handlers.OutreachHandler
	CronHandler      *handlers.CronHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Profile
	api.GET("/profile", cfg.ProfileHandler.Get)
	api.PUT("/profile", cfg.ProfileHandler.Put)
	// AI
	api.POST("/ai/generate-embedding", cfg.EmbeddingHandler.Generate)
	api.POST("/ai/analyze-profile", cfg.AnalysisHandler.AnalyzeProfile)
	// Matches
	api.GET("/matches", cfg.MatchHandler.List)
	api.GET("/matches/:id", cfg.MatchHandler.Get)
	api.POST("/matches/generate", cfg.GenerateLimiter, cfg.MatchHandler.Generate)
	// Messages
	api.GET("/matches/:id/messages", cfg.MessageHandler.List)
	api.POST("/matches/:id/messages", cfg.MessageHandler.Send)
	api.POST("/messages/generate", cfg.OutreachHandler.Draft)

	// ===============
	// || Cron      ||
	// ===============
	internal := router.Group("/internal")
	// GET kept for hosted cron schedulers that only issue GETs.
	internal.POST("/cron/refresh-matches", cfg.CronHandler.RefreshMatches)
	internal.GET("/cron/refresh-matches", cfg.CronHandler.RefreshMatches)

	return router
}
