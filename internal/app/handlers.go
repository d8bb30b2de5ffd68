package app

import (
	"github.com/pairforge/pairforge-backend/internal/handlers"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
)

type Handlers struct {
	Profile   *handlers.ProfileHandler
	Embedding *handlers.EmbeddingHandler
	Analysis  *handlers.AnalysisHandler
	Match     *handlers.MatchHandler
	Message   *handlers.MessageHandler
	Outreach  *handlers.OutreachHandler
	Cron      *handlers.CronHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Profile:   handlers.NewProfileHandler(serviceset.Profile),
		Embedding: handlers.NewEmbeddingHandler(serviceset.Embedding),
		Analysis:  handlers.NewAnalysisHandler(serviceset.Analysis),
		Match:     handlers.NewMatchHandler(serviceset.Match, serviceset.MatchGen),
		Message:   handlers.NewMessageHandler(serviceset.Message),
		Outreach:  handlers.NewOutreachHandler(serviceset.Outreach),
		Cron:      handlers.NewCronHandler(log, cfg.CronSecret, serviceset.MatchGen),
	}
}
