package app

import (
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Profile   services.ProfileService
	Embedding services.EmbeddingService
	Analysis  services.ProfileAnalysisService
	Match     services.MatchService
	Message   services.MessageService
	Outreach  services.OutreachService
	MatchGen  services.MatchGenerationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(db, log, reposet.User)
	if err != nil {
		return Services{}, err
	}

	assembler := services.NewCandidateAssembler(db, log, reposet.User, reposet.Profile, reposet.Match)
	explainer := services.NewExplanationService(log, clients.OpenAI)

	return Services{
		Auth:      authService,
		Profile:   services.NewProfileService(db, log, reposet.Profile, reposet.User),
		Embedding: services.NewEmbeddingService(db, log, reposet.Profile, clients.OpenAI, clients.Vectors),
		Analysis:  services.NewProfileAnalysisService(log, clients.OpenAI),
		Match:     services.NewMatchService(db, log, reposet.Match, reposet.User, reposet.Profile),
		Message:   services.NewMessageService(db, log, reposet.Match, reposet.Message),
		Outreach:  services.NewOutreachService(db, log, clients.OpenAI, reposet.Match, reposet.Profile),
		MatchGen: services.NewMatchGenerationService(
			db, log, cfg.MatchGen,
			reposet.User, reposet.Profile, reposet.Match,
			assembler, clients.Vectors, explainer,
		),
	}, nil
}
