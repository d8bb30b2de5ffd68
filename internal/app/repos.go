package app

import (
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
)

type Repos struct {
	User    repos.UserRepo
	Profile repos.ProfileRepo
	Match   repos.MatchRepo
	Message repos.MessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:    repos.NewUserRepo(db, log),
		Profile: repos.NewProfileRepo(db, log),
		Match:   repos.NewMatchRepo(db, log),
		Message: repos.NewMessageRepo(db, log),
	}
}
