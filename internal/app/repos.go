package app

import (
	"gorm.io/gorm"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/repos"
)

type Repos struct {
	User              repos.UserRepo
	UserToken         repos.UserTokenRepo
	Prompt            repos.PromptRepo
	PromptFile        repos.PromptFileRepo
	EvaluationRequest repos.EvaluationRequestRepo
	ArchiveEntry      repos.ArchiveEntryRepo
	Leaderboard       repos.LeaderboardRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		UserToken:         repos.NewUserTokenRepo(db, log),
		Prompt:            repos.NewPromptRepo(db, log),
		PromptFile:        repos.NewPromptFileRepo(db, log),
		EvaluationRequest: repos.NewEvaluationRequestRepo(db, log),
		ArchiveEntry:      repos.NewArchiveEntryRepo(db, log),
		Leaderboard:       repos.NewLeaderboardRepo(db, log),
	}
}
