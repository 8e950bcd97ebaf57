package app

import (
	"github.com/hackly/garage-backend/internal/handlers"
	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/sse"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Prompt      *handlers.PromptHandler
	Evaluation  *handlers.EvaluationHandler
	Archive     *handlers.ArchiveHandler
	Leaderboard *handlers.LeaderboardHandler
	SSE         *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *sse.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(serviceset.Auth),
		Prompt:      handlers.NewPromptHandler(log, serviceset.Prompt),
		Evaluation:  handlers.NewEvaluationHandler(log, serviceset.Evaluation),
		Archive:     handlers.NewArchiveHandler(log, serviceset.Archive, serviceset.Round),
		Leaderboard: handlers.NewLeaderboardHandler(log, serviceset.Leaderboard),
		SSE:         handlers.NewSSEHandler(log, hub),
	}
}
