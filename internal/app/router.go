package app

import (
	"github.com/gin-gonic/gin"

	"github.com/hackly/garage-backend/internal/server"
)

func wireRouter(handlerset Handlers, middlewareSet Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        handlerset.Auth,
		AuthMiddleware:     middlewareSet.Auth,
		PromptHandler:      handlerset.Prompt,
		EvaluationHandler:  handlerset.Evaluation,
		ArchiveHandler:     handlerset.Archive,
		LeaderboardHandler: handlerset.Leaderboard,
		SSEHandler:         handlerset.SSE,
	})
}
