package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/hackly/garage-backend/internal/handlers"
	"github.com/hackly/garage-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	PromptHandler      *handlers.PromptHandler
	EvaluationHandler  *handlers.EvaluationHandler
	ArchiveHandler     *handlers.ArchiveHandler
	LeaderboardHandler *handlers.LeaderboardHandler
	SSEHandler         *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("garage-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)
	// Spectator reads
	router.GET("/archive", cfg.ArchiveHandler.List)
	router.GET("/leaderboard", cfg.LeaderboardHandler.List)
	router.GET("/round", cfg.ArchiveHandler.CurrentRound)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.SSEStream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.SSESubscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.SSEUnsubscribe)
	// Prompts
	protected.POST("/prompts", cfg.PromptHandler.Create)
	protected.GET("/prompts", cfg.PromptHandler.List)
	protected.GET("/prompts/:id", cfg.PromptHandler.Get)
	protected.POST("/prompts/:id/best", cfg.PromptHandler.MarkBest)
	protected.POST("/prompts/:id/files", cfg.PromptHandler.AttachFile)
	protected.GET("/prompts/:id/files", cfg.PromptHandler.ListFiles)
	// Evaluations
	protected.POST("/evaluations", cfg.EvaluationHandler.Create)
	protected.GET("/evaluations/:id", cfg.EvaluationHandler.Get)
	protected.GET("/prompts/:id/evaluation", cfg.EvaluationHandler.LatestForPrompt)
	// Archive
	protected.PATCH("/archive/:id/ai-reply", cfg.ArchiveHandler.UpdateAIReply)

	return router
}
