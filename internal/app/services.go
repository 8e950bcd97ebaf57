package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/hackly/garage-backend/internal/clients/gcp"
	"github.com/hackly/garage-backend/internal/clients/openai"
	redisclient "github.com/hackly/garage-backend/internal/clients/redis"
	"github.com/hackly/garage-backend/internal/jobs"
	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/prompts"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/round"
	"github.com/hackly/garage-backend/internal/services"
	"github.com/hackly/garage-backend/internal/sse"
)

type Services struct {
	Notifier    *services.FanoutNotifier
	Auth        services.AuthService
	Avatar      services.AvatarService
	Prompt      services.PromptService
	Evaluation  services.EvaluationService
	Archive     services.ArchiveService
	Leaderboard services.LeaderboardService
	Round       services.RoundService
	EvalWorker  *jobs.Worker
	Bus         redisclient.SSEBus
	Bucket      gcp.BucketService
	OpenAI      openai.Client
}

type archiveCounter struct {
	repo repos.ArchiveEntryRepo
}

func (c archiveCounter) CountArchived(ctx context.Context) (int64, error) {
	return c.repo.Count(ctx, nil)
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, hub *sse.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	bus, err := redisclient.NewSSEBus(log)
	if err != nil {
		log.Warn("Redis SSE bus unavailable, broadcasts stay instance-local", "error", err)
		bus = nil
	}
	notifier := services.NewFanoutNotifier(log, hub, bus)

	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, file features disabled", "error", err)
		bucketService = nil
	}

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Warn("Could not init OpenAIClient, evaluation worker disabled", "error", err)
		openaiClient = nil
	}

	avatarService, err := services.NewAvatarService(log, bucketService)
	if err != nil {
		log.Warn("Could not init AvatarService, new users get no avatar", "error", err)
		avatarService = nil
	}

	clock := round.NewClock(log, archiveCounter{repo: reposet.ArchiveEntry})
	workingSet := prompts.NewWorkingSet()

	authService := services.NewAuthService(db, log, reposet.User, reposet.UserToken, avatarService, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	promptService := services.NewPromptService(log, reposet.Prompt, reposet.PromptFile, bucketService, workingSet, notifier)
	evaluationService := services.NewEvaluationService(log, reposet.EvaluationRequest)
	archiveService := services.NewArchiveService(log, reposet.ArchiveEntry, clock, notifier)
	leaderboardService := services.NewLeaderboardService(log, reposet.Leaderboard, reposet.User, notifier)
	roundService := services.NewRoundService(log, clock, promptService, evaluationService, archiveService, leaderboardService, reposet.Prompt, notifier)

	var evalWorker *jobs.Worker
	if openaiClient != nil {
		rubric := jobs.LoadRubric(log)
		evaluator := jobs.NewEvaluator(log, openaiClient, rubric, reposet.EvaluationRequest, reposet.Prompt, notifier)
		evalWorker = jobs.NewWorker(log, reposet.EvaluationRequest, evaluator)
	}

	return Services{
		Notifier:    notifier,
		Auth:        authService,
		Avatar:      avatarService,
		Prompt:      promptService,
		Evaluation:  evaluationService,
		Archive:     archiveService,
		Leaderboard: leaderboardService,
		Round:       roundService,
		EvalWorker:  evalWorker,
		Bus:         bus,
		Bucket:      bucketService,
		OpenAI:      openaiClient,
	}, nil
}
