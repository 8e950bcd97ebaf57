package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/types"
)

type CreateEvaluationInput struct {
	Prompt         string
	PromptID       string
	SourcePromptID string
	SelectedModel  string
}

// EvaluationService accepts evaluation requests and answers result lookups.
// Scoring itself happens in the background worker.
type EvaluationService interface {
	CreateRequest(ctx context.Context, input CreateEvaluationInput) (*types.EvaluationRequest, error)
	GetRequest(ctx context.Context, id string) (*types.EvaluationRequest, error)
	LatestDoneResult(ctx context.Context, promptID string) (*types.EvaluationRequest, error)
}

type evaluationService struct {
	log  *logger.Logger
	repo repos.EvaluationRequestRepo
}

func NewEvaluationService(baseLog *logger.Logger, repo repos.EvaluationRequestRepo) EvaluationService {
	return &evaluationService{
		log:  baseLog.With("service", "EvaluationService"),
		repo: repo,
	}
}

func (es *evaluationService) CreateRequest(ctx context.Context, input CreateEvaluationInput) (*types.EvaluationRequest, error) {
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("prompt required")
	}
	model := strings.TrimSpace(input.SelectedModel)
	if model == "" {
		model = types.DefaultModelLabel
	}

	req := &types.EvaluationRequest{
		ID:            uuid.NewString(),
		Prompt:        prompt,
		Status:        types.EvaluationPending,
		SelectedModel: model,
	}
	if id := strings.TrimSpace(input.PromptID); id != "" {
		req.PromptID = &id
	}
	if id := strings.TrimSpace(input.SourcePromptID); id != "" {
		req.SourcePromptID = &id
	}

	created, err := es.repo.Create(ctx, nil, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation request: %w", err)
	}
	return created, nil
}

func (es *evaluationService) GetRequest(ctx context.Context, id string) (*types.EvaluationRequest, error) {
	return es.repo.GetByID(ctx, nil, id)
}

// LatestDoneResult finds the newest finished evaluation for a prompt. When no
// request references the prompt directly, requests created from it as a source
// are consulted instead. Ordering happens client-side by created_at, newest
// first. Nil means no finished evaluation exists; that is not an error.
func (es *evaluationService) LatestDoneResult(ctx context.Context, promptID string) (*types.EvaluationRequest, error) {
	promptID = strings.TrimSpace(promptID)
	if promptID == "" {
		return nil, fmt.Errorf("prompt id required")
	}

	reqs, err := es.repo.ListByPromptID(ctx, nil, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation requests: %w", err)
	}
	if latest := newestDone(reqs); latest != nil {
		return latest, nil
	}

	reqs, err = es.repo.ListBySourcePromptID(ctx, nil, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation requests by source: %w", err)
	}
	return newestDone(reqs), nil
}

func newestDone(reqs []*types.EvaluationRequest) *types.EvaluationRequest {
	done := make([]*types.EvaluationRequest, 0, len(reqs))
	for _, r := range reqs {
		if r != nil && r.Status == types.EvaluationDone {
			done = append(done, r)
		}
	}
	if len(done) == 0 {
		return nil
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CreatedAt.After(done[j].CreatedAt)
	})
	return done[0]
}
