package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hackly/garage-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: "pw",
		Username: username,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedPrompt(tb testing.TB, ctx context.Context, tx *gorm.DB, rootID string, score *float64, createdAt time.Time) *types.PromptRevision {
	tb.Helper()
	p := &types.PromptRevision{
		ID:         uuid.NewString(),
		Title:      "prompt",
		Content:    "content",
		ScoreTotal: score,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if rootID != "" {
		p.BranchRootID = &rootID
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed prompt: %v", err)
	}
	return p
}

func SeedArchiveEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, roundID string, createdAt time.Time) *types.ArchiveEntry {
	tb.Helper()
	e := &types.ArchiveEntry{
		ID:             uuid.NewString(),
		RoundID:        roundID,
		RoundNumber:    1,
		RoundStartedAt: createdAt,
		RoundEndsAt:    createdAt.Add(8 * time.Hour),
		CreatedAt:      createdAt,
		Prompt:         "archived prompt",
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed archive entry: %v", err)
	}
	return e
}

func SeedEvaluationRequest(tb testing.TB, ctx context.Context, tx *gorm.DB, promptID string, status types.EvaluationStatus, createdAt time.Time) *types.EvaluationRequest {
	tb.Helper()
	r := &types.EvaluationRequest{
		ID:            uuid.NewString(),
		Prompt:        "evaluate me",
		Status:        status,
		SelectedModel: types.DefaultModelLabel,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if promptID != "" {
		r.PromptID = &promptID
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed evaluation request: %v", err)
	}
	return r
}
