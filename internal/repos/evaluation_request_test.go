package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hackly/garage-backend/internal/repos/testutil"
	"github.com/hackly/garage-backend/internal/types"
)

func TestEvaluationRequestRepoClaim(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewEvaluationRequestRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	promptID := uuid.NewString()
	older := testutil.SeedEvaluationRequest(t, ctx, tx, promptID, types.EvaluationPending, now.Add(-2*time.Hour))
	testutil.SeedEvaluationRequest(t, ctx, tx, promptID, types.EvaluationPending, now.Add(-1*time.Hour))
	testutil.SeedEvaluationRequest(t, ctx, tx, promptID, types.EvaluationDone, now.Add(-3*time.Hour))

	claimed, err := repo.ClaimNextPending(ctx, tx, 5)
	if err != nil {
		t.Fatalf("ClaimNextPending: %v", err)
	}
	if claimed == nil || claimed.ID != older.ID {
		t.Fatalf("claim must pick oldest pending")
	}
	if claimed.Status != types.EvaluationProcessing || claimed.Attempts != 1 {
		t.Fatalf("claimed status=%s attempts=%d", claimed.Status, claimed.Attempts)
	}

	// Second claim gets the next request, not the one in flight.
	second, err := repo.ClaimNextPending(ctx, tx, 5)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if second == nil || second.ID == older.ID {
		t.Fatalf("second claim returned wrong request")
	}

	// Queue drained.
	third, err := repo.ClaimNextPending(ctx, tx, 5)
	if err != nil {
		t.Fatalf("third claim: %v", err)
	}
	if third != nil {
		t.Fatalf("expected empty queue, got %v", third.ID)
	}
}

func TestEvaluationRequestRepoLookupWithFallbackField(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewEvaluationRequestRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	promptID := uuid.NewString()

	// Linked only through source_prompt_id, as forked evaluations are.
	forked := testutil.SeedEvaluationRequest(t, ctx, tx, "", types.EvaluationDone, now)
	if err := repo.UpdateFields(ctx, tx, forked.ID, map[string]any{"source_prompt_id": promptID}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	direct, err := repo.ListByPromptID(ctx, tx, promptID)
	if err != nil {
		t.Fatalf("ListByPromptID: %v", err)
	}
	if len(direct) != 0 {
		t.Fatalf("no direct matches expected, got %d", len(direct))
	}

	fallback, err := repo.ListBySourcePromptID(ctx, tx, promptID)
	if err != nil {
		t.Fatalf("ListBySourcePromptID: %v", err)
	}
	if len(fallback) != 1 || fallback[0].ID != forked.ID {
		t.Fatalf("fallback lookup failed")
	}
}

func TestEvaluationRequestRepoMaxAttempts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewEvaluationRequestRepo(db, testutil.Logger(t))

	req := testutil.SeedEvaluationRequest(t, ctx, tx, "", types.EvaluationPending, time.Now().UTC())
	if err := repo.UpdateFields(ctx, tx, req.ID, map[string]any{"attempts": 5}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	claimed, err := repo.ClaimNextPending(ctx, tx, 5)
	if err != nil {
		t.Fatalf("ClaimNextPending: %v", err)
	}
	if claimed != nil {
		t.Fatalf("exhausted request must not be claimed")
	}
}
