package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/repos/testutil"
	"github.com/hackly/garage-backend/internal/types"
)

func TestDrainOneRunsOldestPendingToDone(t *testing.T) {
	ai := &fakeAI{obj: map[string]any{
		"accuracy":    50.0,
		"reliability": 50.0,
		"complexity":  50.0,
		"ai_reply":    "ok",
	}}
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	requests := repos.NewEvaluationRequestRepo(tx, log)
	prompts := repos.NewPromptRepo(tx, log)
	ev := NewEvaluator(log, ai, DefaultRubric(), requests, prompts, &captureBus{})
	w := NewWorker(log, requests, ev)

	older := testutil.SeedEvaluationRequest(t, ctx, tx, "", types.EvaluationPending, time.Now().UTC().Add(-time.Minute))
	newer := testutil.SeedEvaluationRequest(t, ctx, tx, "", types.EvaluationPending, time.Now().UTC())

	w.drainOne(ctx)

	got, err := requests.GetByID(ctx, nil, older.ID)
	if err != nil {
		t.Fatalf("get older: %v", err)
	}
	if got.Status != types.EvaluationDone {
		t.Fatalf("older status = %s, want done", got.Status)
	}
	still, err := requests.GetByID(ctx, nil, newer.ID)
	if err != nil {
		t.Fatalf("get newer: %v", err)
	}
	if still.Status != types.EvaluationPending {
		t.Fatalf("newer status = %s, want pending", still.Status)
	}
}

func TestDrainOneNoopOnEmptyQueue(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	requests := repos.NewEvaluationRequestRepo(tx, log)
	prompts := repos.NewPromptRepo(tx, log)
	ev := NewEvaluator(log, &fakeAI{}, DefaultRubric(), requests, prompts, &captureBus{})
	w := NewWorker(log, requests, ev)

	w.drainOne(ctx)
}
