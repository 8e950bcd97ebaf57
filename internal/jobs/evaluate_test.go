package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/repos/testutil"
	"github.com/hackly/garage-backend/internal/sse"
	"github.com/hackly/garage-backend/internal/types"
)

type fakeAI struct {
	obj map[string]any
	err error
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.obj, nil
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("not implemented")
}

type captureBus struct {
	msgs []sse.SSEMessage
}

func (c *captureBus) Broadcast(msg sse.SSEMessage) { c.msgs = append(c.msgs, msg) }

func TestProcessWritesResultAndPromptScores(t *testing.T) {
	ai := &fakeAI{obj: map[string]any{
		"accuracy":    80.0,
		"reliability": 70.0,
		"complexity":  60.0,
		"ai_reply":    "here is an answer",
		"rationales": map[string]any{
			"accuracy":    "precise ask",
			"reliability": "stable phrasing",
			"complexity":  "multi-step",
		},
	}}
	bus := &captureBus{}
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	requests := repos.NewEvaluationRequestRepo(tx, testutil.Logger(t))
	prompts := repos.NewPromptRepo(tx, testutil.Logger(t))
	ev := NewEvaluator(testutil.Logger(t), ai, DefaultRubric(), requests, prompts, bus)

	prompt := testutil.SeedPrompt(t, ctx, tx, "", nil, time.Now().UTC())
	req := testutil.SeedEvaluationRequest(t, ctx, tx, prompt.ID, types.EvaluationProcessing, time.Now().UTC())
	ev.Process(ctx, req)

	got, err := requests.GetByID(ctx, nil, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != types.EvaluationDone {
		t.Fatalf("status = %s, want done", got.Status)
	}
	parsed := types.ParseEvaluationResult(got.Result)
	if parsed.ScoreTotal != 210 {
		t.Fatalf("score_total = %v, want 210", parsed.ScoreTotal)
	}
	if parsed.Accuracy != 80 || parsed.Reliability != 70 || parsed.Complexity != 60 {
		t.Fatalf("scores = %v/%v/%v", parsed.Accuracy, parsed.Reliability, parsed.Complexity)
	}

	gotPrompt, err := prompts.GetByID(ctx, nil, prompt.ID)
	if err != nil {
		t.Fatalf("get prompt: %v", err)
	}
	if gotPrompt.ScoreTotal == nil || *gotPrompt.ScoreTotal != 210 {
		t.Fatalf("prompt score_total = %v, want 210", gotPrompt.ScoreTotal)
	}
	if len(gotPrompt.LatestEvaluation) == 0 {
		t.Fatal("prompt latest_evaluation not written")
	}

	var sawEval, sawPrompt bool
	for _, m := range bus.msgs {
		if m.Channel == sse.EvaluationChannel(req.ID) && m.Event == sse.SSEEventEvaluationUpdated {
			sawEval = true
		}
		if m.Channel == sse.ChannelPrompts && m.Event == sse.SSEEventPromptUpdated {
			sawPrompt = true
		}
	}
	if !sawEval || !sawPrompt {
		t.Fatalf("broadcasts missing: eval=%v prompt=%v", sawEval, sawPrompt)
	}
}

func TestProcessClampsOutOfRangeScores(t *testing.T) {
	ai := &fakeAI{obj: map[string]any{
		"accuracy":    250.0,
		"reliability": -10.0,
		"complexity":  "not a number",
		"ai_reply":    "reply",
	}}
	bus := &captureBus{}
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	requests := repos.NewEvaluationRequestRepo(tx, testutil.Logger(t))
	prompts := repos.NewPromptRepo(tx, testutil.Logger(t))
	ev := NewEvaluator(testutil.Logger(t), ai, DefaultRubric(), requests, prompts, bus)

	req := testutil.SeedEvaluationRequest(t, ctx, tx, "", types.EvaluationProcessing, time.Now().UTC())
	ev.Process(ctx, req)

	got, err := requests.GetByID(ctx, nil, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	parsed := types.ParseEvaluationResult(got.Result)
	if parsed.Accuracy != 100 {
		t.Fatalf("accuracy = %v, want clamped 100", parsed.Accuracy)
	}
	if parsed.Reliability != 0 || parsed.Complexity != 0 {
		t.Fatalf("reliability/complexity = %v/%v, want 0/0", parsed.Reliability, parsed.Complexity)
	}
	if parsed.ScoreTotal != 100 {
		t.Fatalf("score_total = %v, want 100", parsed.ScoreTotal)
	}
}

func TestProcessScoringFailureMarksError(t *testing.T) {
	ai := &fakeAI{err: errors.New("model unavailable")}
	bus := &captureBus{}
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	requests := repos.NewEvaluationRequestRepo(tx, testutil.Logger(t))
	prompts := repos.NewPromptRepo(tx, testutil.Logger(t))
	ev := NewEvaluator(testutil.Logger(t), ai, DefaultRubric(), requests, prompts, bus)

	req := testutil.SeedEvaluationRequest(t, ctx, tx, "", types.EvaluationProcessing, time.Now().UTC())
	ev.Process(ctx, req)

	got, err := requests.GetByID(ctx, nil, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != types.EvaluationError {
		t.Fatalf("status = %s, want error", got.Status)
	}
	if got.Error != "model unavailable" {
		t.Fatalf("error = %q", got.Error)
	}
	if len(bus.msgs) == 0 {
		t.Fatal("no SSE broadcast for errored request")
	}
}

func TestRubricSchemaCoversCriteria(t *testing.T) {
	r := DefaultRubric()
	schema := r.Schema()
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatal("schema missing properties")
	}
	for _, c := range r.Criteria {
		if _, ok := props[c.Name]; !ok {
			t.Fatalf("schema missing criterion %q", c.Name)
		}
	}
	if _, ok := props["ai_reply"]; !ok {
		t.Fatal("schema missing ai_reply")
	}
	if _, ok := props["rationales"]; !ok {
		t.Fatal("schema missing rationales")
	}
}
