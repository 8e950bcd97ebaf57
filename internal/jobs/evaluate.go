package jobs

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/hackly/garage-backend/internal/clients/openai"
	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/sse"
	"github.com/hackly/garage-backend/internal/types"
)

// Broadcaster is the slice of the SSE hub the evaluator needs.
type Broadcaster interface {
	Broadcast(msg sse.SSEMessage)
}

// Evaluator scores a claimed evaluation request and writes the outcome back.
type Evaluator struct {
	log       *logger.Logger
	ai        openai.Client
	rubric    Rubric
	requests  repos.EvaluationRequestRepo
	prompts   repos.PromptRepo
	broadcast Broadcaster
}

func NewEvaluator(baseLog *logger.Logger, ai openai.Client, rubric Rubric, requests repos.EvaluationRequestRepo, prompts repos.PromptRepo, broadcast Broadcaster) *Evaluator {
	return &Evaluator{
		log:       baseLog.With("component", "Evaluator"),
		ai:        ai,
		rubric:    rubric,
		requests:  requests,
		prompts:   prompts,
		broadcast: broadcast,
	}
}

// Process runs one claimed request to a terminal status. Scoring failures land
// in status=error with the message preserved; they never bubble up to the
// worker loop.
func (e *Evaluator) Process(ctx context.Context, req *types.EvaluationRequest) {
	ai := e.ai
	if model := strings.TrimSpace(req.SelectedModel); model != "" && model != types.DefaultModelLabel {
		ai = openai.WithModel(ai, model)
	}

	obj, err := ai.GenerateJSON(ctx, e.rubric.SystemPrompt(), req.Prompt, "prompt_evaluation", e.rubric.Schema())
	if err != nil {
		e.log.Warn("Evaluation call failed", "request_id", req.ID, "error", err)
		e.markError(ctx, req, err.Error())
		return
	}

	result := e.normalize(obj)
	raw, err := json.Marshal(result)
	if err != nil {
		e.markError(ctx, req, "failed to encode evaluation result")
		return
	}

	updates := map[string]any{
		"status":     types.EvaluationDone,
		"result":     datatypes.JSON(raw),
		"error":      "",
		"updated_at": time.Now().UTC(),
	}
	if err := e.requests.UpdateFields(ctx, nil, req.ID, updates); err != nil {
		e.log.Error("Failed to persist evaluation result", "request_id", req.ID, "error", err)
		return
	}

	if req.PromptID != nil && *req.PromptID != "" {
		parsed := types.ParseEvaluationResult(datatypes.JSON(raw))
		promptUpdates := map[string]any{
			"score_total":       parsed.ScoreTotal,
			"latest_evaluation": datatypes.JSON(raw),
		}
		if err := e.prompts.UpdateFields(ctx, nil, *req.PromptID, promptUpdates); err != nil {
			e.log.Warn("Failed to write scores back to prompt", "prompt_id", *req.PromptID, "error", err)
		} else if e.broadcast != nil {
			e.broadcast.Broadcast(sse.SSEMessage{
				Channel: sse.ChannelPrompts,
				Event:   sse.SSEEventPromptUpdated,
				Data:    map[string]any{"prompt_id": *req.PromptID},
			})
		}
	}

	if e.broadcast != nil {
		e.broadcast.Broadcast(sse.SSEMessage{
			Channel: sse.EvaluationChannel(req.ID),
			Event:   sse.SSEEventEvaluationUpdated,
			Data: map[string]any{
				"request_id": req.ID,
				"status":     types.EvaluationDone,
				"result":     result,
			},
		})
	}
}

func (e *Evaluator) normalize(obj map[string]any) map[string]any {
	result := map[string]any{}
	var total float64
	for _, c := range e.rubric.Criteria {
		v := e.rubric.Clamp(c.Name, types.ToNumber(obj[c.Name]))
		result[c.Name] = v
		total += v
	}
	result["score_total"] = total

	if reply, ok := obj["ai_reply"].(string); ok {
		result["ai_reply"] = reply
	} else {
		result["ai_reply"] = ""
	}

	rationales := map[string]any{}
	if rats, ok := obj["rationales"].(map[string]any); ok {
		for _, c := range e.rubric.Criteria {
			if s, ok := rats[c.Name].(string); ok {
				rationales[c.Name] = s
			}
		}
	}
	result["rationales"] = rationales
	return result
}

func (e *Evaluator) markError(ctx context.Context, req *types.EvaluationRequest, msg string) {
	updates := map[string]any{
		"status":     types.EvaluationError,
		"error":      msg,
		"updated_at": time.Now().UTC(),
	}
	if err := e.requests.UpdateFields(ctx, nil, req.ID, updates); err != nil {
		e.log.Error("Failed to mark request as errored", "request_id", req.ID, "error", err)
		return
	}
	if e.broadcast != nil {
		e.broadcast.Broadcast(sse.SSEMessage{
			Channel: sse.EvaluationChannel(req.ID),
			Event:   sse.SSEEventEvaluationUpdated,
			Data: map[string]any{
				"request_id": req.ID,
				"status":     types.EvaluationError,
				"error":      msg,
			},
		})
	}
}
