package types

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// EvaluationStatus is the lifecycle of an evaluation request. The original
// store kept this as a bare string; keeping it typed lets dispatch switch
// exhaustively.
type EvaluationStatus string

const (
	EvaluationPending    EvaluationStatus = "pending"
	EvaluationProcessing EvaluationStatus = "processing"
	EvaluationDone       EvaluationStatus = "done"
	EvaluationError      EvaluationStatus = "error"
)

func (s EvaluationStatus) Terminal() bool {
	return s == EvaluationDone || s == EvaluationError
}

// DefaultModelLabel is used when the submitter picked no model.
const DefaultModelLabel = "Auto Model"

type EvaluationRequest struct {
	ID             string           `gorm:"type:uuid;primaryKey" json:"id"`
	Prompt         string           `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Status         EvaluationStatus `gorm:"column:status;not null;default:'pending';index" json:"status"`
	PromptID       *string          `gorm:"type:uuid;index" json:"prompt_id,omitempty"`
	SourcePromptID *string          `gorm:"type:uuid;index" json:"source_prompt_id,omitempty"`
	SelectedModel  string           `gorm:"column:selected_model" json:"selected_model"`
	Result         datatypes.JSON   `gorm:"column:result;type:jsonb" json:"result,omitempty"`
	Error          string           `gorm:"column:error" json:"error,omitempty"`
	Attempts       int              `gorm:"column:attempts;not null;default:0" json:"attempts"`
	CreatedAt      time.Time        `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null" json:"updated_at"`
}

func (EvaluationRequest) TableName() string { return "evaluation_request" }

// EvaluationResult is the typed form of a result document. Raw results arrive
// as loose JSON from the scorer; ParseEvaluationResult normalizes them once at
// the ingestion boundary instead of re-deriving fallbacks at every read site.
type EvaluationResult struct {
	ScoreTotal  float64              `json:"score_total"`
	Accuracy    float64              `json:"accuracy"`
	Reliability float64              `json:"reliability"`
	Complexity  float64              `json:"complexity"`
	Rationales  EvaluationRationales `json:"rationales"`
}

type EvaluationRationales struct {
	Accuracy    string `json:"accuracy"`
	Reliability string `json:"reliability"`
	Complexity  string `json:"complexity"`
}

// ParseEvaluationResult decodes a stored result payload, coercing every score
// to a finite number (0 otherwise). It never fails: a malformed payload
// yields an all-zero result.
func ParseEvaluationResult(raw datatypes.JSON) EvaluationResult {
	var obj map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &obj)
	}
	res := EvaluationResult{
		Accuracy:    ToNumber(obj["accuracy"]),
		Reliability: ToNumber(obj["reliability"]),
		Complexity:  ToNumber(obj["complexity"]),
	}
	if v, ok := obj["score_total"]; ok {
		res.ScoreTotal = ToNumber(v)
	} else {
		res.ScoreTotal = res.Accuracy + res.Reliability + res.Complexity
	}
	if rats, ok := obj["rationales"].(map[string]any); ok {
		res.Rationales.Accuracy, _ = rats["accuracy"].(string)
		res.Rationales.Reliability, _ = rats["reliability"].(string)
		res.Rationales.Complexity, _ = rats["complexity"].(string)
	}
	return res
}

// ToNumber coerces arbitrary JSON values the way the store's loose documents
// require: numbers pass through, numeric strings parse, everything else
// (including NaN and infinities) becomes 0.
func ToNumber(v any) float64 {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		n, _ = t.Float64()
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
