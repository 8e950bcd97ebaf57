package jobs

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hackly/garage-backend/internal/logger"
)

// Criterion is one scored dimension of the evaluation rubric.
type Criterion struct {
	Name     string  `yaml:"name"`
	MaxScore float64 `yaml:"max_score"`
	Guidance string  `yaml:"guidance"`
}

// Rubric drives the structured-output evaluation call. A custom rubric can be
// supplied via EVAL_RUBRIC_PATH; otherwise DefaultRubric is used.
type Rubric struct {
	Instructions string      `yaml:"instructions"`
	Criteria     []Criterion `yaml:"criteria"`
}

func DefaultRubric() Rubric {
	return Rubric{
		Instructions: "You are a strict prompt-engineering judge. Score the submitted prompt on each criterion, answer the prompt yourself as ai_reply, and give a one-sentence rationale per criterion.",
		Criteria: []Criterion{
			{Name: "accuracy", MaxScore: 100, Guidance: "How precisely the prompt specifies the desired output and constraints."},
			{Name: "reliability", MaxScore: 100, Guidance: "How consistently the prompt would produce the same quality of answer across runs."},
			{Name: "complexity", MaxScore: 100, Guidance: "How much non-trivial reasoning the prompt demands from the model."},
		},
	}
}

// LoadRubric reads EVAL_RUBRIC_PATH when set, falling back to the default
// rubric on any failure so a bad config file never stalls the worker.
func LoadRubric(log *logger.Logger) Rubric {
	path := strings.TrimSpace(os.Getenv("EVAL_RUBRIC_PATH"))
	if path == "" {
		return DefaultRubric()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Failed to read rubric file; using default", "path", path, "error", err)
		return DefaultRubric()
	}
	var r Rubric
	if err := yaml.Unmarshal(raw, &r); err != nil {
		log.Warn("Failed to parse rubric file; using default", "path", path, "error", err)
		return DefaultRubric()
	}
	if strings.TrimSpace(r.Instructions) == "" || len(r.Criteria) == 0 {
		log.Warn("Rubric file incomplete; using default", "path", path)
		return DefaultRubric()
	}
	return r
}

// SystemPrompt renders the rubric into the system message for the judge.
func (r Rubric) SystemPrompt() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(r.Instructions))
	b.WriteString("\n\nCriteria:\n")
	for _, c := range r.Criteria {
		fmt.Fprintf(&b, "- %s (0-%.0f): %s\n", c.Name, c.MaxScore, c.Guidance)
	}
	return b.String()
}

// Schema builds the strict json_schema the judge must fill in.
func (r Rubric) Schema() map[string]any {
	props := map[string]any{
		"ai_reply": map[string]any{"type": "string"},
	}
	required := []string{"ai_reply", "rationales"}
	rationaleProps := map[string]any{}
	rationaleRequired := []string{}
	for _, c := range r.Criteria {
		props[c.Name] = map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": c.MaxScore,
		}
		required = append(required, c.Name)
		rationaleProps[c.Name] = map[string]any{"type": "string"}
		rationaleRequired = append(rationaleRequired, c.Name)
	}
	props["rationales"] = map[string]any{
		"type":                 "object",
		"properties":           rationaleProps,
		"required":             rationaleRequired,
		"additionalProperties": false,
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// Clamp bounds a raw score to the criterion's range.
func (r Rubric) Clamp(name string, v float64) float64 {
	for _, c := range r.Criteria {
		if c.Name == name {
			if v < 0 {
				return 0
			}
			if v > c.MaxScore {
				return c.MaxScore
			}
			return v
		}
	}
	if v < 0 {
		return 0
	}
	return v
}
