package types

import (
	"time"
)

// Scores is the per-axis score block archived with a round winner. Total is
// always the unweighted sum of the three axes.
type Scores struct {
	Accuracy    float64 `gorm:"column:accuracy;not null;default:0" json:"accuracy"`
	Reliability float64 `gorm:"column:reliability;not null;default:0" json:"reliability"`
	Complexity  float64 `gorm:"column:complexity;not null;default:0" json:"complexity"`
	Total       float64 `gorm:"column:total;not null;default:0" json:"total"`
}

// ArchiveEntry is the immutable record of a round's winning prompt. After
// archival only AIReply may change (user-editable correction).
type ArchiveEntry struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	RoundID        string    `gorm:"column:round_id;not null;index" json:"round_id"`
	RoundNumber    int       `gorm:"column:round_number;not null" json:"round_number"`
	RoundStartedAt time.Time `gorm:"column:round_started_at;not null" json:"round_started_at"`
	RoundEndsAt    time.Time `gorm:"column:round_ends_at;not null" json:"round_ends_at"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`

	Prompt        string `gorm:"column:prompt;type:text;not null;default:''" json:"prompt"`
	AIReply       string `gorm:"column:ai_reply;type:text;not null;default:''" json:"ai_reply"`
	PromptID      string `gorm:"column:prompt_id;not null;default:''" json:"prompt_id"`
	EvaluationID  string `gorm:"column:evaluation_id;not null;default:''" json:"evaluation_id"`
	SelectedModel string `gorm:"column:selected_model;not null;default:''" json:"selected_model"`

	// Prefix must not collide with the top-level score_total column.
	ScoreTotal float64 `gorm:"column:score_total;not null;default:0" json:"score_total"`
	Scores     Scores  `gorm:"embedded;embeddedPrefix:scores_" json:"scores"`

	CodeLink *string `gorm:"column:code_link" json:"code_link"`
}

func (ArchiveEntry) TableName() string { return "archive_entry" }
