package types

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DraftRevisionID is the reserved identifier of the unsaved editor row the UI
// keeps at the top of the prompt list. It never reaches the database.
const DraftRevisionID = "blank"

type PromptRevision struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          *string        `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Title            string         `gorm:"column:title" json:"title"`
	Content          string         `gorm:"column:content;type:text" json:"content"`
	BranchRootID     *string        `gorm:"type:uuid;index" json:"branch_root_id,omitempty"`
	ParentID         *string        `gorm:"type:uuid" json:"parent_id,omitempty"`
	IsCurrentBest    bool           `gorm:"column:is_current_best;not null;default:false" json:"is_current_best"`
	ScoreTotal       *float64       `gorm:"column:score_total" json:"score_total,omitempty"`
	Votes            int            `gorm:"column:votes;not null;default:0" json:"votes"`
	LatestEvaluation datatypes.JSON `gorm:"column:latest_evaluation;type:jsonb" json:"latest_evaluation,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PromptRevision) TableName() string { return "prompt_revision" }

// RootID is the lineage key used for consolidation. A revision without an
// explicit branch root is its own root.
func (r *PromptRevision) RootID() string {
	if r.BranchRootID != nil && *r.BranchRootID != "" {
		return *r.BranchRootID
	}
	return r.ID
}

// Score is the normalized aggregate score. Missing scores count as zero so
// unevaluated revisions never beat evaluated ones.
func (r *PromptRevision) Score() float64 {
	if r.ScoreTotal == nil {
		return 0
	}
	return *r.ScoreTotal
}

func (r *PromptRevision) IsDraft() bool {
	return r != nil && r.ID == DraftRevisionID
}
