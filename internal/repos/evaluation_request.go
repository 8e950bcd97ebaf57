package repos

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/types"
)

type EvaluationRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, req *types.EvaluationRequest) (*types.EvaluationRequest, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.EvaluationRequest, error)
	ListByPromptID(ctx context.Context, tx *gorm.DB, promptID string) ([]*types.EvaluationRequest, error)
	ListBySourcePromptID(ctx context.Context, tx *gorm.DB, promptID string) ([]*types.EvaluationRequest, error)
	ClaimNextPending(ctx context.Context, tx *gorm.DB, maxAttempts int) (*types.EvaluationRequest, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id string, updates map[string]any) error
}

type evaluationRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvaluationRequestRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationRequestRepo {
	return &evaluationRequestRepo{db: db, log: baseLog.With("repo", "EvaluationRequestRepo")}
}

func (er *evaluationRequestRepo) Create(ctx context.Context, tx *gorm.DB, req *types.EvaluationRequest) (*types.EvaluationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if err := transaction.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (er *evaluationRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.EvaluationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var result types.EvaluationRequest
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *evaluationRequestRepo) ListByPromptID(ctx context.Context, tx *gorm.DB, promptID string) ([]*types.EvaluationRequest, error) {
	return er.listByField(ctx, tx, "prompt_id", promptID)
}

func (er *evaluationRequestRepo) ListBySourcePromptID(ctx context.Context, tx *gorm.DB, promptID string) ([]*types.EvaluationRequest, error) {
	return er.listByField(ctx, tx, "source_prompt_id", promptID)
}

func (er *evaluationRequestRepo) listByField(ctx context.Context, tx *gorm.DB, field, promptID string) ([]*types.EvaluationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.EvaluationRequest
	if promptID == "" {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where(field+" = ?", promptID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ClaimNextPending flips the oldest pending request to processing and returns
// it, or nil when the queue is empty. Uses SKIP LOCKED on postgres so
// concurrent workers never claim the same row.
func (er *evaluationRequestRepo) ClaimNextPending(ctx context.Context, tx *gorm.DB, maxAttempts int) (*types.EvaluationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var claimed *types.EvaluationRequest
	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var req types.EvaluationRequest
		q := inner.
			Where("status = ?", types.EvaluationPending).
			Where("attempts < ?", maxAttempts).
			Order("created_at ASC")
		if inner.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.First(&req).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		updates := map[string]any{
			"status":     types.EvaluationProcessing,
			"attempts":   gorm.Expr("attempts + 1"),
			"updated_at": time.Now().UTC(),
		}
		if err := inner.Model(&types.EvaluationRequest{}).
			Where("id = ?", req.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		req.Status = types.EvaluationProcessing
		req.Attempts++
		claimed = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (er *evaluationRequestRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.EvaluationRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
