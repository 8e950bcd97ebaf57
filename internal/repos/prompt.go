package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/types"
)

type PromptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, revisions []*types.PromptRevision) ([]*types.PromptRevision, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.PromptRevision, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.PromptRevision, error)
	ListByRoot(ctx context.Context, tx *gorm.DB, rootID string) ([]*types.PromptRevision, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id string, updates map[string]any) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type promptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	return &promptRepo{db: db, log: baseLog.With("repo", "PromptRepo")}
}

func (pr *promptRepo) Create(ctx context.Context, tx *gorm.DB, revisions []*types.PromptRevision) ([]*types.PromptRevision, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(revisions) == 0 {
		return []*types.PromptRevision{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&revisions).Error; err != nil {
		return nil, err
	}
	return revisions, nil
}

func (pr *promptRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.PromptRevision, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.PromptRevision
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *promptRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.PromptRevision, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.PromptRevision
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *promptRepo) ListByRoot(ctx context.Context, tx *gorm.DB, rootID string) ([]*types.PromptRevision, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.PromptRevision
	if rootID == "" {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("branch_root_id = ? OR id = ?", rootID, rootID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *promptRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.PromptRevision{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteAll soft-deletes the whole working set; used at round boundaries.
func (pr *promptRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.PromptRevision{}).Error
}
