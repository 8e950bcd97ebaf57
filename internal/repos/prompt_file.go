package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/types"
)

type PromptFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, files []*types.PromptFile) ([]*types.PromptFile, error)
	ListByPromptID(ctx context.Context, tx *gorm.DB, promptID string) ([]*types.PromptFile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.PromptFile, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type promptFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptFileRepo(db *gorm.DB, baseLog *logger.Logger) PromptFileRepo {
	return &promptFileRepo{db: db, log: baseLog.With("repo", "PromptFileRepo")}
}

func (fr *promptFileRepo) Create(ctx context.Context, tx *gorm.DB, files []*types.PromptFile) ([]*types.PromptFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(files) == 0 {
		return []*types.PromptFile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (fr *promptFileRepo) ListByPromptID(ctx context.Context, tx *gorm.DB, promptID string) ([]*types.PromptFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.PromptFile
	if promptID == "" {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("prompt_id = ?", promptID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *promptFileRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.PromptFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var result types.PromptFile
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (fr *promptFileRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.PromptFile{}).Error
}
