package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/types"
)

type ArchiveEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.ArchiveEntry) (*types.ArchiveEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ArchiveEntry, error)
	ListNewest(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ArchiveEntry, error)
	ListUnordered(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ArchiveEntry, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id string, updates map[string]any) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type archiveEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArchiveEntryRepo(db *gorm.DB, baseLog *logger.Logger) ArchiveEntryRepo {
	return &archiveEntryRepo{db: db, log: baseLog.With("repo", "ArchiveEntryRepo")}
}

func (ar *archiveEntryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ArchiveEntry) (*types.ArchiveEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (ar *archiveEntryRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ArchiveEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.ArchiveEntry
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *archiveEntryRepo) ListNewest(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ArchiveEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.ArchiveEntry
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListUnordered is the fallback when the store rejects the ordered query;
// callers sort client-side by created_at.
func (ar *archiveEntryRepo) ListUnordered(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ArchiveEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.ArchiveEntry
	if err := transaction.WithContext(ctx).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *archiveEntryRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id string, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.ArchiveEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (ar *archiveEntryRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ArchiveEntry{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
