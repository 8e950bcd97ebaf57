package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/types"
)

type LeaderboardRepo interface {
	ListTop(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LeaderboardEntry, error)
	Upsert(ctx context.Context, tx *gorm.DB, entry *types.LeaderboardEntry) error
}

type leaderboardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeaderboardRepo(db *gorm.DB, baseLog *logger.Logger) LeaderboardRepo {
	return &leaderboardRepo{db: db, log: baseLog.With("repo", "LeaderboardRepo")}
}

func (lr *leaderboardRepo) ListTop(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LeaderboardEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.LeaderboardEntry
	if err := transaction.WithContext(ctx).
		Order("points_total DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert keeps one row per user, accumulating points and rounds won.
func (lr *leaderboardRepo) Upsert(ctx context.Context, tx *gorm.DB, entry *types.LeaderboardEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"username":     entry.Username,
				"points_total": gorm.Expr("leaderboard_entry.points_total + ?", entry.PointsTotal),
				"rounds_won":   gorm.Expr("leaderboard_entry.rounds_won + ?", entry.RoundsWon),
				"best_score":   gorm.Expr("CASE WHEN leaderboard_entry.best_score > ? THEN leaderboard_entry.best_score ELSE ? END", entry.BestScore, entry.BestScore),
				"updated_at":   entry.UpdatedAt,
			}),
		}).
		Create(entry).Error
}
