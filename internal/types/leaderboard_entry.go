package types

import (
	"time"
)

// LeaderboardEntry is the public mirror of per-user standings. The live list
// falls back to the user table when this mirror has not been populated yet.
type LeaderboardEntry struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Username    string    `gorm:"column:username;not null" json:"username"`
	PointsTotal int       `gorm:"column:points_total;not null;default:0;index" json:"points_total"`
	RoundsWon   int       `gorm:"column:rounds_won;not null;default:0" json:"rounds_won"`
	BestScore   float64   `gorm:"column:best_score;not null;default:0" json:"best_score"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (LeaderboardEntry) TableName() string { return "leaderboard_entry" }
