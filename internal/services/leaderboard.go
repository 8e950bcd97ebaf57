package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/sse"
	"github.com/hackly/garage-backend/internal/types"
)

const DefaultLeaderboardLimit = 100

// RoundWinPoints is awarded to the owner of the archived winning prompt.
const RoundWinPoints = 10

// LeaderboardService serves standings from the mirror table, falling back to
// the user table while the mirror is still empty.
type LeaderboardService interface {
	List(ctx context.Context, limit int) []*types.LeaderboardEntry
	RecordRoundWin(ctx context.Context, userID string, score float64) error
}

type leaderboardService struct {
	log       *logger.Logger
	repo      repos.LeaderboardRepo
	userRepo  repos.UserRepo
	broadcast Broadcaster
}

func NewLeaderboardService(baseLog *logger.Logger, repo repos.LeaderboardRepo, userRepo repos.UserRepo, broadcast Broadcaster) LeaderboardService {
	return &leaderboardService{
		log:       baseLog.With("service", "LeaderboardService"),
		repo:      repo,
		userRepo:  userRepo,
		broadcast: broadcast,
	}
}

// List serves the mirror when it has rows, otherwise synthesizes entries from
// the user table. Failures degrade to an empty list.
func (ls *leaderboardService) List(ctx context.Context, limit int) []*types.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	mirror, err := ls.repo.ListTop(ctx, nil, limit)
	if err != nil {
		ls.log.Warn("Leaderboard mirror fetch failed, returning empty list", "error", err)
		return []*types.LeaderboardEntry{}
	}
	if len(mirror) > 0 {
		return mirror
	}

	users, err := ls.userRepo.ListByPoints(ctx, nil, limit)
	if err != nil {
		ls.log.Warn("Leaderboard user fallback failed, returning empty list", "error", err)
		return []*types.LeaderboardEntry{}
	}
	out := make([]*types.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		out = append(out, &types.LeaderboardEntry{
			ID:          u.ID,
			UserID:      u.ID,
			Username:    u.Username,
			PointsTotal: u.PointsTotal,
			UpdatedAt:   u.UpdatedAt,
		})
	}
	return out
}

// RecordRoundWin bumps both the mirror row and the user's running total.
func (ls *leaderboardService) RecordRoundWin(ctx context.Context, userID string, score float64) error {
	if userID == "" {
		return fmt.Errorf("user id required")
	}
	found, err := ls.userRepo.GetByIDs(ctx, nil, []string{userID})
	if err != nil {
		return fmt.Errorf("failed to load winner: %w", err)
	}
	if len(found) == 0 {
		return fmt.Errorf("winner %s not found", userID)
	}
	user := found[0]

	entry := &types.LeaderboardEntry{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Username:    user.Username,
		PointsTotal: RoundWinPoints,
		RoundsWon:   1,
		BestScore:   score,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := ls.repo.Upsert(ctx, nil, entry); err != nil {
		return fmt.Errorf("failed to upsert leaderboard entry: %w", err)
	}
	if err := ls.userRepo.UpdateFields(ctx, nil, user.ID, map[string]any{
		"points_total": user.PointsTotal + RoundWinPoints,
	}); err != nil {
		return fmt.Errorf("failed to bump user points: %w", err)
	}

	if ls.broadcast != nil {
		ls.broadcast.Broadcast(sse.SSEMessage{
			Channel: sse.ChannelLeaderboard,
			Event:   sse.SSEEventLeaderboardMoved,
			Data:    map[string]any{"user_id": user.ID},
		})
	}
	return nil
}
