package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/prompts"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/round"
	"github.com/hackly/garage-backend/internal/sse"
)

// RoundService drives the 8-hour cycle: it reports the current window and, at
// each boundary, archives the winning prompt and resets the working set.
// Racing instances may both archive the same round; duplicates are accepted.
type RoundService interface {
	Current(ctx context.Context) round.Window
	CloseRound(ctx context.Context, now time.Time)
	StartScheduler(ctx context.Context)
}

type roundService struct {
	log         *logger.Logger
	clock       *round.Clock
	promptSvc   PromptService
	evalSvc     EvaluationService
	archiveSvc  ArchiveService
	leaderboard LeaderboardService
	promptRepo  repos.PromptRepo
	broadcast   Broadcaster
}

func NewRoundService(
	baseLog *logger.Logger,
	clock *round.Clock,
	promptSvc PromptService,
	evalSvc EvaluationService,
	archiveSvc ArchiveService,
	leaderboard LeaderboardService,
	promptRepo repos.PromptRepo,
	broadcast Broadcaster,
) RoundService {
	return &roundService{
		log:         baseLog.With("service", "RoundService"),
		clock:       clock,
		promptSvc:   promptSvc,
		evalSvc:     evalSvc,
		archiveSvc:  archiveSvc,
		leaderboard: leaderboard,
		promptRepo:  promptRepo,
		broadcast:   broadcast,
	}
}

func (rs *roundService) Current(ctx context.Context) round.Window {
	return rs.clock.CurrentMeta(ctx, time.Now())
}

// CloseRound archives the best prompt of the round containing now and clears
// the working set. Every failure degrades to a log line; the next boundary
// gets another chance.
func (rs *roundService) CloseRound(ctx context.Context, now time.Time) {
	if err := rs.promptSvc.RefreshWorkingSet(ctx); err != nil {
		rs.log.Warn("Could not refresh working set before close, using cached snapshot", "error", err)
	}
	consolidated := prompts.Consolidate(rs.promptSvc.WorkingSet().Snapshot())
	best := prompts.PickBest(consolidated)
	if best == nil {
		rs.log.Info("Round closed with no prompts to archive", "round_id", round.ID(now))
		return
	}

	input := ArchiveInput{
		Prompt:   best.Content,
		PromptID: best.ID,
	}
	if best.ScoreTotal != nil {
		input.ScoreTotal = *best.ScoreTotal
	}

	if eval, err := rs.evalSvc.LatestDoneResult(ctx, best.ID); err != nil {
		rs.log.Warn("Could not look up winner's evaluation", "prompt_id", best.ID, "error", err)
	} else if eval != nil {
		input.EvaluationID = eval.ID
		input.SelectedModel = eval.SelectedModel

		var resMap map[string]any
		if len(eval.Result) > 0 {
			_ = json.Unmarshal(eval.Result, &resMap)
		}
		input.AIReply = resMap["ai_reply"]
		input.CodeLink = resMap["code_link"]
		input.Scores = ArchiveScoresInput{
			Accuracy:    resMap["accuracy"],
			Reliability: resMap["reliability"],
			Complexity:  resMap["complexity"],
		}
		if input.ScoreTotal == nil {
			input.ScoreTotal = resMap["score_total"]
		}
	}

	entry := rs.archiveSvc.Build(ctx, input, now)
	handle := rs.archiveSvc.Append(ctx, entry)
	if handle == nil {
		rs.log.Warn("Archive append failed, abandoning round close", "round_id", entry.RoundID)
		return
	}
	rs.log.Info("Round archived", "round_id", entry.RoundID, "entry_id", *handle, "prompt_id", best.ID)

	if best.OwnerID != nil && *best.OwnerID != "" {
		if err := rs.leaderboard.RecordRoundWin(ctx, *best.OwnerID, entry.ScoreTotal); err != nil {
			rs.log.Warn("Failed to record round win", "user_id", *best.OwnerID, "error", err)
		}
	}

	if err := rs.promptRepo.DeleteAll(ctx, nil); err != nil {
		rs.log.Warn("Failed to clear prompt working set in store", "error", err)
	}
	rs.promptSvc.WorkingSet().Clear()

	if rs.broadcast != nil {
		rs.broadcast.Broadcast(sse.SSEMessage{
			Channel: sse.ChannelPrompts,
			Event:   sse.SSEEventPromptUpdated,
			Data:    map[string]any{"round_id": entry.RoundID, "working_set_cleared": true},
		})
	}
}

// StartScheduler sleeps until each upcoming boundary and closes the round that
// just ended. The one-second floor guards against a clock that reports an
// instant exactly on a boundary.
func (rs *roundService) StartScheduler(ctx context.Context) {
	go func() {
		for {
			now := time.Now()
			wait := time.Until(round.End(now))
			if wait < time.Second {
				wait = time.Second
			}
			rs.log.Info("Round scheduler sleeping until boundary", "round_id", round.ID(now), "wait", wait.String())

			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
				// Archive under the round that just ended, not the new one.
				rs.CloseRound(ctx, now)
			}
		}
	}()
}
