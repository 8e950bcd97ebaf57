package services

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/round"
	"github.com/hackly/garage-backend/internal/sse"
	"github.com/hackly/garage-backend/internal/types"
)

// DefaultArchiveListLimit bounds the archive view query.
const DefaultArchiveListLimit = 100

// ArchiveInput is the loose payload assembled when a round closes. Fields are
// untyped on purpose: the winning prompt's evaluation metadata arrives as
// free-form JSON and every field must coerce to a defined value.
type ArchiveInput struct {
	Prompt        any
	AIReply       any
	PromptID      any
	EvaluationID  any
	SelectedModel any
	CodeLink      any
	ScoreTotal    any
	Scores        ArchiveScoresInput
}

type ArchiveScoresInput struct {
	Accuracy    any
	Reliability any
	Complexity  any
}

// ArchiveService owns the immutable round history. Store failures degrade:
// Append returns a nil handle, List returns an empty slice, Update returns
// false. Nothing here surfaces an error to the HTTP layer.
type ArchiveService interface {
	Build(ctx context.Context, input ArchiveInput, now time.Time) *types.ArchiveEntry
	Append(ctx context.Context, entry *types.ArchiveEntry) *string
	List(ctx context.Context, limit int) []*types.ArchiveEntry
	Update(ctx context.Context, entryID string, fields map[string]any) bool
}

type archiveService struct {
	log       *logger.Logger
	repo      repos.ArchiveEntryRepo
	clock     *round.Clock
	broadcast Broadcaster
}

func NewArchiveService(baseLog *logger.Logger, repo repos.ArchiveEntryRepo, clock *round.Clock, broadcast Broadcaster) ArchiveService {
	return &archiveService{
		log:       baseLog.With("service", "ArchiveService"),
		repo:      repo,
		clock:     clock,
		broadcast: broadcast,
	}
}

// Build assembles an entry for the round containing now; now attributes the
// entry to a round and may lie in the past, while created_at records the
// actual instant of archival. Every declared field gets an explicit value:
// scores coerce to finite numbers (0 otherwise), string fields default to "",
// code_link to nil when absent or empty.
func (as *archiveService) Build(ctx context.Context, input ArchiveInput, now time.Time) *types.ArchiveEntry {
	meta := as.clock.CurrentMeta(ctx, now)

	scores := types.Scores{
		Accuracy:    coerceNumber(input.Scores.Accuracy),
		Reliability: coerceNumber(input.Scores.Reliability),
		Complexity:  coerceNumber(input.Scores.Complexity),
	}
	scores.Total = scores.Accuracy + scores.Reliability + scores.Complexity

	scoreTotal := scores.Total
	if v, ok := finiteNumber(input.ScoreTotal); ok {
		scoreTotal = v
	}

	return &types.ArchiveEntry{
		ID:             uuid.NewString(),
		RoundID:        meta.ID,
		RoundNumber:    meta.RoundNumber,
		RoundStartedAt: meta.StartsAt,
		RoundEndsAt:    meta.EndsAt,
		CreatedAt:      time.Now().UTC(),

		Prompt:        coerceString(input.Prompt),
		AIReply:       coerceString(input.AIReply),
		PromptID:      coerceString(input.PromptID),
		EvaluationID:  coerceString(input.EvaluationID),
		SelectedModel: coerceString(input.SelectedModel),

		ScoreTotal: scoreTotal,
		Scores:     scores,
		CodeLink:   coerceNullableString(input.CodeLink),
	}
}

// Append persists the entry, returning its identifier or nil on failure.
// Duplicate round_ids are allowed; racing archivers both win.
func (as *archiveService) Append(ctx context.Context, entry *types.ArchiveEntry) *string {
	if entry == nil {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	created, err := as.repo.Create(ctx, nil, entry)
	if err != nil {
		as.log.Warn("Failed to append archive entry", "round_id", entry.RoundID, "error", err)
		return nil
	}
	if as.broadcast != nil {
		as.broadcast.Broadcast(sse.SSEMessage{
			Channel: sse.ChannelArchive,
			Event:   sse.SSEEventRoundArchived,
			Data:    created,
		})
	}
	return &created.ID
}

// List returns up to limit entries newest-first. If the ordered query fails it
// falls back to an unordered fetch sorted client-side; if that also fails it
// returns an empty slice.
func (as *archiveService) List(ctx context.Context, limit int) []*types.ArchiveEntry {
	if limit <= 0 {
		limit = DefaultArchiveListLimit
	}
	entries, err := as.repo.ListNewest(ctx, nil, limit)
	if err == nil {
		return entries
	}
	as.log.Warn("Ordered archive query failed, falling back to unordered fetch", "error", err)

	entries, err = as.repo.ListUnordered(ctx, nil, limit)
	if err != nil {
		as.log.Warn("Unordered archive fetch failed, returning empty list", "error", err)
		return []*types.ArchiveEntry{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

// Update merges fields into an existing entry, reporting success as a bool.
func (as *archiveService) Update(ctx context.Context, entryID string, fields map[string]any) bool {
	if entryID == "" || len(fields) == 0 {
		return false
	}
	if err := as.repo.UpdateFields(ctx, nil, entryID, fields); err != nil {
		as.log.Warn("Failed to update archive entry", "entry_id", entryID, "error", err)
		return false
	}
	if as.broadcast != nil {
		as.broadcast.Broadcast(sse.SSEMessage{
			Channel: sse.ChannelArchive,
			Event:   sse.SSEEventArchiveUpdated,
			Data:    map[string]any{"entry_id": entryID},
		})
	}
	return true
}

func coerceNumber(v any) float64 {
	return types.ToNumber(v)
}

// finiteNumber reports whether v carries a usable numeric value, keeping the
// distinction between "absent" and "zero" that ToNumber erases.
func finiteNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case float32:
		return finiteNumber(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return finiteNumber(f)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return finiteNumber(f)
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func coerceNullableString(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
