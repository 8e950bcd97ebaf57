package prompts

import (
	"sort"
	"strings"

	"github.com/hackly/garage-backend/internal/types"
)

type SortMode string

const (
	SortByDate  SortMode = "date"
	SortByVotes SortMode = "votes"
	SortByScore SortMode = "score"
)

// ParseSortMode falls back to date ordering for unknown values.
func ParseSortMode(raw string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(raw))) {
	case SortByVotes:
		return SortByVotes
	case SortByScore:
		return SortByScore
	default:
		return SortByDate
	}
}

// Sort orders a consolidated list for display without mutating the input.
// Date honors asc; votes and score are always highest-first. The draft row, if
// present, stays pinned at the front.
func Sort(revisions []*types.PromptRevision, mode SortMode, asc bool) []*types.PromptRevision {
	out := make([]*types.PromptRevision, len(revisions))
	copy(out, revisions)

	pinned := 0
	if len(out) > 0 && out[0].IsDraft() {
		pinned = 1
	}
	rest := out[pinned:]

	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		switch mode {
		case SortByVotes:
			return a.Votes > b.Votes
		case SortByScore:
			return a.Score() > b.Score()
		default:
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return out
}
