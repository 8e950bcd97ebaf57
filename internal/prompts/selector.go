package prompts

import (
	"github.com/hackly/garage-backend/internal/types"
)

// Consolidate reduces a working set to at most one revision per lineage root.
// Within a group an explicit is_current_best flag wins (first-seen); otherwise
// the strictly-highest score wins, with the first-seen revision keeping ties.
// The unsaved draft row is excluded from grouping and prepended verbatim.
// Group order follows first appearance of each root in the input.
func Consolidate(revisions []*types.PromptRevision) []*types.PromptRevision {
	groups := make(map[string][]*types.PromptRevision)
	order := make([]string, 0, len(revisions))
	var draft *types.PromptRevision

	for _, r := range revisions {
		if r == nil {
			continue
		}
		if r.IsDraft() {
			if draft == nil {
				draft = r
			}
			continue
		}
		root := r.RootID()
		if _, seen := groups[root]; !seen {
			order = append(order, root)
		}
		groups[root] = append(groups[root], r)
	}

	result := make([]*types.PromptRevision, 0, len(order)+1)
	if draft != nil {
		result = append(result, draft)
	}
	for _, root := range order {
		if chosen := pickForRoot(groups[root]); chosen != nil {
			result = append(result, chosen)
		}
	}
	return result
}

func pickForRoot(group []*types.PromptRevision) *types.PromptRevision {
	if len(group) == 0 {
		return nil
	}
	for _, r := range group {
		if r.IsCurrentBest {
			return r
		}
	}
	best := group[0]
	bestScore := best.Score()
	for _, r := range group[1:] {
		if s := r.Score(); s > bestScore {
			best = r
			bestScore = s
		}
	}
	return best
}

// PickBest returns the single highest-scoring revision across the whole set,
// first-seen winning ties. Returns nil for an empty set. The draft row never
// wins a round.
func PickBest(revisions []*types.PromptRevision) *types.PromptRevision {
	var best *types.PromptRevision
	var bestScore float64
	for _, r := range revisions {
		if r == nil || r.IsDraft() {
			continue
		}
		if best == nil || r.Score() > bestScore {
			best = r
			bestScore = r.Score()
		}
	}
	return best
}
