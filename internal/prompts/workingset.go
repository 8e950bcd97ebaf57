package prompts

import (
	"sync"

	"github.com/hackly/garage-backend/internal/types"
)

// WorkingSet owns the live prompt list for the current round. It is replaced
// wholesale on every refresh and cleared at round boundaries; there is no
// partial in-place mutation, so readers always see a coherent snapshot.
type WorkingSet struct {
	mu        sync.RWMutex
	revisions []*types.PromptRevision
}

func NewWorkingSet() *WorkingSet {
	return &WorkingSet{}
}

// ReplaceAll is the single mutator: it swaps in a fresh copy of revisions and
// is called after each load from the store.
func (ws *WorkingSet) ReplaceAll(revisions []*types.PromptRevision) {
	cp := make([]*types.PromptRevision, len(revisions))
	copy(cp, revisions)
	ws.mu.Lock()
	ws.revisions = cp
	ws.mu.Unlock()
}

// Snapshot returns a copy of the current set; callers may consolidate or sort
// it freely without affecting other readers.
func (ws *WorkingSet) Snapshot() []*types.PromptRevision {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	cp := make([]*types.PromptRevision, len(ws.revisions))
	copy(cp, ws.revisions)
	return cp
}

func (ws *WorkingSet) Clear() {
	ws.mu.Lock()
	ws.revisions = nil
	ws.mu.Unlock()
}

func (ws *WorkingSet) Len() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.revisions)
}
