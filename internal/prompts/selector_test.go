package prompts

import (
	"testing"

	"github.com/hackly/garage-backend/internal/types"
)

func rev(id, root string, score float64) *types.PromptRevision {
	r := &types.PromptRevision{ID: id, ScoreTotal: &score}
	if root != "" {
		r.BranchRootID = &root
	}
	return r
}

func unscored(id, root string) *types.PromptRevision {
	r := &types.PromptRevision{ID: id}
	if root != "" {
		r.BranchRootID = &root
	}
	return r
}

func ids(rs []*types.PromptRevision) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestConsolidatePicksHighestPerRoot(t *testing.T) {
	in := []*types.PromptRevision{
		rev("a1", "A", 5),
		rev("a2", "A", 9),
		rev("b1", "B", 1),
	}
	got := Consolidate(in)
	if len(got) != 2 || got[0].ID != "a2" || got[1].ID != "b1" {
		t.Fatalf("Consolidate = %v, want [a2 b1]", ids(got))
	}
}

func TestConsolidateExplicitFlagBeatsScore(t *testing.T) {
	flagged := rev("a2", "A", 1)
	flagged.IsCurrentBest = true
	in := []*types.PromptRevision{rev("a1", "A", 9), flagged}
	got := Consolidate(in)
	if len(got) != 1 || got[0].ID != "a2" {
		t.Fatalf("Consolidate = %v, want [a2]", ids(got))
	}
}

func TestConsolidateFirstFlaggedWins(t *testing.T) {
	f1 := rev("a1", "A", 1)
	f1.IsCurrentBest = true
	f2 := rev("a2", "A", 9)
	f2.IsCurrentBest = true
	got := Consolidate([]*types.PromptRevision{f1, f2})
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("Consolidate = %v, want [a1]", ids(got))
	}
}

func TestConsolidateStrictGreaterKeepsFirstSeen(t *testing.T) {
	got := Consolidate([]*types.PromptRevision{
		rev("a1", "A", 7),
		rev("a2", "A", 7),
	})
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("tie must keep first-seen, got %v", ids(got))
	}

	// All-zero group: first-seen wins too.
	got = Consolidate([]*types.PromptRevision{
		unscored("a1", "A"),
		unscored("a2", "A"),
	})
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("all-zero group must keep first-seen, got %v", ids(got))
	}
}

func TestConsolidateMissingRootFallsBackToID(t *testing.T) {
	got := Consolidate([]*types.PromptRevision{
		rev("x", "", 3),
		rev("y", "", 8),
	})
	if len(got) != 2 {
		t.Fatalf("revisions without roots are their own lineages, got %v", ids(got))
	}
}

func TestConsolidatePreservesDraft(t *testing.T) {
	draft := &types.PromptRevision{ID: types.DraftRevisionID}
	in := []*types.PromptRevision{
		rev("a1", "A", 5),
		draft,
		rev("a2", "A", 9),
	}
	got := Consolidate(in)
	if len(got) != 2 || got[0] != draft || got[1].ID != "a2" {
		t.Fatalf("Consolidate = %v, want [blank a2]", ids(got))
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	in := []*types.PromptRevision{
		{ID: types.DraftRevisionID},
		rev("a1", "A", 5),
		rev("a2", "A", 9),
		rev("b1", "B", 1),
		unscored("c1", "C"),
	}
	once := Consolidate(in)
	twice := Consolidate(once)
	if len(once) != len(twice) {
		t.Fatalf("idempotence broken: %v vs %v", ids(once), ids(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("idempotence broken at %d: %v vs %v", i, ids(once), ids(twice))
		}
	}
}

func TestConsolidateNeverDuplicatesRoots(t *testing.T) {
	in := []*types.PromptRevision{
		rev("a1", "A", 1), rev("a2", "A", 2), rev("a3", "A", 3),
		rev("b1", "B", 2), rev("b2", "B", 2),
	}
	got := Consolidate(in)
	seen := map[string]bool{}
	for _, r := range got {
		root := r.RootID()
		if seen[root] {
			t.Fatalf("duplicate root %q in %v", root, ids(got))
		}
		seen[root] = true
	}
}

func TestConsolidateEmpty(t *testing.T) {
	if got := Consolidate(nil); len(got) != 0 {
		t.Fatalf("Consolidate(nil) = %v", ids(got))
	}
}

func TestPickBest(t *testing.T) {
	if PickBest(nil) != nil {
		t.Fatal("PickBest(nil) must be nil")
	}
	got := PickBest([]*types.PromptRevision{
		rev("p1", "", 3),
		rev("p2", "", 7),
		rev("p3", "", 7),
	})
	if got == nil || got.ID != "p2" {
		t.Fatalf("PickBest = %v, want p2 (first-seen tie break)", got)
	}
}

func TestPickBestIgnoresDraft(t *testing.T) {
	draftScore := 99.0
	draft := &types.PromptRevision{ID: types.DraftRevisionID, ScoreTotal: &draftScore}
	got := PickBest([]*types.PromptRevision{draft, rev("p1", "", 1)})
	if got == nil || got.ID != "p1" {
		t.Fatalf("draft must never win, got %v", got)
	}
}

func TestPickBestMissingScoresTreatedAsZero(t *testing.T) {
	got := PickBest([]*types.PromptRevision{unscored("p1", ""), unscored("p2", "")})
	if got == nil || got.ID != "p1" {
		t.Fatalf("PickBest = %v, want p1", got)
	}
}
