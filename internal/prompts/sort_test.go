package prompts

import (
	"testing"
	"time"

	"github.com/hackly/garage-backend/internal/types"
)

func TestParseSortMode(t *testing.T) {
	cases := map[string]SortMode{
		"votes":   SortByVotes,
		" Score ": SortByScore,
		"date":    SortByDate,
		"":        SortByDate,
		"bogus":   SortByDate,
	}
	for raw, want := range cases {
		if got := ParseSortMode(raw); got != want {
			t.Fatalf("ParseSortMode(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSortByVotesHighestFirst(t *testing.T) {
	in := []*types.PromptRevision{
		{ID: "a", Votes: 1},
		{ID: "b", Votes: 5},
		{ID: "c", Votes: 3},
	}
	out := Sort(in, SortByVotes, false)
	if out[0].ID != "b" || out[1].ID != "c" || out[2].ID != "a" {
		t.Fatalf("order = %s %s %s", out[0].ID, out[1].ID, out[2].ID)
	}
	if in[0].ID != "a" {
		t.Fatal("input mutated")
	}
}

func TestSortByScoreHighestFirst(t *testing.T) {
	low := 10.0
	high := 90.0
	in := []*types.PromptRevision{
		{ID: "a", ScoreTotal: &low},
		{ID: "b", ScoreTotal: &high},
		{ID: "c"},
	}
	out := Sort(in, SortByScore, false)
	if out[0].ID != "b" || out[1].ID != "a" || out[2].ID != "c" {
		t.Fatalf("order = %s %s %s", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestSortByDateHonorsDirection(t *testing.T) {
	t0 := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	in := []*types.PromptRevision{
		{ID: "old", CreatedAt: t0},
		{ID: "new", CreatedAt: t0.Add(time.Hour)},
	}
	desc := Sort(in, SortByDate, false)
	if desc[0].ID != "new" {
		t.Fatalf("desc order = %s first", desc[0].ID)
	}
	asc := Sort(in, SortByDate, true)
	if asc[0].ID != "old" {
		t.Fatalf("asc order = %s first", asc[0].ID)
	}
}

func TestSortKeepsDraftPinned(t *testing.T) {
	in := []*types.PromptRevision{
		{ID: types.DraftRevisionID},
		{ID: "a", Votes: 1},
		{ID: "b", Votes: 9},
	}
	out := Sort(in, SortByVotes, false)
	if out[0].ID != types.DraftRevisionID {
		t.Fatalf("draft not pinned, first = %s", out[0].ID)
	}
	if out[1].ID != "b" {
		t.Fatalf("second = %s, want highest-voted", out[1].ID)
	}
}
