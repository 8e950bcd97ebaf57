package round

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hackly/garage-backend/internal/logger"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestStartBuckets(t *testing.T) {
	cases := []struct {
		now  string
		want string
	}{
		{"2025-08-25T00:00:00Z", "2025-08-25T00:00:00Z"},
		{"2025-08-25T07:59:59Z", "2025-08-25T00:00:00Z"},
		{"2025-08-25T08:00:00Z", "2025-08-25T08:00:00Z"},
		{"2025-08-25T15:59:59Z", "2025-08-25T08:00:00Z"},
		{"2025-08-25T16:00:00Z", "2025-08-25T16:00:00Z"},
		{"2025-08-25T23:59:59Z", "2025-08-25T16:00:00Z"},
		// Month rollover at the end boundary is handled by End, not Start.
		{"2025-12-31T23:30:00Z", "2025-12-31T16:00:00Z"},
	}
	for _, tc := range cases {
		got := Start(mustTime(t, tc.now))
		if !got.Equal(mustTime(t, tc.want)) {
			t.Errorf("Start(%s) = %s, want %s", tc.now, got, tc.want)
		}
	}
}

func TestStartIgnoresLocalZone(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2025, 8, 25, 3, 0, 0, 0, loc) // 2025-08-24T22:00Z
	got := Start(local)
	want := mustTime(t, "2025-08-24T16:00:00Z")
	if !got.Equal(want) {
		t.Fatalf("Start(local) = %s, want %s", got, want)
	}
}

func TestEndIsStartPlusEightHours(t *testing.T) {
	for _, now := range []string{
		"2025-08-25T03:12:45Z",
		"2025-08-31T23:59:59Z",
		"2024-02-29T10:00:00Z",
	} {
		ts := mustTime(t, now)
		start, end := Start(ts), End(ts)
		if end.Sub(start) != Duration {
			t.Errorf("End-Start for %s = %s, want 8h", now, end.Sub(start))
		}
		if ts.Before(start) || !ts.Before(end) {
			t.Errorf("instant %s not inside [%s, %s)", now, start, end)
		}
	}
	// Day rollover via instant arithmetic.
	end := End(mustTime(t, "2025-12-31T23:30:00Z"))
	if want := mustTime(t, "2026-01-01T00:00:00Z"); !end.Equal(want) {
		t.Fatalf("End across year boundary = %s, want %s", end, want)
	}
}

func TestIDFormatAndStability(t *testing.T) {
	if got := ID(mustTime(t, "2025-08-25T16:00:00Z")); got != "R-2025-08-25-16Z" {
		t.Fatalf("ID = %q, want R-2025-08-25-16Z", got)
	}
	if got := ID(mustTime(t, "2025-01-05T02:00:00Z")); got != "R-2025-01-05-00Z" {
		t.Fatalf("ID = %q, want R-2025-01-05-00Z", got)
	}
	// Same bucket => same id, regardless of which instant is used.
	a := ID(Start(mustTime(t, "2025-08-25T08:00:01Z")))
	b := ID(Start(mustTime(t, "2025-08-25T15:59:59Z")))
	if a != b {
		t.Fatalf("ids differ inside one bucket: %q vs %q", a, b)
	}
}

type fakeCounter struct {
	n   int64
	err error
}

func (f *fakeCounter) CountArchived(context.Context) (int64, error) { return f.n, f.err }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestCurrentMeta(t *testing.T) {
	now := mustTime(t, "2025-08-25T09:30:00Z")

	c := NewClock(testLogger(t), &fakeCounter{n: 41})
	w := c.CurrentMeta(context.Background(), now)
	if w.ID != "R-2025-08-25-08Z" {
		t.Errorf("ID = %q", w.ID)
	}
	if w.RoundNumber != 42 {
		t.Errorf("RoundNumber = %d, want 42", w.RoundNumber)
	}
	if !w.StartsAt.Equal(mustTime(t, "2025-08-25T08:00:00Z")) || !w.EndsAt.Equal(mustTime(t, "2025-08-25T16:00:00Z")) {
		t.Errorf("window = [%s, %s)", w.StartsAt, w.EndsAt)
	}
}

func TestCurrentMetaCounterFailure(t *testing.T) {
	now := mustTime(t, "2025-08-25T09:30:00Z")
	c := NewClock(testLogger(t), &fakeCounter{err: errors.New("store unavailable")})
	w := c.CurrentMeta(context.Background(), now)
	if w.RoundNumber != 1 {
		t.Fatalf("RoundNumber on counter failure = %d, want 1", w.RoundNumber)
	}
	if w.ID != "R-2025-08-25-08Z" {
		t.Fatalf("ID must stay correct on counter failure, got %q", w.ID)
	}
}
