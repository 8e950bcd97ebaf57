package round

import (
	"context"
	"fmt"
	"time"

	"github.com/hackly/garage-backend/internal/logger"
)

// Rounds are fixed 8-hour UTC buckets starting at 00, 08 and 16.
const Duration = 8 * time.Hour

// Window describes one round bucket plus its best-effort sequence number.
type Window struct {
	ID          string    `json:"id"`
	RoundNumber int       `json:"round_number"`
	StartsAt    time.Time `json:"round_started_at"`
	EndsAt      time.Time `json:"round_ends_at"`
}

// ArchiveCounter reports how many rounds have been archived so far. Backed by
// the archive entry table; failures are tolerated (see CurrentMeta).
type ArchiveCounter interface {
	CountArchived(ctx context.Context) (int64, error)
}

// Clock maps instants to round windows. All computations are UTC-only and
// stateless; the caller's local zone never matters.
type Clock struct {
	log     *logger.Logger
	counter ArchiveCounter
}

func NewClock(baseLog *logger.Logger, counter ArchiveCounter) *Clock {
	return &Clock{
		log:     baseLog.With("component", "RoundClock"),
		counter: counter,
	}
}

// Start returns the UTC start of the bucket containing now.
func Start(now time.Time) time.Time {
	u := now.UTC()
	bucketHour := (u.Hour() / 8) * 8
	return time.Date(u.Year(), u.Month(), u.Day(), bucketHour, 0, 0, 0, time.UTC)
}

// End returns the UTC end of the bucket containing now (start + 8h).
func End(now time.Time) time.Time {
	return Start(now).Add(Duration)
}

// ID formats a bucket identifier, e.g. R-2025-08-25-16Z. Stable for every
// instant inside the same bucket.
func ID(start time.Time) string {
	s := Start(start)
	return fmt.Sprintf("R-%04d-%02d-%02d-%02dZ", s.Year(), int(s.Month()), s.Day(), s.Hour())
}

// CurrentMeta returns the window containing now. RoundNumber is the count of
// already-archived rounds plus one; if the count cannot be read it defaults
// to 1. That number is an approximation, not a unique sequence -- consumers
// needing uniqueness key on ID instead.
func (c *Clock) CurrentMeta(ctx context.Context, now time.Time) Window {
	start := Start(now)
	w := Window{
		ID:          ID(start),
		RoundNumber: 1,
		StartsAt:    start,
		EndsAt:      start.Add(Duration),
	}
	if c.counter == nil {
		return w
	}
	n, err := c.counter.CountArchived(ctx)
	if err != nil {
		c.log.Warn("Could not count archived rounds, defaulting round number to 1", "error", err)
		return w
	}
	w.RoundNumber = int(n) + 1
	return w
}
