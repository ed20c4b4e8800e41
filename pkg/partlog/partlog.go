package partlog

import (
	"errors"
	"time"

	"github.com/partline/partline/pkg/timeclock"
)

var (
	// ErrMalformedTimestamp reports a timestamp or duration string that
	// does not match the part log grammar.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrMissingField reports a required part log field that is absent.
	ErrMissingField = errors.New("missing field")
	// ErrUnorderedLog reports a log whose records are not sorted by
	// creation time.
	ErrUnorderedLog = errors.New("part log records are not in creation order")
)

// RawEvent is one part production record, already parsed into typed
// values at the input boundary. FinishedAt may fall on the wall clock
// before CreatedAt when production ran past midnight; downstream
// arithmetic corrects for the wrap.
type RawEvent struct {
	PartName         string
	CreatedAt        time.Time
	FinishedAt       time.Time
	RecordedDuration time.Duration
}

// Start returns the time-of-day component of the record's creation.
func (e RawEvent) Start() timeclock.TimeOfDay {
	return timeclock.FromTime(e.CreatedAt)
}

// Finish returns the time-of-day component of the record's completion.
func (e RawEvent) Finish() timeclock.TimeOfDay {
	return timeclock.FromTime(e.FinishedAt)
}

// CheckOrdered verifies that events arrive sorted ascending by creation
// timestamp. Aggregation assumes pre-sorted input and derives idle times
// from adjacency, so an unsorted log has to be rejected before any
// aggregation runs rather than produce silently wrong gaps.
func CheckOrdered(events []RawEvent) error {
	for i := 1; i < len(events); i++ {
		if events[i].CreatedAt.Before(events[i-1].CreatedAt) {
			return ErrUnorderedLog
		}
	}
	return nil
}
