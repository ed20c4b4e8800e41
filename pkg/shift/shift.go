package shift

import (
	"errors"
	"fmt"

	"github.com/partline/partline/pkg/timeclock"
)

// Shift labels which configured window an event's start time falls in.
type Shift string

const (
	Day   Shift = "Day"
	Night Shift = "Night"
	// Undefined marks a time covered by neither window. It is reported
	// as-is so gaps in the configured schedule stay visible in output.
	Undefined Shift = "Undefined"
)

var ErrInvalidSchedule = errors.New("invalid shift schedule")

// Window is a half-open [Start, End) time-of-day interval.
type Window struct {
	Start timeclock.TimeOfDay
	End   timeclock.TimeOfDay
}

// Schedule holds the two shift windows of a production day. The night
// window may span midnight (Start later in the day than End).
type Schedule struct {
	Day   Window
	Night Window
}

// Validate rejects schedules with an inverted or empty day window. The
// night window is allowed to wrap past midnight, so only a degenerate
// zero-length window is rejected there.
func (s Schedule) Validate() error {
	if s.Day.Start >= s.Day.End {
		return fmt.Errorf("%w: day window %s-%s is empty or inverted", ErrInvalidSchedule, s.Day.Start, s.Day.End)
	}
	if s.Night.Start == s.Night.End {
		return fmt.Errorf("%w: night window %s-%s is empty", ErrInvalidSchedule, s.Night.Start, s.Night.End)
	}
	return nil
}

// Classify resolves a time-of-day to a shift. The day window is checked
// first, so an overlapping configuration resolves to Day. The night
// check is a disjunction, which is what lets a night window like
// 19:01-06:59 cover times on both sides of midnight.
func (s Schedule) Classify(t timeclock.TimeOfDay) Shift {
	if s.Day.Start <= t && t < s.Day.End {
		return Day
	}
	if t >= s.Night.Start || t < s.Night.End {
		return Night
	}
	return Undefined
}
