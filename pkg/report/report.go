package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/partline/partline/pkg/shift"
	"github.com/partline/partline/pkg/timeclock"
)

var (
	// ErrInvalidConfiguration reports report options out of domain.
	ErrInvalidConfiguration = errors.New("invalid report configuration")
	// ErrReportNotFound reports a lookup of an unknown report id.
	ErrReportNotFound = errors.New("report not found")
)

// IdlePolicy selects which gap counts as line-idle time between two
// consecutive events. Both variants exist in precedent reports, so the
// choice is an explicit option rather than a baked-in behavior.
type IdlePolicy string

const (
	// IdleFinishToStart measures from the previous event's finish to the
	// current event's start: the time the line actually sat unused.
	IdleFinishToStart IdlePolicy = "finish-to-start"
	// IdleFinishToFinish measures from the previous event's finish to the
	// current event's finish, the convention of older shift reports.
	IdleFinishToFinish IdlePolicy = "finish-to-finish"
)

// Options configures one aggregation run.
type Options struct {
	Schedule shift.Schedule
	// EarlyMorningCutoff, when set, attributes events that start before
	// this time-of-day to the previous calendar day, modelling a plant
	// day that begins at e.g. 05:00 rather than midnight.
	EarlyMorningCutoff *timeclock.TimeOfDay
	IdlePolicy         IdlePolicy
	// WorkingHours, when positive, is the divisor for the per-day
	// efficiency ratio. Zero disables the ratio.
	WorkingHours float64
	// ValidateOrder runs a creation-time monotonicity check over the
	// input before aggregation.
	ValidateOrder bool
}

// Validate rejects options outside their domain.
func (o Options) Validate() error {
	if err := o.Schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if o.WorkingHours < 0 {
		return fmt.Errorf("%w: working hours must not be negative, got %v", ErrInvalidConfiguration, o.WorkingHours)
	}
	switch o.IdlePolicy {
	case IdleFinishToStart, IdleFinishToFinish:
	default:
		return fmt.Errorf("%w: unknown idle policy %q", ErrInvalidConfiguration, o.IdlePolicy)
	}
	return nil
}

// NormalizedEvent is one part production record with its derived
// metrics. Durations are integer-second precise; decimal hours only
// appear in DTOs and rendered output.
type NormalizedEvent struct {
	PartName string
	// CalendarDay is the day the event is attributed to. Under the
	// early-morning cutoff rule it may be the day before CreatedAt's
	// literal date.
	CalendarDay time.Time
	StartTime   timeclock.TimeOfDay
	FinishTime  timeclock.TimeOfDay
	// RunTime is the wall-clock span from start to finish, corrected
	// for midnight wrap. Never negative.
	RunTime time.Duration
	// ProductionTime is the duration the producing process reported for
	// itself, independent of wall-clock elapsed time.
	ProductionTime time.Duration
	// Deviation is ProductionTime minus RunTime (PT-TRT). Negative when
	// the process reported less work than elapsed.
	Deviation time.Duration
	// IdleTime is the gap since the previous event in the stream, per
	// the configured IdlePolicy. Zero for the first event of a day.
	IdleTime time.Duration
	Shift    shift.Shift
}

// DaySummary holds the accumulated totals of one calendar day. It is
// emitted once, when the day closes, and not modified afterwards.
type DaySummary struct {
	Day                 time.Time
	TotalRunTime        time.Duration
	TotalIdleTime       time.Duration
	TotalProductionTime time.Duration
	TotalDeviation      time.Duration
	// EfficiencyRatio is total production time in hours divided by the
	// configured working hours. Nil when no working hours are set, so a
	// genuine ratio of zero stays distinguishable from "not computed".
	EfficiencyRatio *float64
}

// Report is one processed part log: its normalized events in source
// order and the day summaries in emission order.
type Report struct {
	ID        string
	CreatedAt time.Time
	Events    []NormalizedEvent
	Days      []DaySummary
}
