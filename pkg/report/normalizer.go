package report

import (
	"fmt"
	"time"

	"github.com/partline/partline/pkg/partlog"
	"github.com/partline/partline/pkg/timeclock"
)

// Normalize derives the per-event metrics of one raw record. Idle time
// needs stream context and is filled in by the Aggregator, not here.
func Normalize(raw partlog.RawEvent, opts Options) (NormalizedEvent, error) {
	if raw.PartName == "" {
		return NormalizedEvent{}, fmt.Errorf("%w: part name", partlog.ErrMissingField)
	}
	if raw.CreatedAt.IsZero() {
		return NormalizedEvent{}, fmt.Errorf("%w: creation timestamp", partlog.ErrMissingField)
	}
	if raw.FinishedAt.IsZero() {
		return NormalizedEvent{}, fmt.Errorf("%w: finish timestamp", partlog.ErrMissingField)
	}

	start := raw.Start()
	finish := raw.Finish()
	runTime := timeclock.ForwardDifference(start, finish)

	day := dateOf(raw.CreatedAt)
	if opts.EarlyMorningCutoff != nil && start.Before(*opts.EarlyMorningCutoff) {
		day = day.AddDate(0, 0, -1)
	}

	return NormalizedEvent{
		PartName:       raw.PartName,
		CalendarDay:    day,
		StartTime:      start,
		FinishTime:     finish,
		RunTime:        runTime,
		ProductionTime: raw.RecordedDuration,
		Deviation:      raw.RecordedDuration - runTime,
		Shift:          opts.Schedule.Classify(start),
	}, nil
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
