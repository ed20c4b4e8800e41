package report

import (
	"errors"
	"time"

	"github.com/partline/partline/pkg/timeclock"
)

// ErrAggregatorClosed reports an event pushed after Close.
var ErrAggregatorClosed = errors.New("aggregator is closed")

type aggregatorState int

const (
	awaitingFirstEvent aggregatorState = iota
	accumulatingDay
	closed
)

// Aggregator folds an ordered stream of normalized events into per-day
// totals. It owns its running sums and resets them on every day
// boundary; callers get a finished DaySummary back at each boundary and
// a final one from Close. One aggregator serves one stream; independent
// streams get independent instances.
type Aggregator struct {
	opts  Options
	state aggregatorState

	currentDay     time.Time
	previousFinish timeclock.TimeOfDay

	runTime        time.Duration
	idleTime       time.Duration
	productionTime time.Duration
	deviation      time.Duration
}

func NewAggregator(opts Options) *Aggregator {
	return &Aggregator{opts: opts, state: awaitingFirstEvent}
}

// Push feeds the next event. It assigns the event's idle time from the
// gap to its predecessor and returns the closed summary of the previous
// day when the event opens a new one, nil otherwise. The first event of
// a day always carries zero idle time; gaps are never measured across a
// day boundary.
func (a *Aggregator) Push(event *NormalizedEvent) (*DaySummary, error) {
	switch a.state {
	case closed:
		return nil, ErrAggregatorClosed
	case awaitingFirstEvent:
		a.state = accumulatingDay
		a.currentDay = event.CalendarDay
		event.IdleTime = 0
		a.accumulate(event)
		a.previousFinish = event.FinishTime
		return nil, nil
	}

	var emitted *DaySummary
	if event.CalendarDay.Equal(a.currentDay) {
		event.IdleTime = a.idleGap(event)
		a.accumulate(event)
	} else {
		summary := a.summarize()
		emitted = &summary
		a.reset(event.CalendarDay)
		event.IdleTime = 0
		a.accumulate(event)
	}
	a.previousFinish = event.FinishTime
	return emitted, nil
}

// Close finalizes the stream, emitting the summary of the day in
// progress. A stream with no events yields no summary. No events are
// accepted afterwards.
func (a *Aggregator) Close() (*DaySummary, error) {
	if a.state == closed {
		return nil, ErrAggregatorClosed
	}
	hadEvents := a.state == accumulatingDay
	a.state = closed
	if !hadEvents {
		return nil, nil
	}
	summary := a.summarize()
	return &summary, nil
}

func (a *Aggregator) idleGap(event *NormalizedEvent) time.Duration {
	if a.opts.IdlePolicy == IdleFinishToFinish {
		return timeclock.ForwardDifference(a.previousFinish, event.FinishTime)
	}
	return timeclock.ForwardDifference(a.previousFinish, event.StartTime)
}

func (a *Aggregator) accumulate(event *NormalizedEvent) {
	a.runTime += event.RunTime
	a.idleTime += event.IdleTime
	a.productionTime += event.ProductionTime
	a.deviation += event.Deviation
}

func (a *Aggregator) summarize() DaySummary {
	summary := DaySummary{
		Day:                 a.currentDay,
		TotalRunTime:        a.runTime,
		TotalIdleTime:       a.idleTime,
		TotalProductionTime: a.productionTime,
		TotalDeviation:      a.deviation,
	}
	if a.opts.WorkingHours > 0 {
		ratio := timeclock.DecimalHours(a.productionTime) / a.opts.WorkingHours
		summary.EfficiencyRatio = &ratio
	}
	return summary
}

func (a *Aggregator) reset(day time.Time) {
	a.currentDay = day
	a.runTime = 0
	a.idleTime = 0
	a.productionTime = 0
	a.deviation = 0
}
