package partlog

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/partline/partline/pkg/timeclock"
	log "github.com/sirupsen/logrus"
)

// timestampLayout is the grammar machine part logs use for absolute
// timestamps: local calendar date plus time-of-day, no zone.
const timestampLayout = "2006-01-02T15:04:05"

type partReportsDocument struct {
	XMLName xml.Name         `xml:"PartReports"`
	Reports []partReportItem `xml:"PartReport"`
}

type partReportItem struct {
	PartName                  string `xml:"PartName"`
	TimeWhenPartWasCreated    string `xml:"TimeWhenPartWasCreated"`
	TimeWhenPartWasFinished   string `xml:"TimeWhenPartWasFinished"`
	TimeItTookToCreateThePart string `xml:"TimeItTookToCreateThePart"`
}

// Parse reads a part production log document and returns its records as
// typed events, in document order. Each record is validated on its own:
// the first malformed or incomplete record fails the whole parse, since
// skip-and-continue is a caller policy, not ours.
func Parse(data []byte) ([]RawEvent, error) {
	var doc partReportsDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse part log XML: %w", err)
	}

	log.Debugf("Parsed part log with %d records", len(doc.Reports))

	events := make([]RawEvent, 0, len(doc.Reports))
	for i, item := range doc.Reports {
		event, err := item.toEvent()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (item partReportItem) toEvent() (RawEvent, error) {
	if item.PartName == "" {
		return RawEvent{}, fmt.Errorf("%w: PartName", ErrMissingField)
	}
	if item.TimeWhenPartWasCreated == "" {
		return RawEvent{}, fmt.Errorf("%w: TimeWhenPartWasCreated", ErrMissingField)
	}
	if item.TimeWhenPartWasFinished == "" {
		return RawEvent{}, fmt.Errorf("%w: TimeWhenPartWasFinished", ErrMissingField)
	}
	if item.TimeItTookToCreateThePart == "" {
		return RawEvent{}, fmt.Errorf("%w: TimeItTookToCreateThePart", ErrMissingField)
	}

	createdAt, err := time.Parse(timestampLayout, item.TimeWhenPartWasCreated)
	if err != nil {
		return RawEvent{}, fmt.Errorf("%w: TimeWhenPartWasCreated %q", ErrMalformedTimestamp, item.TimeWhenPartWasCreated)
	}
	finishedAt, err := time.Parse(timestampLayout, item.TimeWhenPartWasFinished)
	if err != nil {
		return RawEvent{}, fmt.Errorf("%w: TimeWhenPartWasFinished %q", ErrMalformedTimestamp, item.TimeWhenPartWasFinished)
	}
	recorded, err := timeclock.Parse(item.TimeItTookToCreateThePart)
	if err != nil {
		return RawEvent{}, fmt.Errorf("%w: TimeItTookToCreateThePart %q", ErrMalformedTimestamp, item.TimeItTookToCreateThePart)
	}

	return RawEvent{
		PartName:         item.PartName,
		CreatedAt:        createdAt,
		FinishedAt:       finishedAt,
		RecordedDuration: time.Duration(recorded.Seconds()) * time.Second,
	}, nil
}
