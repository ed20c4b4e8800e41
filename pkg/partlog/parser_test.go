package partlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const sampleLog = `<?xml version="1.0"?>
<PartReports>
	<PartReport>
		<PartName>Bracket-A</PartName>
		<TimeWhenPartWasCreated>2024-01-15T08:00:00</TimeWhenPartWasCreated>
		<TimeWhenPartWasFinished>2024-01-15T09:30:00</TimeWhenPartWasFinished>
		<TimeItTookToCreateThePart>01:00:00</TimeItTookToCreateThePart>
	</PartReport>
	<PartReport>
		<PartName>Bracket-B</PartName>
		<TimeWhenPartWasCreated>2024-01-15T09:40:00</TimeWhenPartWasCreated>
		<TimeWhenPartWasFinished>2024-01-15T11:00:00</TimeWhenPartWasFinished>
		<TimeItTookToCreateThePart>01:15:00</TimeItTookToCreateThePart>
	</PartReport>
</PartReports>`

func TestParse(t *testing.T) {
	events, err := Parse([]byte(sampleLog))

	assert.NoError(t, err)
	assert.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "Bracket-A", first.PartName)
	assert.Equal(t, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC), first.FinishedAt)
	assert.Equal(t, time.Hour, first.RecordedDuration)

	second := events[1]
	assert.Equal(t, "Bracket-B", second.PartName)
	assert.Equal(t, 75*time.Minute, second.RecordedDuration)
}

func TestParse_MissingField(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing part name",
			body: `<PartReports><PartReport>
				<TimeWhenPartWasCreated>2024-01-15T08:00:00</TimeWhenPartWasCreated>
				<TimeWhenPartWasFinished>2024-01-15T09:30:00</TimeWhenPartWasFinished>
				<TimeItTookToCreateThePart>01:00:00</TimeItTookToCreateThePart>
			</PartReport></PartReports>`,
		},
		{
			name: "missing finish timestamp",
			body: `<PartReports><PartReport>
				<PartName>Bracket-A</PartName>
				<TimeWhenPartWasCreated>2024-01-15T08:00:00</TimeWhenPartWasCreated>
				<TimeItTookToCreateThePart>01:00:00</TimeItTookToCreateThePart>
			</PartReport></PartReports>`,
		},
		{
			name: "missing recorded duration",
			body: `<PartReports><PartReport>
				<PartName>Bracket-A</PartName>
				<TimeWhenPartWasCreated>2024-01-15T08:00:00</TimeWhenPartWasCreated>
				<TimeWhenPartWasFinished>2024-01-15T09:30:00</TimeWhenPartWasFinished>
			</PartReport></PartReports>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestParse_MalformedTimestamp(t *testing.T) {
	body := `<PartReports><PartReport>
		<PartName>Bracket-A</PartName>
		<TimeWhenPartWasCreated>15/01/2024 08:00</TimeWhenPartWasCreated>
		<TimeWhenPartWasFinished>2024-01-15T09:30:00</TimeWhenPartWasFinished>
		<TimeItTookToCreateThePart>01:00:00</TimeItTookToCreateThePart>
	</PartReport></PartReports>`

	_, err := Parse([]byte(body))
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestParse_MalformedDuration(t *testing.T) {
	body := `<PartReports><PartReport>
		<PartName>Bracket-A</PartName>
		<TimeWhenPartWasCreated>2024-01-15T08:00:00</TimeWhenPartWasCreated>
		<TimeWhenPartWasFinished>2024-01-15T09:30:00</TimeWhenPartWasFinished>
		<TimeItTookToCreateThePart>one hour</TimeItTookToCreateThePart>
	</PartReport></PartReports>`

	_, err := Parse([]byte(body))
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestCheckOrdered(t *testing.T) {
	base := time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)
	ordered := []RawEvent{
		{PartName: "a", CreatedAt: base},
		{PartName: "b", CreatedAt: base.Add(time.Hour)},
		{PartName: "c", CreatedAt: base.Add(time.Hour)}, // equal timestamps are fine
	}
	assert.NoError(t, CheckOrdered(ordered))

	unordered := []RawEvent{
		{PartName: "a", CreatedAt: base.Add(time.Hour)},
		{PartName: "b", CreatedAt: base},
	}
	assert.ErrorIs(t, CheckOrdered(unordered), ErrUnorderedLog)

	assert.NoError(t, CheckOrdered(nil))
}
