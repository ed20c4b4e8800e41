package timeclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00:00", want: 0},
		{name: "morning", input: "06:30:15", want: 6*3600 + 30*60 + 15},
		{name: "single digit hour", input: "1:02:03", want: 3723},
		{name: "last second of day", input: "23:59:59", want: SecondsPerDay - 1},
		{name: "hours out of range", input: "24:00:00", wantErr: true},
		{name: "minutes out of range", input: "10:60:00", wantErr: true},
		{name: "not a clock string", input: "banana", wantErr: true},
		{name: "trailing garbage", input: "08:00:00junk", wantErr: true},
		{name: "missing seconds", input: "08:00", wantErr: true},
		{name: "too many components", input: "08:00:00:00", wantErr: true},
		{name: "empty component", input: "08::00", wantErr: true},
		{name: "negative hours", input: "-1:00:00", wantErr: true},
		{name: "signed component", input: "+1:02:03", wantErr: true},
		{name: "overlong component", input: "008:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.Seconds())
		})
	}
}

func TestFromTime(t *testing.T) {
	moment := time.Date(2024, time.March, 5, 14, 45, 30, 0, time.UTC)
	assert.Equal(t, 14*3600+45*60+30, FromTime(moment).Seconds())
}

func TestForwardDifference(t *testing.T) {
	parse := func(s string) TimeOfDay {
		tod, err := Parse(s)
		assert.NoError(t, err)
		return tod
	}

	t.Run("same time is zero", func(t *testing.T) {
		for _, s := range []string{"00:00:00", "05:00:00", "23:59:59"} {
			assert.Equal(t, time.Duration(0), ForwardDifference(parse(s), parse(s)))
		}
	})

	t.Run("plain forward span", func(t *testing.T) {
		assert.Equal(t, 90*time.Minute, ForwardDifference(parse("08:00:00"), parse("09:30:00")))
	})

	t.Run("span across midnight", func(t *testing.T) {
		assert.Equal(t, 20*time.Minute, ForwardDifference(parse("23:50:00"), parse("00:10:00")))
	})
}

func TestDecimalHours(t *testing.T) {
	assert.Equal(t, 1.5, DecimalHours(90*time.Minute))
	assert.Equal(t, 0.0, DecimalHours(0))
	assert.Equal(t, -0.5, DecimalHours(-30*time.Minute))
}

func TestTimeOfDayString(t *testing.T) {
	tod, err := New(7, 5, 9)
	assert.NoError(t, err)
	assert.Equal(t, "07:05:09", tod.String())
}
