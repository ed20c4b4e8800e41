package timeclock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecondsPerDay is the length of a wall-clock day in seconds.
const SecondsPerDay = 24 * 60 * 60

// TimeOfDay is a wall-clock position expressed as whole seconds since
// midnight, in the range [0, SecondsPerDay). All internal time arithmetic
// is done on this type; decimal hours only appear at presentation
// boundaries.
type TimeOfDay int

// New builds a TimeOfDay from clock components.
func New(hours, minutes, seconds int) (TimeOfDay, error) {
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("time of day out of range: %02d:%02d:%02d", hours, minutes, seconds)
	}
	return TimeOfDay(hours*3600 + minutes*60 + seconds), nil
}

// Parse reads a "HH:MM:SS" clock string. The same grammar is used by the
// part logs for recorded production durations, so hours are allowed a
// single digit.
func Parse(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed clock string %q", s)
	}
	components := make([]int, 3)
	for i, part := range parts {
		if part == "" || len(part) > 2 || !isDigits(part) {
			return 0, fmt.Errorf("malformed clock string %q", s)
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("malformed clock string %q", s)
		}
		components[i] = value
	}
	return New(components[0], components[1], components[2])
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FromTime extracts the time-of-day component of an absolute timestamp.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Seconds returns the number of seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return int(t)
}

// Before reports whether t is strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

// ForwardDifference returns the elapsed duration from t1 to t2, reading
// the clock forward. A negative raw difference means the span crossed
// midnight and gets a day added. Not suitable for spans of 24h or more;
// nothing in this domain produces one.
func ForwardDifference(t1, t2 TimeOfDay) time.Duration {
	diff := int(t2) - int(t1)
	if diff < 0 {
		diff += SecondsPerDay
	}
	return time.Duration(diff) * time.Second
}

// DecimalHours converts a duration to fractional hours for report output.
func DecimalHours(d time.Duration) float64 {
	return d.Hours()
}
