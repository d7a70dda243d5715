package eurailnet

import (
	"fmt"
	"regexp"
	"strconv"
)

const minutesPerDay = 24 * 60

var timeWithOffsetRe = regexp.MustCompile(`(?i)^\s*(\d{2}):(\d{2})\s*(?:\(\+(\d+)d\))?\s*$`)

// ClockTime is a wall-clock time of day, stored as minutes since midnight.
// Connections carry no date, so all duration arithmetic wraps at midnight.
type ClockTime int

func (t ClockTime) Hour() int   { return int(t) / 60 }
func (t ClockTime) Minute() int { return int(t) % 60 }

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ParseTimeWithOffset parses "HH:MM" or "HH:MM (+Nd)" and returns the clock
// time plus the day offset (0 when no suffix is present).
func ParseTimeWithOffset(s string) (ClockTime, int, error) {
	m := timeWithOffsetRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, &FormatError{Msg: fmt.Sprintf("invalid time %q (expected 'HH:MM' or 'HH:MM (+Nd)')", s)}
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return 0, 0, &FormatError{Msg: fmt.Sprintf("out-of-range time %q", s)}
	}
	off := 0
	if m[3] != "" {
		off, _ = strconv.Atoi(m[3])
	}
	return ClockTime(hh*60 + mm), off, nil
}

// ParseTime parses "HH:MM", discarding any day offset suffix.
func ParseTime(s string) (ClockTime, error) {
	t, _, err := ParseTimeWithOffset(s)
	return t, err
}

// DurationMinutes returns the strictly positive trip duration from dep to
// arr. A non-positive difference means the trip rolls past midnight and
// gains a day.
func DurationMinutes(dep, arr ClockTime, arrDayOffset int) int {
	d := int(arr) + arrDayOffset*minutesPerDay - int(dep)
	if d <= 0 {
		d += minutesPerDay
	}
	return d
}

// WaitMinutes returns the minutes between one leg's arrival and the next
// leg's departure. A departure at or before the arrival clock time is the
// next day's departure.
func WaitMinutes(arr, nextDep ClockTime) int {
	w := int(nextDep) - int(arr)
	if w <= 0 {
		w += minutesPerDay
	}
	return w
}
