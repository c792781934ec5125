package schedule

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate     = errors.New("date must be a valid YYYY-MM-DD calendar date")
	ErrInvalidTime     = errors.New("time must be in HH:MM format")
	ErrInvalidDuration = errors.New("duration must be a positive multiple of 30 minutes")
)

// Interval is a half-open range of minutes after midnight: [Start, End).
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share at least one minute.
// Intervals that only touch (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Contains reports whether the instant m falls inside the interval.
func (a Interval) Contains(m int) bool {
	return a.Start <= m && m < a.End
}

func (a Interval) String() string {
	return fmt.Sprintf("[%s,%s)", FormatClock(a.Start), FormatClock(a.End))
}

// ToInterval converts a wall-clock start time and a duration into an Interval.
func ToInterval(start string, durationMinutes int) (Interval, error) {
	m, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	if durationMinutes <= 0 {
		return Interval{}, ErrInvalidDuration
	}
	return Interval{Start: m, End: m + durationMinutes}, nil
}

// ParseClock parses a strict "HH:MM" string into minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTime
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, ErrInvalidTime
	}
	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseDate parses a strict "YYYY-MM-DD" calendar date.
// time.Parse already rejects out-of-range days such as 2024-02-30.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// DayNumber returns the number of days since the Unix epoch for a valid date.
// It identifies a calendar day as a single integer, e.g. for lock keys.
func DayNumber(date string) (int32, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int32(d.Unix() / 86400), nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
