package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

// ParseDate reads a yyyy-MM-dd day as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-MM-dd", s)
	}
	return t, nil
}

// ParseDateTime combines a yyyy-MM-dd day and an HH:mm clock time.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if clock == "" {
		return ParseDate(date, loc)
	}
	t, err := time.ParseInLocation(DateTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, clock)
	}
	return t, nil
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Nights counts calendar days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	in := StartOfDay(checkIn)
	out := StartOfDay(checkOut.In(checkIn.Location()))
	return int(out.Sub(in).Hours()+12) / 24
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}
