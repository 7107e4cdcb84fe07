package util

import (
	"fmt"
	"math"
	"time"
)

// DayLayout is the date key format shared by every feature and label table.
const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into UTC midnight. A trailing time part
// ("2024-03-01 00:00:00-05:00", "2024-03-01T00:00:00Z") is ignored: the
// calendar date as written wins.
func ParseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(s) > len(DayLayout) && (s[len(DayLayout)] == 'T' || s[len(DayLayout)] == ' ') {
		s = s[:len(DayLayout)]
	}
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// FormatDay renders t as the UTC calendar day key.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// FromUnix converts epoch seconds (or milliseconds, auto-detected) to UTC.
// Fractional seconds are kept.
func FromUnix(ts float64) time.Time {
	if ts > 1e11 { // ms
		ts /= 1000
	}
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
}
