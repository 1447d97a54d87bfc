package models

import (
	"fmt"
	"strings"
	"time"
)

// BRDateLayout is the wire format for schedule dates.
const BRDateLayout = "02/01/2006"

// ClockLayout is the wire format for daily times.
const ClockLayout = "15:04"

// ParseBRDate parses a DD/MM/YYYY date.
func ParseBRDate(raw string) (time.Time, error) {
	d, err := time.Parse(BRDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida: %s", raw)
	}
	return d, nil
}

// FormatBRDate renders a date as DD/MM/YYYY.
func FormatBRDate(d time.Time) string {
	return d.Format(BRDateLayout)
}

// NormalizeBRDate re-renders a raw date in canonical DD/MM/YYYY form,
// accepting ISO (YYYY-MM-DD) input from older records.
func NormalizeBRDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if d, err := time.Parse(BRDateLayout, trimmed); err == nil {
		return FormatBRDate(d), nil
	}
	if d, err := time.Parse("2006-01-02", trimmed); err == nil {
		return FormatBRDate(d), nil
	}
	return "", fmt.Errorf("data inválida: %s", raw)
}

// ParseClock parses an HH:MM time of day into minutes since midnight.
func ParseClock(raw string) (int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("horário inválido: %s", raw)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockRangeHours returns the duration in hours between two HH:MM values.
// The end must be strictly after the start.
func ClockRangeHours(start, end string) (float64, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if endMin <= startMin {
		return 0, fmt.Errorf("horário fim deve ser maior que horário início")
	}
	return float64(endMin-startMin) / 60, nil
}

// DateRangesOverlap reports whether two inclusive date ranges intersect.
func DateRangesOverlap(startA, endA, startB, endB time.Time) bool {
	return !startA.After(endB) && !startB.After(endA)
}

// ClockRangesOverlap reports whether two daily windows intersect. The
// comparison is strict: windows that only touch at a boundary do not overlap.
func ClockRangesOverlap(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// HasWeekdayBetween reports whether the weekday with the given Monday-based
// index occurs at least once in the inclusive date range.
func HasWeekdayBetween(start, end time.Time, weekdayIdx int) bool {
	if start.After(end) {
		return false
	}
	startIdx := (int(start.Weekday()) + 6) % 7
	offset := (weekdayIdx - startIdx + 7) % 7
	return !start.AddDate(0, 0, offset).After(end)
}
