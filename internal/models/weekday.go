package models

import (
	"strings"
	"time"
)

// Weekday tokens as persisted in dias_execucao and availability slots.
const (
	WeekdayMon = "SEG"
	WeekdayTue = "TER"
	WeekdayWed = "QUA"
	WeekdayThu = "QUI"
	WeekdayFri = "SEX"
	WeekdaySat = "SÁB"
	WeekdaySun = "DOM"
)

// ExecutionWeekdays lists the tokens a schedule may run on. Sunday is never
// a class day.
var ExecutionWeekdays = []string{WeekdayMon, WeekdayTue, WeekdayWed, WeekdayThu, WeekdayFri, WeekdaySat}

var weekdayIndexes = map[string]int{
	WeekdayMon: 0,
	WeekdayTue: 1,
	WeekdayWed: 2,
	WeekdayThu: 3,
	WeekdayFri: 4,
	WeekdaySat: 5,
	WeekdaySun: 6,
}

var weekdayByIndex = map[int]string{
	0: WeekdayMon,
	1: WeekdayTue,
	2: WeekdayWed,
	3: WeekdayThu,
	4: WeekdayFri,
	5: WeekdaySat,
	6: WeekdaySun,
}

// CanonicalWeekday normalises a raw token ("sab", "SÁB", " seg ") to its
// canonical form. Returns "" for anything unrecognised.
func CanonicalWeekday(raw string) string {
	token := strings.ToUpper(strings.TrimSpace(raw))
	token = strings.ReplaceAll(token, "Á", "A")
	switch token {
	case "SEG":
		return WeekdayMon
	case "TER":
		return WeekdayTue
	case "QUA":
		return WeekdayWed
	case "QUI":
		return WeekdayThu
	case "SEX":
		return WeekdayFri
	case "SAB":
		return WeekdaySat
	case "DOM":
		return WeekdaySun
	default:
		return ""
	}
}

// WeekdayIndex maps a token to its Monday-based index (SEG=0 .. DOM=6).
// The second return is false for unknown tokens.
func WeekdayIndex(raw string) (int, bool) {
	idx, ok := weekdayIndexes[CanonicalWeekday(raw)]
	return idx, ok
}

// WeekdayToken returns the token for a calendar date.
func WeekdayToken(d time.Time) string {
	// time.Weekday is Sunday-based.
	return weekdayByIndex[(int(d.Weekday())+6)%7]
}

// NormalizeWeekdaySet canonicalises and deduplicates execution-day tokens,
// dropping unknown values and Sundays.
func NormalizeWeekdaySet(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		token := CanonicalWeekday(value)
		if token == "" || token == WeekdaySun {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// WeekdaySetsIntersect reports whether two token sets share any day.
func WeekdaySetsIntersect(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, token := range a {
		set[CanonicalWeekday(token)] = struct{}{}
	}
	for _, token := range b {
		if _, ok := set[CanonicalWeekday(token)]; ok {
			return true
		}
	}
	return false
}
