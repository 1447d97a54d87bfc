package models

// MonthsPerYear is the fixed number of month slots a calendar carries.
const MonthsPerYear = 12

// Calendar records which days of each month are teaching days for a year.
// Holidays are informational only; the scheduling engine consults
// dias_letivos_por_mes exclusively.
type Calendar struct {
	ID           string  `json:"id"`
	Year         int     `json:"ano"`
	TeachingDays [][]int `json:"dias_letivos_por_mes"`
	Holidays     [][]int `json:"feriados_por_mes"`
	Active       bool    `json:"ativo"`
}

// Normalize guarantees exactly 12 month slots with deduplicated, in-range
// day numbers.
func (c *Calendar) Normalize() {
	c.TeachingDays = normalizeMonths(c.TeachingDays)
	c.Holidays = normalizeMonths(c.Holidays)
}

// TeachingDaySet returns the teaching days of a month (1-based) as a set.
func (c *Calendar) TeachingDaySet(month int) map[int]struct{} {
	set := make(map[int]struct{})
	if month < 1 || month > MonthsPerYear || month > len(c.TeachingDays) {
		return set
	}
	for _, day := range SanitizeDayList(c.TeachingDays[month-1]) {
		set[day] = struct{}{}
	}
	return set
}

func normalizeMonths(months [][]int) [][]int {
	out := make([][]int, MonthsPerYear)
	for i := 0; i < MonthsPerYear; i++ {
		if i < len(months) {
			out[i] = SanitizeDayList(months[i])
		} else {
			out[i] = []int{}
		}
	}
	return out
}

// SanitizeDayList deduplicates day-of-month numbers and drops values outside
// 1..31, preserving first-seen order.
func SanitizeDayList(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, day := range days {
		if day < 1 || day > 31 {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	return out
}
