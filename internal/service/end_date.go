package service

import (
	"math"
	"time"

	"github.com/progcursos/programacao-api/internal/models"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

// EndDateCalculator derives the legal end date of an offering by walking the
// academic calendar.
type EndDateCalculator struct{}

// Compute walks forward one calendar day at a time from the start date,
// staying within year. A day counts toward the total only when its weekday
// is one of the selected execution days AND its day-of-month is marked as a
// teaching day in the calendar. The date on which enough days have been
// accumulated (ceil(totalHours/hoursPerDay)) is returned.
//
// The calculation is pure: same inputs, same result.
func (EndDateCalculator) Compute(year int, startDateRaw string, executionDays []string, totalHours, hoursPerDay float64, calendar *models.Calendar) (time.Time, error) {
	if calendar == nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "calendário não encontrado para o ano informado")
	}
	if startDateRaw == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "informe a data inicial")
	}
	if len(executionDays) == 0 {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "selecione ao menos um dia de execução")
	}
	if totalHours <= 0 || hoursPerDay <= 0 {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "carga horária e horas/dia devem ser maiores que zero")
	}

	startDate, err := models.ParseBRDate(startDateRaw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "data inicial inválida")
	}
	if startDate.Year() != year {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "ano e data inicial precisam estar no mesmo ano")
	}

	selected := make(map[int]struct{}, len(executionDays))
	for _, day := range executionDays {
		idx, ok := models.WeekdayIndex(day)
		if !ok || idx > 5 {
			// Sundays are never schedulable.
			continue
		}
		selected[idx] = struct{}{}
	}
	if len(selected) == 0 {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "dias de execução inválidos")
	}

	monthSets := make([]map[int]struct{}, models.MonthsPerYear)
	for month := 1; month <= models.MonthsPerYear; month++ {
		monthSets[month-1] = calendar.TeachingDaySet(month)
	}

	daysNeeded := int(math.Ceil(totalHours / hoursPerDay))

	counted := 0
	for current := startDate; current.Year() == year; current = current.AddDate(0, 0, 1) {
		weekdayIdx := (int(current.Weekday()) + 6) % 7
		if _, ok := selected[weekdayIdx]; !ok {
			continue
		}
		if _, ok := monthSets[int(current.Month())-1][current.Day()]; !ok {
			continue
		}
		counted++
		if counted >= daysNeeded {
			return current, nil
		}
	}

	return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "não há dias letivos suficientes no calendário para o período informado")
}
