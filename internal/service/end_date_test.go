package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progcursos/programacao-api/internal/models"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

func calendar2024() *models.Calendar {
	c := &models.Calendar{
		Year: 2024,
		TeachingDays: [][]int{
			{},
			{},
			// March 2024: every Friday is a teaching day.
			{1, 8, 15, 22, 29},
		},
	}
	c.Normalize()
	return c
}

func TestEndDateComputeWalksCalendar(t *testing.T) {
	calc := EndDateCalculator{}

	// 40h at 8h/day needs 5 class days: the five Fridays of March 2024.
	end, err := calc.Compute(2024, "01/03/2024", []string{"SEX"}, 40, 8, calendar2024())
	require.NoError(t, err)
	assert.Equal(t, "29/03/2024", models.FormatBRDate(end))
}

func TestEndDateComputeRoundsDaysUp(t *testing.T) {
	calc := EndDateCalculator{}

	// 36h at 8h/day still needs 5 days.
	end, err := calc.Compute(2024, "01/03/2024", []string{"SEX"}, 36, 8, calendar2024())
	require.NoError(t, err)
	assert.Equal(t, "29/03/2024", models.FormatBRDate(end))
}

func TestEndDateComputeSkipsNonTeachingDays(t *testing.T) {
	calc := EndDateCalculator{}
	c := &models.Calendar{
		Year: 2024,
		TeachingDays: [][]int{
			{},
			{},
			// 15/03 removed: the walk must reach one Friday further.
			{1, 8, 22, 29},
		},
	}
	c.Normalize()

	end, err := calc.Compute(2024, "01/03/2024", []string{"SEX"}, 32, 8, c)
	require.NoError(t, err)
	assert.Equal(t, "29/03/2024", models.FormatBRDate(end))
}

func TestEndDateComputeIsDeterministic(t *testing.T) {
	calc := EndDateCalculator{}
	first, err := calc.Compute(2024, "01/03/2024", []string{"SEX"}, 40, 8, calendar2024())
	require.NoError(t, err)
	second, err := calc.Compute(2024, "01/03/2024", []string{"SEX"}, 40, 8, calendar2024())
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestEndDateComputeNeverShrinksWithMoreHours(t *testing.T) {
	calc := EndDateCalculator{}
	cal := calendar2024()

	previous, err := calc.Compute(2024, "01/03/2024", []string{"SEX"}, 8, 8, cal)
	require.NoError(t, err)
	for _, total := range []float64{16, 24, 32, 40} {
		end, err := calc.Compute(2024, "01/03/2024", []string{"SEX"}, total, 8, cal)
		require.NoError(t, err)
		assert.False(t, end.Before(previous))
		previous = end
	}
}

func TestEndDateComputeValidation(t *testing.T) {
	calc := EndDateCalculator{}
	cal := calendar2024()

	cases := []struct {
		name     string
		year     int
		start    string
		days     []string
		total    float64
		perDay   float64
		calendar *models.Calendar
		message  string
	}{
		{"missing calendar", 2024, "01/03/2024", []string{"SEX"}, 40, 8, nil, "calendário não encontrado para o ano informado"},
		{"missing start", 2024, "", []string{"SEX"}, 40, 8, cal, "informe a data inicial"},
		{"missing days", 2024, "01/03/2024", nil, 40, 8, cal, "selecione ao menos um dia de execução"},
		{"zero hours", 2024, "01/03/2024", []string{"SEX"}, 0, 8, cal, "carga horária e horas/dia devem ser maiores que zero"},
		{"bad start", 2024, "2024-99-99", []string{"SEX"}, 40, 8, cal, "data inicial inválida"},
		{"wrong year", 2024, "01/03/2025", []string{"SEX"}, 40, 8, cal, "ano e data inicial precisam estar no mesmo ano"},
		{"sunday only", 2024, "01/03/2024", []string{"DOM"}, 40, 8, cal, "dias de execução inválidos"},
		{"not enough days", 2024, "01/03/2024", []string{"SEX"}, 80, 8, cal, "não há dias letivos suficientes no calendário para o período informado"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.Compute(tc.year, tc.start, tc.days, tc.total, tc.perDay, tc.calendar)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}
