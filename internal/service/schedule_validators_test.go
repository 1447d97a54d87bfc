package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

type stubInstructorReader struct {
	items map[string]*models.Instructor
}

func (s *stubInstructorReader) FindByID(_ context.Context, id string) (*models.Instructor, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, repository.ErrNotFound
}

type stubAvailabilityReader struct {
	records map[string]*models.AvailabilityRecord
}

func (s *stubAvailabilityReader) FindByKey(_ context.Context, key models.AvailabilityKey) (*models.AvailabilityRecord, error) {
	if record, ok := s.records[key.String()]; ok {
		return record, nil
	}
	return nil, repository.ErrNotFound
}

func floatPtr(v float64) *float64 { return &v }

func newTestValidator(instructors map[string]*models.Instructor, records map[string]*models.AvailabilityRecord) *ScheduleValidator {
	if instructors == nil {
		instructors = map[string]*models.Instructor{
			"i1": {ID: "i1", ShortName: "João Silva", Role: models.RoleInstructor},
			"i2": {ID: "i2", ShortName: "Maria Souza", Role: models.RoleInstructor},
		}
	}
	return NewScheduleValidator(
		&stubInstructorReader{items: instructors},
		&stubAvailabilityReader{records: records},
		nil,
	)
}

func offering(id, room, instructor, start, end, startTime, endTime string, days ...string) models.Schedule {
	return models.Schedule{
		ID:            id,
		RoomID:        room,
		InstructorIDs: []string{instructor},
		ShiftID:       "turno1",
		StartDate:     start,
		EndDate:       end,
		StartTime:     startTime,
		EndTime:       endTime,
		ExecutionDays: days,
	}
}

func TestValidateBoundaryTimesDoNotConflict(t *testing.T) {
	v := newTestValidator(nil, nil)
	existing := []models.Schedule{
		offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG"),
	}
	candidate := offering("", "r1", "i2", "04/03/2024", "29/03/2024", "12:00", "16:00", "SEG")

	err := v.Validate(context.Background(), existing, &candidate)
	assert.NoError(t, err)
}

func TestValidateRoomConflict(t *testing.T) {
	v := newTestValidator(nil, nil)
	existing := []models.Schedule{
		offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "12:00", "16:00", "SEG"),
	}
	candidate := offering("", "r1", "i2", "04/03/2024", "29/03/2024", "08:00", "12:30", "SEG")

	err := v.Validate(context.Background(), existing, &candidate)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "conflito de sala")
	assert.Contains(t, appErr.Message, "01/2024")
}

func TestValidateRoomConflictIsSymmetric(t *testing.T) {
	v := newTestValidator(nil, nil)
	a := offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:30", "SEG")
	b := offering("02/2024", "r1", "i2", "04/03/2024", "29/03/2024", "12:00", "16:00", "SEG")

	errAB := v.Validate(context.Background(), []models.Schedule{a}, &b)
	errBA := v.Validate(context.Background(), []models.Schedule{b}, &a)
	require.Error(t, errAB)
	require.Error(t, errBA)
}

func TestValidateInstructorConflictAcrossRooms(t *testing.T) {
	v := newTestValidator(nil, nil)
	existing := []models.Schedule{
		offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG"),
	}
	candidate := offering("", "r2", "i1", "04/03/2024", "29/03/2024", "10:00", "14:00", "SEG")

	err := v.Validate(context.Background(), existing, &candidate)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "conflito de colaborador")
}

func TestValidateNoConflictOnDisjointWeekdays(t *testing.T) {
	v := newTestValidator(nil, nil)
	existing := []models.Schedule{
		offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "TER"),
	}
	candidate := offering("", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG")

	assert.NoError(t, v.Validate(context.Background(), existing, &candidate))
}

func TestValidateSkipsOwnIDOnUpdate(t *testing.T) {
	v := newTestValidator(nil, nil)
	existing := []models.Schedule{
		offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG"),
	}
	candidate := offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG")

	assert.NoError(t, v.Validate(context.Background(), existing, &candidate))
}

func TestValidateSkipsMalformedLegacyRecords(t *testing.T) {
	v := newTestValidator(nil, nil)
	existing := []models.Schedule{
		offering("99/2020", "r1", "i1", "not-a-date", "also-bad", "08:00", "12:00", "SEG"),
	}
	candidate := offering("", "r1", "i2", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG")

	assert.NoError(t, v.Validate(context.Background(), existing, &candidate))
}

func TestValidateRejectsInvertedDates(t *testing.T) {
	v := newTestValidator(nil, nil)
	candidate := offering("", "r1", "i1", "29/03/2024", "04/03/2024", "08:00", "12:00", "SEG")

	err := v.Validate(context.Background(), nil, &candidate)
	require.Error(t, err)
	assert.Equal(t, "data início não pode ser maior que data fim", appErrors.FromError(err).Message)
}

func TestValidateWorkloadCeiling(t *testing.T) {
	instructors := map[string]*models.Instructor{
		"i1": {ID: "i1", ShortName: "João Silva", Role: models.RoleInstructor, MaxWeeklyHours: floatPtr(20)},
	}
	v := newTestValidator(instructors, nil)

	// Existing load: 4h/day on three weekdays = 12h/week.
	existing := []models.Schedule{
		offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG", "QUA", "SEX"),
	}
	// Candidate adds 12h/week more on disjoint days: 24h > 20h.
	candidate := offering("", "r2", "i1", "04/03/2024", "29/03/2024", "14:00", "18:00", "TER", "QUI", "SÁB")

	err := v.Validate(context.Background(), existing, &candidate)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Message, "limite de carga horária semanal excedido")
	assert.Contains(t, appErr.Message, "João Silva")
	assert.Contains(t, appErr.Message, "limite: 20h")
	assert.Contains(t, appErr.Message, "previsto: 24h")
}

func TestValidateWorkloadSkipsUncappedInstructors(t *testing.T) {
	v := newTestValidator(nil, nil)
	existing := []models.Schedule{
		offering("01/2024", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "18:00", "SEG", "TER", "QUA", "QUI", "SEX"),
	}
	candidate := offering("", "r2", "i1", "01/04/2024", "30/04/2024", "08:00", "18:00", "SEG", "TER", "QUA", "QUI", "SEX")

	assert.NoError(t, v.Validate(context.Background(), existing, &candidate))
}

func TestValidateAvailabilityUndeclaredIsPermitted(t *testing.T) {
	v := newTestValidator(nil, nil)
	candidate := offering("", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG")

	assert.NoError(t, v.Validate(context.Background(), nil, &candidate))
}

func TestValidateAvailabilityMissingSlotRejects(t *testing.T) {
	key := models.AvailabilityKey{InstructorID: "i1", Year: 2024, PeriodType: models.PeriodMonth, PeriodValue: "3"}
	records := map[string]*models.AvailabilityRecord{
		key.String(): {
			ID:           key.String(),
			InstructorID: "i1",
			Year:         2024,
			PeriodType:   models.PeriodMonth,
			PeriodValue:  "3",
			Slots:        []string{"TER|turno1"},
		},
	}
	v := newTestValidator(nil, records)
	candidate := offering("", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG")

	err := v.Validate(context.Background(), nil, &candidate)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Message, "sem disponibilidade declarada")
	assert.Contains(t, appErr.Message, "SEG|turno1")
	assert.Contains(t, appErr.Message, "03/2024")
}

func TestValidateAvailabilityEmptyRecordRejects(t *testing.T) {
	// An existing record with no slots is an explicit declaration of zero
	// availability, not an absence.
	key := models.AvailabilityKey{InstructorID: "i1", Year: 2024, PeriodType: models.PeriodMonth, PeriodValue: "3"}
	records := map[string]*models.AvailabilityRecord{
		key.String(): {ID: key.String(), InstructorID: "i1", Year: 2024, PeriodType: models.PeriodMonth, PeriodValue: "3", Slots: []string{}},
	}
	v := newTestValidator(nil, records)
	candidate := offering("", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG")

	require.Error(t, v.Validate(context.Background(), nil, &candidate))
}

func TestValidateAvailabilityMonthOverridesQuarter(t *testing.T) {
	monthKey := models.AvailabilityKey{InstructorID: "i1", Year: 2024, PeriodType: models.PeriodMonth, PeriodValue: "3"}
	quarterKey := models.AvailabilityKey{InstructorID: "i1", Year: 2024, PeriodType: models.PeriodQuarter, PeriodValue: "1"}
	records := map[string]*models.AvailabilityRecord{
		monthKey.String(): {
			ID: monthKey.String(), InstructorID: "i1", Year: 2024,
			PeriodType: models.PeriodMonth, PeriodValue: "3",
			Slots: []string{"SEG|turno1"},
		},
		// Quarter record without the slot: must be shadowed by the month one.
		quarterKey.String(): {
			ID: quarterKey.String(), InstructorID: "i1", Year: 2024,
			PeriodType: models.PeriodQuarter, PeriodValue: "1",
			Slots: []string{},
		},
	}
	v := newTestValidator(nil, records)
	candidate := offering("", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG")

	assert.NoError(t, v.Validate(context.Background(), nil, &candidate))
}

func TestValidateAvailabilityFallsBackToYear(t *testing.T) {
	yearKey := models.AvailabilityKey{InstructorID: "i1", Year: 2024, PeriodType: models.PeriodYear, PeriodValue: models.YearPeriodValue}
	records := map[string]*models.AvailabilityRecord{
		yearKey.String(): {
			ID: yearKey.String(), InstructorID: "i1", Year: 2024,
			PeriodType: models.PeriodYear, PeriodValue: models.YearPeriodValue,
			Slots: []string{"SEG|turno1"},
		},
	}
	v := newTestValidator(nil, records)
	candidate := offering("", "r1", "i1", "04/03/2024", "29/03/2024", "08:00", "12:00", "SEG")

	assert.NoError(t, v.Validate(context.Background(), nil, &candidate))
}
