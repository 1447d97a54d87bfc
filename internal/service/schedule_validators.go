package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

// offeringWindow is the parsed time footprint of an offering: its date
// range, daily window in minutes and canonical weekday set.
type offeringWindow struct {
	start    time.Time
	end      time.Time
	startMin int
	endMin   int
	days     []string
}

func newOfferingWindow(s *models.Schedule) (offeringWindow, error) {
	start, err := parseFlexibleDate(s.StartDate)
	if err != nil {
		return offeringWindow{}, err
	}
	end, err := parseFlexibleDate(s.EndDate)
	if err != nil {
		return offeringWindow{}, err
	}
	startMin, err := models.ParseClock(s.StartTime)
	if err != nil {
		return offeringWindow{}, err
	}
	endMin, err := models.ParseClock(s.EndTime)
	if err != nil {
		return offeringWindow{}, err
	}
	return offeringWindow{
		start:    start,
		end:      end,
		startMin: startMin,
		endMin:   endMin,
		days:     models.NormalizeWeekdaySet(s.ExecutionDays),
	}, nil
}

func (w offeringWindow) overlaps(other offeringWindow) bool {
	if !models.DateRangesOverlap(w.start, w.end, other.start, other.end) {
		return false
	}
	if !models.WeekdaySetsIntersect(w.days, other.days) {
		return false
	}
	return models.ClockRangesOverlap(w.startMin, w.endMin, other.startMin, other.endMin)
}

// ScheduleValidator runs the conflict, workload and availability checks
// against a candidate offering. It is a pure checker: no state is mutated.
type ScheduleValidator struct {
	instructors  instructorReader
	availability availabilityReader
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewScheduleValidator builds the validator.
func NewScheduleValidator(instructors instructorReader, availability availabilityReader, logger *zap.Logger) *ScheduleValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleValidator{instructors: instructors, availability: availability, logger: logger}
}

// SetMetrics enables rejection counting. Optional.
func (v *ScheduleValidator) SetMetrics(metrics *MetricsService) {
	v.metrics = metrics
}

// Validate checks the candidate against every other existing offering. The
// candidate's own id is skipped so updates do not conflict with themselves.
func (v *ScheduleValidator) Validate(ctx context.Context, existing []models.Schedule, candidate *models.Schedule) error {
	window, err := newOfferingWindow(candidate)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if window.start.After(window.end) {
		return appErrors.Clone(appErrors.ErrValidation, "data início não pode ser maior que data fim")
	}

	candidateInstructors := candidate.AllInstructorIDs()

	for i := range existing {
		other := &existing[i]
		if other.ID == candidate.ID {
			continue
		}
		otherWindow, err := newOfferingWindow(other)
		if err != nil {
			// Legacy records with malformed dates cannot collide on a
			// concrete day; skip instead of failing the candidate.
			v.logger.Warn("skipping malformed offering in conflict scan",
				zap.String("id", other.ID), zap.Error(err))
			continue
		}
		if !window.overlaps(otherWindow) {
			continue
		}
		if other.RoomID != "" && other.RoomID == candidate.RoomID {
			v.metrics.CountConflict("sala")
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("conflito de sala: horário já reservado pela oferta %s", other.ID))
		}
		if sharesInstructor(candidateInstructors, other.AllInstructorIDs()) {
			v.metrics.CountConflict("colaborador")
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("conflito de colaborador: horário já reservado pela oferta %s", other.ID))
		}
	}

	if err := v.validateWorkload(ctx, existing, candidate, window); err != nil {
		return err
	}
	return v.validateAvailability(ctx, candidate, window)
}

func sharesInstructor(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// validateWorkload enforces each instructor's weekly-hour ceiling. Weekly
// hours of an offering are its daily window duration times its weekday
// count. Instructors without a configured cap are not checked.
func (v *ScheduleValidator) validateWorkload(ctx context.Context, existing []models.Schedule, candidate *models.Schedule, window offeringWindow) error {
	candidateWeekly := float64(window.endMin-window.startMin) / 60 * float64(len(window.days))

	for _, instructorID := range candidate.AllInstructorIDs() {
		instructor, err := v.instructors.FindByID(ctx, instructorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return appErrors.Clone(appErrors.ErrValidation, "colaborador não encontrado: "+instructorID)
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
		}
		if instructor.MaxWeeklyHours == nil {
			continue
		}
		limit := *instructor.MaxWeeklyHours

		total := candidateWeekly
		for i := range existing {
			other := &existing[i]
			if other.ID == candidate.ID {
				continue
			}
			if !containsID(other.AllInstructorIDs(), instructorID) {
				continue
			}
			otherWindow, err := newOfferingWindow(other)
			if err != nil {
				continue
			}
			total += float64(otherWindow.endMin-otherWindow.startMin) / 60 * float64(len(otherWindow.days))
		}

		if total > limit {
			v.metrics.CountConflict("carga_horaria")
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(
				"limite de carga horária semanal excedido para o colaborador %s (limite: %gh, previsto: %gh)",
				instructor.ShortName, limit, total))
		}
	}
	return nil
}

// validateAvailability checks each instructor's declared availability for
// every month the offering spans. Records are resolved falling back from
// month to quarter, semester and year; the first record found wins. A month
// with no record at any granularity is permitted: only an explicit
// declaration missing required slots rejects.
func (v *ScheduleValidator) validateAvailability(ctx context.Context, candidate *models.Schedule, window offeringWindow) error {
	shiftID := strings.TrimSpace(candidate.ShiftID)
	if shiftID == "" || len(window.days) == 0 {
		return nil
	}

	for cursor := time.Date(window.start.Year(), window.start.Month(), 1, 0, 0, 0, 0, time.UTC); !cursor.After(window.end); cursor = cursor.AddDate(0, 1, 0) {
		monthStart := cursor
		monthEnd := cursor.AddDate(0, 1, -1)
		overlapStart := maxDate(monthStart, window.start)
		overlapEnd := minDate(monthEnd, window.end)
		if overlapStart.After(overlapEnd) {
			continue
		}

		var requiredDays []string
		for _, day := range window.days {
			idx, ok := models.WeekdayIndex(day)
			if !ok {
				continue
			}
			if models.HasWeekdayBetween(overlapStart, overlapEnd, idx) {
				requiredDays = append(requiredDays, day)
			}
		}
		if len(requiredDays) == 0 {
			continue
		}

		year := monthStart.Year()
		month := int(monthStart.Month())
		for _, instructorID := range candidate.AllInstructorIDs() {
			record, err := v.lookupAvailability(ctx, instructorID, year, month)
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}
			declared := record.SlotSet()
			var missing []string
			for _, day := range requiredDays {
				slot := day + "|" + shiftID
				if _, ok := declared[slot]; !ok {
					missing = append(missing, slot)
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				v.metrics.CountConflict("disponibilidade")
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(
					"colaborador %s sem disponibilidade declarada para %s em %02d/%d",
					instructorID, strings.Join(missing, ", "), month, year))
			}
		}
	}
	return nil
}

// lookupAvailability resolves the availability record for an instructor and
// month, falling back from month to quarter, semester and year granularity.
// A nil record with nil error means nothing was declared.
func (v *ScheduleValidator) lookupAvailability(ctx context.Context, instructorID string, year, month int) (*models.AvailabilityRecord, error) {
	quarter := (month + 2) / 3
	semester := 1
	if month > 6 {
		semester = 2
	}
	keys := []models.AvailabilityKey{
		{InstructorID: instructorID, Year: year, PeriodType: models.PeriodMonth, PeriodValue: fmt.Sprint(month)},
		{InstructorID: instructorID, Year: year, PeriodType: models.PeriodQuarter, PeriodValue: fmt.Sprint(quarter)},
		{InstructorID: instructorID, Year: year, PeriodType: models.PeriodSemester, PeriodValue: fmt.Sprint(semester)},
		{InstructorID: instructorID, Year: year, PeriodType: models.PeriodYear, PeriodValue: models.YearPeriodValue},
	}
	for _, key := range keys {
		record, err := v.availability.FindByKey(ctx, key)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
		}
		return record, nil
	}
	return nil, nil
}

func containsID(ids []string, id string) bool {
	for _, value := range ids {
		if value == id {
			return true
		}
	}
	return false
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
