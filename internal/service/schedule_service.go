package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context) ([]models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	Mutate(ctx context.Context, fn func(items []models.Schedule) ([]models.Schedule, error)) error
	Update(ctx context.Context, schedule models.Schedule) error
	Delete(ctx context.Context, id string) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type roomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type shiftReader interface {
	FindByID(ctx context.Context, id string) (*models.Shift, error)
}

type instructorReader interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

type calendarReader interface {
	FindByYear(ctx context.Context, year int) (*models.Calendar, error)
}

type availabilityReader interface {
	FindByKey(ctx context.Context, key models.AvailabilityKey) (*models.AvailabilityRecord, error)
}

// ScheduleRequest carries the offering payload for create and update.
type ScheduleRequest struct {
	Year               int      `json:"ano" validate:"required"`
	Month              int      `json:"mes" validate:"required,min=1,max=12"`
	CourseID           string   `json:"curso_id" validate:"required"`
	InstructorID       string   `json:"instrutor_id"`
	InstructorIDs      []string `json:"instrutor_ids"`
	AnalystID          string   `json:"analista_id" validate:"required"`
	AssistantID        string   `json:"assistente_id"`
	RoomID             string   `json:"sala_id" validate:"required"`
	StudentCount       int      `json:"qtd_alunos"`
	ShiftID            string   `json:"turno_id" validate:"required"`
	ResourceType       string   `json:"recurso_tipo"`
	PartnershipProgram string   `json:"programa_parceria"`
	StartDate          string   `json:"data_inicio" validate:"required"`
	EndDate            string   `json:"data_fim" validate:"required"`
	TotalHours         float64  `json:"ch_total"`
	ClassGroup         string   `json:"turma" validate:"required"`
	StartTime          string   `json:"hora_inicio" validate:"required"`
	EndTime            string   `json:"hora_fim" validate:"required"`
	ExecutionDays      []string `json:"dias_execucao" validate:"required,min=1"`
	Notes              string   `json:"observacoes"`
}

// ChronogramRequest mutates only the presentation chronogram of an offering.
type ChronogramRequest struct {
	Days  map[string]models.ChronogramDay `json:"cronograma_dias"`
	Notes string                          `json:"cronograma_observacoes"`
}

// ComputeEndDateRequest asks for the calendar-derived end date of a
// prospective offering.
type ComputeEndDateRequest struct {
	Year          int      `json:"ano" validate:"required"`
	StartDate     string   `json:"data_inicio" validate:"required"`
	ExecutionDays []string `json:"dias_execucao" validate:"required,min=1"`
	CourseID      string   `json:"curso_id" validate:"required"`
	ShiftID       string   `json:"turno_id" validate:"required"`
}

// ScheduleService orchestrates offering creation: id assignment,
// normalization, reference checks, the validator chain and persistence.
type ScheduleService struct {
	schedules    scheduleRepository
	courses      courseReader
	rooms        roomReader
	shifts       shiftReader
	instructors  instructorReader
	calendars    calendarReader
	validator    *ScheduleValidator
	calculator   EndDateCalculator
	structValid  *validator.Validate
	logger       *zap.Logger
}

// NewScheduleService builds the service.
func NewScheduleService(
	schedules scheduleRepository,
	courses courseReader,
	rooms roomReader,
	shifts shiftReader,
	instructors instructorReader,
	calendars calendarReader,
	scheduleValidator *ScheduleValidator,
	structValid *validator.Validate,
	logger *zap.Logger,
) *ScheduleService {
	if structValid == nil {
		structValid = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		schedules:   schedules,
		courses:     courses,
		rooms:       rooms,
		shifts:      shifts,
		instructors: instructors,
		calendars:   calendars,
		validator:   scheduleValidator,
		structValid: structValid,
		logger:      logger,
	}
}

// List returns every offering.
func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, error) {
	items, err := s.schedules.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return items, nil
}

// Get returns one offering.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	item, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programação não encontrada: "+id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return item, nil
}

// NextOfferID previews the next NN/YYYY id for a year.
func (s *ScheduleService) NextOfferID(ctx context.Context, year int) (string, error) {
	items, err := s.schedules.List(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return models.NextOfferID(scheduleIDs(items), year).String(), nil
}

// ComputeEndDate resolves course hours, shift hours/day and the year's
// calendar, then derives the end date. The same derivation gates Create.
func (s *ScheduleService) ComputeEndDate(ctx context.Context, req ComputeEndDateRequest) (string, error) {
	if err := s.structValid.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end-date payload")
	}
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", appErrors.Clone(appErrors.ErrValidation, "curso não encontrado: "+req.CourseID)
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	shift, err := s.shifts.FindByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", appErrors.Clone(appErrors.ErrValidation, "turno não encontrado: "+req.ShiftID)
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}
	hoursPerDay, err := shift.HoursPerDay()
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "carga horária ou horas/dia inválidas")
	}

	calendar, err := s.calendars.FindByYear(ctx, req.Year)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}

	endDate, err := s.calculator.Compute(req.Year, req.StartDate, models.NormalizeWeekdaySet(req.ExecutionDays), course.TotalHours, hoursPerDay, calendar)
	if err != nil {
		return "", err
	}
	return models.FormatBRDate(endDate), nil
}

// Create assigns the next NN/YYYY id, normalizes and validates the payload
// and persists the offering. Validation runs inside the repository mutation
// so the conflict scan sees the exact collection state it overwrites.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) (*models.Schedule, error) {
	candidate, err := s.buildCandidate(ctx, req, true)
	if err != nil {
		return nil, err
	}

	err = s.schedules.Mutate(ctx, func(items []models.Schedule) ([]models.Schedule, error) {
		candidate.ID = models.NextOfferID(scheduleIDs(items), candidate.Year).String()
		for i := range items {
			if items[i].ID == candidate.ID {
				return nil, appErrors.Clone(appErrors.ErrValidation, "ID já cadastrado: "+candidate.ID)
			}
		}
		if err := s.validator.Validate(ctx, items, candidate); err != nil {
			return nil, err
		}
		return append(items, *candidate), nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("schedule created", zap.String("id", candidate.ID), zap.String("course_id", candidate.CourseID))
	return candidate, nil
}

// Update merges the payload into an existing offering, re-normalizes and
// re-validates against every other offering.
func (s *ScheduleService) Update(ctx context.Context, id string, req ScheduleRequest) (*models.Schedule, error) {
	candidate, err := s.buildCandidate(ctx, req, false)
	if err != nil {
		return nil, err
	}
	candidate.ID = id

	err = s.schedules.Mutate(ctx, func(items []models.Schedule) ([]models.Schedule, error) {
		idx := -1
		for i := range items {
			if items[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programação não encontrada: "+id)
		}
		// Chronogram state rides along untouched.
		candidate.ChronogramDays = items[idx].ChronogramDays
		candidate.ChronogramNotes = items[idx].ChronogramNotes
		if err := s.validator.Validate(ctx, items, candidate); err != nil {
			return nil, err
		}
		items[idx] = *candidate
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("schedule updated", zap.String("id", id))
	return candidate, nil
}

// UpdateChronogram mutates only the chronogram fields. This path bypasses
// the validator chain entirely: chronogram edits never touch
// conflict-relevant fields.
func (s *ScheduleService) UpdateChronogram(ctx context.Context, id string, req ChronogramRequest) (*models.Schedule, error) {
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule.ChronogramDays = req.Days
	schedule.ChronogramNotes = req.Notes
	if err := s.schedules.Update(ctx, *schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update chronogram")
	}
	return schedule, nil
}

// Delete removes an offering unconditionally.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.schedules.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "programação não encontrada: "+id)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	s.logger.Info("schedule deleted", zap.String("id", id))
	return nil
}

// buildCandidate normalizes the request into a Schedule and runs every check
// that does not depend on the rest of the collection: struct validation,
// reference existence, collaborator roles, denormalized room/course values,
// turma shape and the end-date equality gate.
func (s *ScheduleService) buildCandidate(ctx context.Context, req ScheduleRequest, enforceEndDate bool) (*models.Schedule, error) {
	if err := s.structValid.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	instructorIDs := models.NormalizeInstructorIDs(req.InstructorIDs, req.InstructorID)
	if len(instructorIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "informe ao menos um instrutor")
	}

	startDate, err := models.NormalizeBRDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "data inicial inválida")
	}
	endDate, err := models.NormalizeBRDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "data final inválida")
	}

	executionDays := models.NormalizeWeekdaySet(req.ExecutionDays)
	if len(executionDays) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dias de execução inválidos")
	}

	if !models.ClassGroupPattern.MatchString(strings.TrimSpace(req.ClassGroup)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "turma inválida: use o formato NN.28.NNNN")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "curso não encontrado: "+req.CourseID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "sala não encontrada: "+req.RoomID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if _, err := s.shifts.FindByID(ctx, req.ShiftID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "turno não encontrado: "+req.ShiftID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}

	for _, instructorID := range instructorIDs {
		if err := s.requireRole(ctx, instructorID, models.RoleInstructor); err != nil {
			return nil, err
		}
	}
	if err := s.requireRole(ctx, req.AnalystID, models.RoleAnalyst); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AssistantID) != "" {
		if err := s.requireRole(ctx, req.AssistantID, models.RoleAssistant); err != nil {
			return nil, err
		}
	}

	totalHours := req.TotalHours
	if totalHours <= 0 {
		totalHours = course.TotalHours
	}
	studentCount := req.StudentCount
	if studentCount <= 0 {
		studentCount = room.Capacity
	}

	candidate := &models.Schedule{
		Year:               req.Year,
		Month:              req.Month,
		CourseID:           req.CourseID,
		InstructorID:       instructorIDs[0],
		InstructorIDs:      instructorIDs,
		AnalystID:          req.AnalystID,
		AssistantID:        strings.TrimSpace(req.AssistantID),
		RoomID:             req.RoomID,
		Floor:              room.Floor,
		StudentCount:       studentCount,
		ShiftID:            req.ShiftID,
		ResourceType:       req.ResourceType,
		PartnershipProgram: req.PartnershipProgram,
		StartDate:          startDate,
		EndDate:            endDate,
		TotalHours:         totalHours,
		ClassGroup:         strings.TrimSpace(req.ClassGroup),
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		ExecutionDays:      executionDays,
		Notes:              req.Notes,
	}

	computed, err := s.ComputeEndDate(ctx, ComputeEndDateRequest{
		Year:          req.Year,
		StartDate:     startDate,
		ExecutionDays: executionDays,
		CourseID:      req.CourseID,
		ShiftID:       req.ShiftID,
	})
	if enforceEndDate {
		if err != nil {
			return nil, err
		}
		if computed != endDate {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				"data final não confere com o calendário: recalcule antes de salvar")
		}
	} else if err == nil && computed != endDate {
		// On update the gate only applies when the derivation succeeds.
		return nil, appErrors.Clone(appErrors.ErrValidation,
			"data final não confere com o calendário: recalcule antes de salvar")
	}

	return candidate, nil
}

func (s *ScheduleService) requireRole(ctx context.Context, collaboratorID, role string) error {
	collaborator, err := s.instructors.FindByID(ctx, collaboratorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrValidation, "colaborador não encontrado: "+collaboratorID)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load collaborator")
	}
	if collaborator.Role != role {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(
			"colaborador %s não tem a categoria %s", collaborator.ShortName, role))
	}
	return nil
}

func scheduleIDs(items []models.Schedule) []string {
	ids := make([]string, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}
	return ids
}
