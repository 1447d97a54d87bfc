package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

type calendarRepo interface {
	List(ctx context.Context) ([]models.Calendar, error)
	FindByID(ctx context.Context, id string) (*models.Calendar, error)
	FindByYear(ctx context.Context, year int) (*models.Calendar, error)
	NextID(ctx context.Context) (string, error)
	Insert(ctx context.Context, calendar models.Calendar) error
	Update(ctx context.Context, calendar models.Calendar) error
	Delete(ctx context.Context, id string) error
}

// CalendarRequest carries a yearly teaching calendar payload.
type CalendarRequest struct {
	Year         int     `json:"ano" validate:"required,min=2000,max=2100"`
	TeachingDays [][]int `json:"dias_letivos_por_mes" validate:"required"`
	Holidays     [][]int `json:"feriados_por_mes"`
	Active       bool    `json:"ativo"`
}

// CalendarService manages the yearly teaching calendars that drive end-date
// derivation.
type CalendarService struct {
	calendars calendarRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService builds the service.
func NewCalendarService(calendars calendarRepo, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{calendars: calendars, validator: validate, logger: logger}
}

// List returns every stored calendar.
func (s *CalendarService) List(ctx context.Context) ([]models.Calendar, error) {
	calendars, err := s.calendars.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendars")
	}
	return calendars, nil
}

// Get returns one calendar.
func (s *CalendarService) Get(ctx context.Context, id string) (*models.Calendar, error) {
	calendar, err := s.calendars.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendário não encontrado: "+id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	return calendar, nil
}

// GetByYear returns the calendar for a year.
func (s *CalendarService) GetByYear(ctx context.Context, year int) (*models.Calendar, error) {
	calendar, err := s.calendars.FindByYear(ctx, year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendário não encontrado para o ano informado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	return calendar, nil
}

// Create stores a new calendar. Each year may only have one.
func (s *CalendarService) Create(ctx context.Context, req CalendarRequest) (*models.Calendar, error) {
	calendar, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.calendars.FindByYear(ctx, calendar.Year); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "já existe calendário para o ano informado")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	id, err := s.calendars.NextID(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign calendar id")
	}
	calendar.ID = id
	if err := s.calendars.Insert(ctx, *calendar); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save calendar")
	}
	s.logger.Info("calendar created", zap.String("id", calendar.ID), zap.Int("year", calendar.Year))
	return calendar, nil
}

// Update replaces a calendar's teaching days.
func (s *CalendarService) Update(ctx context.Context, id string, req CalendarRequest) (*models.Calendar, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	calendar, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if other, err := s.calendars.FindByYear(ctx, calendar.Year); err == nil && other.ID != existing.ID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "já existe calendário para o ano informado")
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	calendar.ID = existing.ID
	if err := s.calendars.Update(ctx, *calendar); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save calendar")
	}
	return calendar, nil
}

// Delete removes a calendar.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	if err := s.calendars.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "calendário não encontrado: "+id)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete calendar")
	}
	return nil
}

func (s *CalendarService) build(req CalendarRequest) (*models.Calendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar payload")
	}
	if len(req.TeachingDays) > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dias letivos devem cobrir no máximo 12 meses")
	}
	calendar := models.Calendar{
		Year:         req.Year,
		TeachingDays: req.TeachingDays,
		Holidays:     req.Holidays,
		Active:       req.Active,
	}
	calendar.Normalize()
	return &calendar, nil
}
