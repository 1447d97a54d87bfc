package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

type courseRepo interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Insert(ctx context.Context, course models.Course) error
	Update(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseRequest carries a course payload.
type CourseRequest struct {
	Name       string                  `json:"nome" validate:"required"`
	CourseType string                  `json:"tipo_curso" validate:"required"`
	Level      string                  `json:"nivel"`
	TotalHours float64                 `json:"carga_horaria_total" validate:"required,gt=0"`
	Units      []CurricularUnitPayload `json:"curricular_units" validate:"dive"`
	Active     bool                    `json:"ativo"`
}

// CurricularUnitPayload is a unit embedded in a course payload.
type CurricularUnitPayload struct {
	ID     string  `json:"id"`
	Name   string  `json:"nome" validate:"required"`
	Hours  float64 `json:"carga_horaria" validate:"required,gt=0"`
	Module string  `json:"modulo"`
}

// CourseService manages the course registry.
type CourseService struct {
	courses   courseRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService builds the service.
func NewCourseService(courses courseRepo, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, validator: validate, logger: logger}
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curso não encontrado: "+id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create stores a new course with a sequential numeric id.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	course, err := s.build(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	ids := make([]string, 0, len(existing))
	for i := range existing {
		ids = append(ids, existing[i].ID)
	}
	course.ID = repository.NextNumericID(ids)
	if err := s.courses.Insert(ctx, *course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save course")
	}
	s.logger.Info("course created", zap.String("id", course.ID), zap.String("name", course.Name))
	return course, nil
}

// Update replaces a course.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	course, err := s.build(req)
	if err != nil {
		return nil, err
	}
	course.ID = id
	if err := s.courses.Update(ctx, *course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save course")
	}
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "curso não encontrado: "+id)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

func (s *CourseService) build(req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	units := make([]models.CurricularUnit, 0, len(req.Units))
	var unitHours float64
	for _, unit := range req.Units {
		unitHours += unit.Hours
		units = append(units, models.CurricularUnit{
			ID:     strings.TrimSpace(unit.ID),
			Name:   strings.TrimSpace(unit.Name),
			Hours:  unit.Hours,
			Module: strings.TrimSpace(unit.Module),
		})
	}
	if len(units) > 0 && math.Abs(unitHours-req.TotalHours) > 0.001 {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("soma das CH das UCs (%gh) difere da carga horária total do curso (%gh)", unitHours, req.TotalHours))
	}
	course := models.Course{
		Name:       strings.TrimSpace(req.Name),
		CourseType: strings.TrimSpace(req.CourseType),
		Level:      strings.TrimSpace(req.Level),
		TotalHours: req.TotalHours,
		Units:      units,
		Active:     req.Active,
	}
	course.Normalize()
	return &course, nil
}
