package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

type unitRepo interface {
	List(ctx context.Context) ([]models.CurricularUnit, error)
	FindByID(ctx context.Context, id string) (*models.CurricularUnit, error)
	Insert(ctx context.Context, unit models.CurricularUnit) error
	Update(ctx context.Context, unit models.CurricularUnit) error
	Delete(ctx context.Context, id string) error
}

// CurricularUnitRequest carries a standalone unit payload.
type CurricularUnitRequest struct {
	CourseID string  `json:"curso_id" validate:"required"`
	Name     string  `json:"nome" validate:"required"`
	Hours    float64 `json:"carga_horaria" validate:"required,gt=0"`
	Module   string  `json:"modulo"`
}

// CurricularUnitService manages standalone curricular units, each bound to an
// existing course.
type CurricularUnitService struct {
	units     unitRepo
	courses   courseReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCurricularUnitService builds the service.
func NewCurricularUnitService(units unitRepo, courses courseReader, validate *validator.Validate, logger *zap.Logger) *CurricularUnitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurricularUnitService{units: units, courses: courses, validator: validate, logger: logger}
}

// List returns units, optionally filtered by course.
func (s *CurricularUnitService) List(ctx context.Context, courseID string) ([]models.CurricularUnit, error) {
	units, err := s.units.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list curricular units")
	}
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return units, nil
	}
	filtered := make([]models.CurricularUnit, 0, len(units))
	for i := range units {
		if units[i].CourseID == courseID {
			filtered = append(filtered, units[i])
		}
	}
	return filtered, nil
}

// Get returns one unit.
func (s *CurricularUnitService) Get(ctx context.Context, id string) (*models.CurricularUnit, error) {
	unit, err := s.units.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unidade curricular não encontrada: "+id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curricular unit")
	}
	return unit, nil
}

// Create stores a new unit.
func (s *CurricularUnitService) Create(ctx context.Context, req CurricularUnitRequest) (*models.CurricularUnit, error) {
	unit, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	existing, err := s.units.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list curricular units")
	}
	ids := make([]string, 0, len(existing))
	for i := range existing {
		ids = append(ids, existing[i].ID)
	}
	unit.ID = repository.NextNumericID(ids)
	if err := s.units.Insert(ctx, *unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save curricular unit")
	}
	return unit, nil
}

// Update replaces a unit.
func (s *CurricularUnitService) Update(ctx context.Context, id string, req CurricularUnitRequest) (*models.CurricularUnit, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	unit, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	unit.ID = id
	if err := s.units.Update(ctx, *unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save curricular unit")
	}
	return unit, nil
}

// Delete removes a unit.
func (s *CurricularUnitService) Delete(ctx context.Context, id string) error {
	if err := s.units.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "unidade curricular não encontrada: "+id)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete curricular unit")
	}
	return nil
}

func (s *CurricularUnitService) build(ctx context.Context, req CurricularUnitRequest) (*models.CurricularUnit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curricular unit payload")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "curso não encontrado: "+req.CourseID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return &models.CurricularUnit{
		CourseID: strings.TrimSpace(req.CourseID),
		Name:     strings.TrimSpace(req.Name),
		Hours:    req.Hours,
		Module:   strings.TrimSpace(req.Module),
	}, nil
}
