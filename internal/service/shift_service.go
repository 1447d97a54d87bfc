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

type shiftRepo interface {
	List(ctx context.Context) ([]models.Shift, error)
	FindByID(ctx context.Context, id string) (*models.Shift, error)
	Insert(ctx context.Context, shift models.Shift) error
	Update(ctx context.Context, shift models.Shift) error
	Delete(ctx context.Context, id string) error
}

// ShiftRequest carries a shift payload.
type ShiftRequest struct {
	Name      string `json:"nome" validate:"required"`
	StartTime string `json:"horario_inicio" validate:"required"`
	EndTime   string `json:"horario_fim" validate:"required"`
	Active    bool   `json:"ativo"`
}

// ShiftService manages the shift (turno) registry.
type ShiftService struct {
	shifts    shiftRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewShiftService builds the service.
func NewShiftService(shifts shiftRepo, validate *validator.Validate, logger *zap.Logger) *ShiftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftService{shifts: shifts, validator: validate, logger: logger}
}

// List returns every shift.
func (s *ShiftService) List(ctx context.Context) ([]models.Shift, error) {
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	return shifts, nil
}

// Get returns one shift.
func (s *ShiftService) Get(ctx context.Context, id string) (*models.Shift, error) {
	shift, err := s.shifts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "turno não encontrado: "+id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}
	return shift, nil
}

// Create stores a new shift.
func (s *ShiftService) Create(ctx context.Context, req ShiftRequest) (*models.Shift, error) {
	shift, err := s.build(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.shifts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	ids := make([]string, 0, len(existing))
	for i := range existing {
		ids = append(ids, existing[i].ID)
	}
	shift.ID = repository.NextNumericID(ids)
	if err := s.shifts.Insert(ctx, *shift); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save shift")
	}
	return shift, nil
}

// Update replaces a shift.
func (s *ShiftService) Update(ctx context.Context, id string, req ShiftRequest) (*models.Shift, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	shift, err := s.build(req)
	if err != nil {
		return nil, err
	}
	shift.ID = id
	if err := s.shifts.Update(ctx, *shift); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save shift")
	}
	return shift, nil
}

// Delete removes a shift.
func (s *ShiftService) Delete(ctx context.Context, id string) error {
	if err := s.shifts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "turno não encontrado: "+id)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete shift")
	}
	return nil
}

func (s *ShiftService) build(req ShiftRequest) (*models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shift payload")
	}
	shift := models.Shift{
		Name:      strings.TrimSpace(req.Name),
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		Active:    req.Active,
	}
	if err := shift.Normalize(); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return &shift, nil
}
