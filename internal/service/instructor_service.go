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

type instructorRepo interface {
	List(ctx context.Context) ([]models.Instructor, error)
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	Insert(ctx context.Context, instructor models.Instructor) error
	Update(ctx context.Context, instructor models.Instructor) error
	Delete(ctx context.Context, id string) error
}

// InstructorRequest carries a collaborator payload.
type InstructorRequest struct {
	Name           string   `json:"nome" validate:"required"`
	ShortName      string   `json:"nome_sobrenome"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Phone          string   `json:"telefone"`
	Role           string   `json:"role"`
	Specialties    []string `json:"especialidades"`
	MaxWeeklyHours *float64 `json:"max_horas_semana" validate:"omitempty,gt=0"`
	Active         bool     `json:"ativo"`
}

// InstructorService manages the collaborator registry.
type InstructorService struct {
	instructors instructorRepo
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewInstructorService builds the service.
func NewInstructorService(instructors instructorRepo, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{instructors: instructors, validator: validate, logger: logger}
}

// List returns collaborators, optionally filtered by role.
func (s *InstructorService) List(ctx context.Context, role string) ([]models.Instructor, error) {
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return instructors, nil
	}
	filtered := make([]models.Instructor, 0, len(instructors))
	for i := range instructors {
		if instructors[i].Role == role {
			filtered = append(filtered, instructors[i])
		}
	}
	return filtered, nil
}

// Get returns one collaborator.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.instructors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "colaborador não encontrado: "+id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	return instructor, nil
}

// Create stores a new collaborator.
func (s *InstructorService) Create(ctx context.Context, req InstructorRequest) (*models.Instructor, error) {
	instructor, err := s.build(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.instructors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	ids := make([]string, 0, len(existing))
	for i := range existing {
		ids = append(ids, existing[i].ID)
	}
	instructor.ID = repository.NextNumericID(ids)
	if err := s.instructors.Insert(ctx, *instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save instructor")
	}
	s.logger.Info("instructor created", zap.String("id", instructor.ID), zap.String("role", instructor.Role))
	return instructor, nil
}

// Update replaces a collaborator.
func (s *InstructorService) Update(ctx context.Context, id string, req InstructorRequest) (*models.Instructor, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	instructor, err := s.build(req)
	if err != nil {
		return nil, err
	}
	instructor.ID = id
	if err := s.instructors.Update(ctx, *instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save instructor")
	}
	return instructor, nil
}

// Delete removes a collaborator.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	if err := s.instructors.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "colaborador não encontrado: "+id)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete instructor")
	}
	return nil
}

func (s *InstructorService) build(req InstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	role := strings.TrimSpace(req.Role)
	if role != "" && !models.ValidRole(role) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "categoria inválida: use Instrutor, Analista ou Assistente")
	}
	instructor := models.Instructor{
		Name:           strings.TrimSpace(req.Name),
		ShortName:      strings.TrimSpace(req.ShortName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Role:           role,
		Specialties:    req.Specialties,
		MaxWeeklyHours: req.MaxWeeklyHours,
		Active:         req.Active,
	}
	instructor.Normalize()
	return &instructor, nil
}
