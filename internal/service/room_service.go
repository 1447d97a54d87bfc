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

type roomRepo interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	Insert(ctx context.Context, room models.Room) error
	Update(ctx context.Context, room models.Room) error
	Delete(ctx context.Context, id string) error
}

// RoomRequest carries a room payload.
type RoomRequest struct {
	Name     string   `json:"nome" validate:"required"`
	Abbrev   string   `json:"sigla"`
	Capacity int      `json:"capacidade" validate:"gte=0"`
	Floor    string   `json:"pavimento"`
	Features []string `json:"recursos"`
	Active   bool     `json:"ativo"`
}

// RoomService manages the room registry.
type RoomService struct {
	rooms     roomRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService builds the service.
func NewRoomService(rooms roomRepo, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{rooms: rooms, validator: validate, logger: logger}
}

// List returns every room.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sala não encontrada: "+id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create stores a new room.
func (s *RoomService) Create(ctx context.Context, req RoomRequest) (*models.Room, error) {
	room, err := s.build(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	ids := make([]string, 0, len(existing))
	for i := range existing {
		ids = append(ids, existing[i].ID)
	}
	room.ID = repository.NextNumericID(ids)
	if err := s.rooms.Insert(ctx, *room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save room")
	}
	return room, nil
}

// Update replaces a room.
func (s *RoomService) Update(ctx context.Context, id string, req RoomRequest) (*models.Room, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	room, err := s.build(req)
	if err != nil {
		return nil, err
	}
	room.ID = id
	if err := s.rooms.Update(ctx, *room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save room")
	}
	return room, nil
}

// Delete removes a room.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "sala não encontrada: "+id)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	return nil
}

func (s *RoomService) build(req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room := models.Room{
		Name:     strings.TrimSpace(req.Name),
		Abbrev:   strings.TrimSpace(req.Abbrev),
		Capacity: req.Capacity,
		Floor:    strings.TrimSpace(req.Floor),
		Features: req.Features,
		Active:   req.Active,
	}
	room.Normalize()
	return &room, nil
}
