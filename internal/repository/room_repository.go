package repository

import (
	"context"

	"github.com/progcursos/programacao-api/internal/models"
)

const roomsFile = "rooms.json"

// RoomRepository persists rooms in rooms.json.
type RoomRepository struct {
	items collection[models.Room]
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(store *Store) *RoomRepository {
	return &RoomRepository{
		items: newCollection(store, roomsFile, func(r *models.Room) string { return r.ID }),
	}
}

func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	room, err := r.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Normalize()
	return room, nil
}

func (r *RoomRepository) Insert(ctx context.Context, room models.Room) error {
	return r.items.Insert(ctx, room)
}

func (r *RoomRepository) Update(ctx context.Context, room models.Room) error {
	return r.items.Update(ctx, room)
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	return r.items.Delete(ctx, id)
}
