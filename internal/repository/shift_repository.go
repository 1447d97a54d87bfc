package repository

import (
	"context"

	"github.com/progcursos/programacao-api/internal/models"
)

const shiftsFile = "shifts.json"

// ShiftRepository persists shifts in shifts.json.
type ShiftRepository struct {
	items collection[models.Shift]
}

// NewShiftRepository constructs a ShiftRepository.
func NewShiftRepository(store *Store) *ShiftRepository {
	return &ShiftRepository{
		items: newCollection(store, shiftsFile, func(s *models.Shift) string { return s.ID }),
	}
}

// List returns all shifts, deriving hs_dia for legacy records missing it.
func (r *ShiftRepository) List(ctx context.Context) ([]models.Shift, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].HoursDay == "" {
			_ = items[i].Normalize()
		}
	}
	return items, nil
}

func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*models.Shift, error) {
	shift, err := r.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.HoursDay == "" {
		_ = shift.Normalize()
	}
	return shift, nil
}

func (r *ShiftRepository) Insert(ctx context.Context, shift models.Shift) error {
	return r.items.Insert(ctx, shift)
}

func (r *ShiftRepository) Update(ctx context.Context, shift models.Shift) error {
	return r.items.Update(ctx, shift)
}

func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	return r.items.Delete(ctx, id)
}
