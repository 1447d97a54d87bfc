package repository

import (
	"context"

	"github.com/progcursos/programacao-api/internal/models"
)

const schedulesFile = "schedules.json"

// ScheduleRepository persists offerings in schedules.json.
type ScheduleRepository struct {
	items collection[models.Schedule]
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(store *Store) *ScheduleRepository {
	return &ScheduleRepository{
		items: newCollection(store, schedulesFile, func(s *models.Schedule) string { return s.ID }),
	}
}

func (r *ScheduleRepository) List(ctx context.Context) ([]models.Schedule, error) {
	return r.items.List(ctx)
}

func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	return r.items.FindByID(ctx, id)
}

// Mutate runs fn over the latest schedule collection under the file lock and
// persists its result. The scheduling service validates candidates inside fn
// so the conflict scan always sees the state it is about to overwrite.
func (r *ScheduleRepository) Mutate(ctx context.Context, fn func(items []models.Schedule) ([]models.Schedule, error)) error {
	return r.items.Mutate(ctx, fn)
}

func (r *ScheduleRepository) Update(ctx context.Context, schedule models.Schedule) error {
	return r.items.Update(ctx, schedule)
}

func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	return r.items.Delete(ctx, id)
}
