package repository

import (
	"context"

	"github.com/progcursos/programacao-api/internal/models"
)

const calendarsFile = "calendars.json"

// CalendarRepository persists academic calendars in calendars.json.
// Calendars are keyed by year; the numeric id is kept for legacy records.
type CalendarRepository struct {
	items collection[models.Calendar]
}

// NewCalendarRepository constructs a CalendarRepository.
func NewCalendarRepository(store *Store) *CalendarRepository {
	return &CalendarRepository{
		items: newCollection(store, calendarsFile, func(c *models.Calendar) string { return c.ID }),
	}
}

func (r *CalendarRepository) List(ctx context.Context) ([]models.Calendar, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

func (r *CalendarRepository) FindByID(ctx context.Context, id string) (*models.Calendar, error) {
	calendar, err := r.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	calendar.Normalize()
	return calendar, nil
}

// FindByYear returns the calendar for a year or ErrNotFound.
func (r *CalendarRepository) FindByYear(ctx context.Context, year int) (*models.Calendar, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Year == year {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *CalendarRepository) Insert(ctx context.Context, calendar models.Calendar) error {
	return r.items.Insert(ctx, calendar)
}

func (r *CalendarRepository) Update(ctx context.Context, calendar models.Calendar) error {
	return r.items.Update(ctx, calendar)
}

func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	return r.items.Delete(ctx, id)
}

// NextID returns the next numeric calendar id.
func (r *CalendarRepository) NextID(ctx context.Context) (string, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}
	return NextNumericID(ids), nil
}
