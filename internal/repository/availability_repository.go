package repository

import (
	"context"
	"strings"

	"github.com/progcursos/programacao-api/internal/models"
)

const availabilityFile = "instructor_availability.json"

// AvailabilityRepository persists declared instructor availability.
type AvailabilityRepository struct {
	items collection[models.AvailabilityRecord]
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(store *Store) *AvailabilityRepository {
	return &AvailabilityRepository{
		items: newCollection(store, availabilityFile, func(r *models.AvailabilityRecord) string { return r.ID }),
	}
}

func (r *AvailabilityRepository) List(ctx context.Context) ([]models.AvailabilityRecord, error) {
	return r.items.List(ctx)
}

// FindByKey returns the record for a composite availability key or ErrNotFound.
func (r *AvailabilityRepository) FindByKey(ctx context.Context, key models.AvailabilityKey) (*models.AvailabilityRecord, error) {
	return r.items.FindByID(ctx, key.String())
}

// FindByShareToken locates a record by its share token. Expiry is checked by
// the service layer; this is a plain lookup.
func (r *AvailabilityRepository) FindByShareToken(ctx context.Context, token string) (*models.AvailabilityRecord, error) {
	key := strings.TrimSpace(token)
	if key == "" {
		return nil, ErrNotFound
	}
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ShareToken == key {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

// Upsert inserts or replaces the record with the same composite id.
func (r *AvailabilityRepository) Upsert(ctx context.Context, record models.AvailabilityRecord) error {
	return r.items.Mutate(ctx, func(items []models.AvailabilityRecord) ([]models.AvailabilityRecord, error) {
		for i := range items {
			if items[i].ID == record.ID {
				items[i] = record
				return items, nil
			}
		}
		return append(items, record), nil
	})
}

func (r *AvailabilityRepository) Update(ctx context.Context, record models.AvailabilityRecord) error {
	return r.items.Update(ctx, record)
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	return r.items.Delete(ctx, id)
}
