package repository

import (
	"context"

	"github.com/progcursos/programacao-api/internal/models"
)

const instructorsFile = "instructors.json"

// InstructorRepository persists collaborators in instructors.json.
type InstructorRepository struct {
	items collection[models.Instructor]
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(store *Store) *InstructorRepository {
	return &InstructorRepository{
		items: newCollection(store, instructorsFile, func(i *models.Instructor) string { return i.ID }),
	}
}

func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := r.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	instructor.Normalize()
	return instructor, nil
}

func (r *InstructorRepository) Insert(ctx context.Context, instructor models.Instructor) error {
	return r.items.Insert(ctx, instructor)
}

func (r *InstructorRepository) Update(ctx context.Context, instructor models.Instructor) error {
	return r.items.Update(ctx, instructor)
}

func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	return r.items.Delete(ctx, id)
}
