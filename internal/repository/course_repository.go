package repository

import (
	"context"

	"github.com/progcursos/programacao-api/internal/models"
)

const (
	coursesFile = "courses.json"
	unitsFile   = "curricular_units.json"
)

// CourseRepository persists courses in courses.json.
type CourseRepository struct {
	items collection[models.Course]
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(store *Store) *CourseRepository {
	return &CourseRepository{
		items: newCollection(store, coursesFile, func(c *models.Course) string { return c.ID }),
	}
}

func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := r.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Normalize()
	return course, nil
}

func (r *CourseRepository) Insert(ctx context.Context, course models.Course) error {
	return r.items.Insert(ctx, course)
}

func (r *CourseRepository) Update(ctx context.Context, course models.Course) error {
	return r.items.Update(ctx, course)
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return r.items.Delete(ctx, id)
}

// CurricularUnitRepository persists standalone curricular units.
type CurricularUnitRepository struct {
	items collection[models.CurricularUnit]
}

// NewCurricularUnitRepository constructs a CurricularUnitRepository.
func NewCurricularUnitRepository(store *Store) *CurricularUnitRepository {
	return &CurricularUnitRepository{
		items: newCollection(store, unitsFile, func(u *models.CurricularUnit) string { return u.ID }),
	}
}

func (r *CurricularUnitRepository) List(ctx context.Context) ([]models.CurricularUnit, error) {
	return r.items.List(ctx)
}

func (r *CurricularUnitRepository) FindByID(ctx context.Context, id string) (*models.CurricularUnit, error) {
	return r.items.FindByID(ctx, id)
}

func (r *CurricularUnitRepository) Insert(ctx context.Context, unit models.CurricularUnit) error {
	return r.items.Insert(ctx, unit)
}

func (r *CurricularUnitRepository) Update(ctx context.Context, unit models.CurricularUnit) error {
	return r.items.Update(ctx, unit)
}

func (r *CurricularUnitRepository) Delete(ctx context.Context, id string) error {
	return r.items.Delete(ctx, id)
}
