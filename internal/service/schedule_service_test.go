package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

type memScheduleRepo struct {
	items []models.Schedule
}

func (m *memScheduleRepo) List(_ context.Context) ([]models.Schedule, error) {
	return append([]models.Schedule(nil), m.items...), nil
}

func (m *memScheduleRepo) FindByID(_ context.Context, id string) (*models.Schedule, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memScheduleRepo) Mutate(_ context.Context, fn func([]models.Schedule) ([]models.Schedule, error)) error {
	next, err := fn(append([]models.Schedule(nil), m.items...))
	if err != nil {
		return err
	}
	m.items = next
	return nil
}

func (m *memScheduleRepo) Update(_ context.Context, schedule models.Schedule) error {
	for i := range m.items {
		if m.items[i].ID == schedule.ID {
			m.items[i] = schedule
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memScheduleRepo) Delete(_ context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubCourseReader struct {
	items map[string]*models.Course
}

func (s *stubCourseReader) FindByID(_ context.Context, id string) (*models.Course, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, repository.ErrNotFound
}

type stubRoomReader struct {
	items map[string]*models.Room
}

func (s *stubRoomReader) FindByID(_ context.Context, id string) (*models.Room, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, repository.ErrNotFound
}

type stubShiftReader struct {
	items map[string]*models.Shift
}

func (s *stubShiftReader) FindByID(_ context.Context, id string) (*models.Shift, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, repository.ErrNotFound
}

type stubCalendarReader struct {
	calendars map[int]*models.Calendar
}

func (s *stubCalendarReader) FindByYear(_ context.Context, year int) (*models.Calendar, error) {
	if item, ok := s.calendars[year]; ok {
		return item, nil
	}
	return nil, repository.ErrNotFound
}

func newTestScheduleService(repo *memScheduleRepo) *ScheduleService {
	instructors := &stubInstructorReader{items: map[string]*models.Instructor{
		"i1": {ID: "i1", ShortName: "João Silva", Role: models.RoleInstructor},
		"i2": {ID: "i2", ShortName: "Maria Souza", Role: models.RoleInstructor},
		"a1": {ID: "a1", ShortName: "Ana Lima", Role: models.RoleAnalyst},
		"s1": {ID: "s1", ShortName: "Rui Costa", Role: models.RoleAssistant},
	}}
	scheduleValidator := NewScheduleValidator(instructors, &stubAvailabilityReader{}, nil)
	return NewScheduleService(
		repo,
		&stubCourseReader{items: map[string]*models.Course{
			"c1": {ID: "c1", Name: "Eletricista Industrial", TotalHours: 40},
		}},
		&stubRoomReader{items: map[string]*models.Room{
			"r1": {ID: "r1", Name: "Lab 1", Floor: "Térreo", Capacity: 25},
			"r2": {ID: "r2", Name: "Lab 2", Floor: "1º andar", Capacity: 16},
		}},
		&stubShiftReader{items: map[string]*models.Shift{
			"turno1": {ID: "turno1", Name: "Manhã", StartTime: "08:00", EndTime: "16:00"},
		}},
		instructors,
		&stubCalendarReader{calendars: map[int]*models.Calendar{2024: calendar2024()}},
		scheduleValidator,
		nil,
		nil,
	)
}

func validRequest() ScheduleRequest {
	return ScheduleRequest{
		Year:          2024,
		Month:         3,
		CourseID:      "c1",
		InstructorIDs: []string{"i1"},
		AnalystID:     "a1",
		RoomID:        "r1",
		ShiftID:       "turno1",
		StartDate:     "01/03/2024",
		EndDate:       "29/03/2024",
		ClassGroup:    "01.28.2024",
		StartTime:     "08:00",
		EndTime:       "16:00",
		ExecutionDays: []string{"SEX"},
	}
}

func TestScheduleCreateAssignsSequentialOfferIDs(t *testing.T) {
	repo := &memScheduleRepo{}
	svc := newTestScheduleService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "01/2024", first.ID)

	second := validRequest()
	second.InstructorIDs = []string{"i2"}
	second.RoomID = "r2"
	created, err := svc.Create(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "02/2024", created.ID)
}

func TestScheduleCreateNormalizesAndDenormalizes(t *testing.T) {
	repo := &memScheduleRepo{}
	svc := newTestScheduleService(repo)

	req := validRequest()
	req.ExecutionDays = []string{"sex", "SEX", "DOM"}
	req.StartDate = "2024-03-01"
	req.EndDate = "2024-03-29"

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"SEX"}, created.ExecutionDays)
	assert.Equal(t, "01/03/2024", created.StartDate)
	assert.Equal(t, "29/03/2024", created.EndDate)
	assert.Equal(t, "Térreo", created.Floor)
	assert.Equal(t, 25, created.StudentCount)
	assert.Equal(t, 40.0, created.TotalHours)
	assert.Equal(t, "i1", created.InstructorID)
}

func TestScheduleCreateRejectsStaleEndDate(t *testing.T) {
	svc := newTestScheduleService(&memScheduleRepo{})

	req := validRequest()
	req.EndDate = "22/03/2024"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "data final não confere com o calendário: recalcule antes de salvar",
		appErrors.FromError(err).Message)
}

func TestScheduleCreateRejectsBadClassGroup(t *testing.T) {
	svc := newTestScheduleService(&memScheduleRepo{})

	req := validRequest()
	req.ClassGroup = "1.28.24"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "turma inválida")
}

func TestScheduleCreateEnforcesRoles(t *testing.T) {
	svc := newTestScheduleService(&memScheduleRepo{})

	req := validRequest()
	req.AnalystID = "i2"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "não tem a categoria Analista")
}

func TestScheduleCreateRequiresInstructor(t *testing.T) {
	svc := newTestScheduleService(&memScheduleRepo{})

	req := validRequest()
	req.InstructorID = ""
	req.InstructorIDs = nil

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "informe ao menos um instrutor", appErrors.FromError(err).Message)
}

func TestScheduleUpdateDoesNotConflictWithItself(t *testing.T) {
	repo := &memScheduleRepo{}
	svc := newTestScheduleService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Notes = "atualizado"
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "atualizado", updated.Notes)
}

func TestScheduleUpdatePreservesChronogram(t *testing.T) {
	repo := &memScheduleRepo{}
	svc := newTestScheduleService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.UpdateChronogram(ctx, created.ID, ChronogramRequest{
		Days:  map[string]models.ChronogramDay{"01/03/2024": {UnitID: "u1"}},
		Notes: "cronograma",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "cronograma", updated.ChronogramNotes)
	require.Contains(t, updated.ChronogramDays, "01/03/2024")
	assert.Equal(t, "u1", updated.ChronogramDays["01/03/2024"].UnitID)
}

func TestScheduleChronogramBypassesValidators(t *testing.T) {
	repo := &memScheduleRepo{}
	svc := newTestScheduleService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	// Conflicting offering inserted behind the service's back. The
	// chronogram path must still save.
	repo.items = append(repo.items, offering("99/2024", "r1", "i2", "01/03/2024", "29/03/2024", "08:00", "16:00", "SEX"))

	saved, err := svc.UpdateChronogram(ctx, created.ID, ChronogramRequest{Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "ok", saved.ChronogramNotes)
}

func TestScheduleNextOfferIDPadsBelowOneHundred(t *testing.T) {
	repo := &memScheduleRepo{
		items: []models.Schedule{{ID: "07/2024"}, {ID: "12/2023"}},
	}
	svc := newTestScheduleService(repo)

	id, err := svc.NextOfferID(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, "08/2024", id)
}

func TestScheduleComputeEndDate(t *testing.T) {
	svc := newTestScheduleService(&memScheduleRepo{})

	endDate, err := svc.ComputeEndDate(context.Background(), ComputeEndDateRequest{
		Year:          2024,
		StartDate:     "01/03/2024",
		ExecutionDays: []string{"SEX"},
		CourseID:      "c1",
		ShiftID:       "turno1",
	})
	require.NoError(t, err)
	assert.Equal(t, "29/03/2024", endDate)
}

func TestScheduleGetNotFound(t *testing.T) {
	svc := newTestScheduleService(&memScheduleRepo{})

	_, err := svc.Get(context.Background(), "77/2024")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
