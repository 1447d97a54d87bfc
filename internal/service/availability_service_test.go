package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

type memAvailabilityRepo struct {
	records map[string]models.AvailabilityRecord
}

func newMemAvailabilityRepo() *memAvailabilityRepo {
	return &memAvailabilityRepo{records: make(map[string]models.AvailabilityRecord)}
}

func (m *memAvailabilityRepo) List(_ context.Context) ([]models.AvailabilityRecord, error) {
	out := make([]models.AvailabilityRecord, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, record)
	}
	return out, nil
}

func (m *memAvailabilityRepo) FindByKey(_ context.Context, key models.AvailabilityKey) (*models.AvailabilityRecord, error) {
	if record, ok := m.records[key.String()]; ok {
		return &record, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memAvailabilityRepo) FindByShareToken(_ context.Context, token string) (*models.AvailabilityRecord, error) {
	for _, record := range m.records {
		if record.ShareToken != "" && record.ShareToken == token {
			found := record
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAvailabilityRepo) Upsert(_ context.Context, record models.AvailabilityRecord) error {
	m.records[record.ID] = record
	return nil
}

type stubShiftLister struct {
	shifts []models.Shift
}

func (s *stubShiftLister) List(_ context.Context) ([]models.Shift, error) {
	return s.shifts, nil
}

func newTestAvailabilityService(repo *memAvailabilityRepo) *AvailabilityService {
	instructors := &stubInstructorReader{items: map[string]*models.Instructor{
		"i1": {ID: "i1", ShortName: "João Silva", Role: models.RoleInstructor},
		"a1": {ID: "a1", ShortName: "Ana Lima", Role: models.RoleAnalyst},
	}}
	shifts := &stubShiftLister{shifts: []models.Shift{
		{ID: "turno1", Name: "Manhã"},
		{ID: "turno2", Name: "Tarde"},
	}}
	return NewAvailabilityService(repo, instructors, shifts, "test_secret", 24*time.Hour, nil, nil)
}

func TestAvailabilityUpsertNormalizesPeriodAndSlots(t *testing.T) {
	repo := newMemAvailabilityRepo()
	svc := newTestAvailabilityService(repo)

	record, err := svc.Upsert(context.Background(), UpsertAvailabilityRequest{
		InstructorID: "i1",
		Year:         2024,
		PeriodType:   "MONTH",
		PeriodValue:  "03",
		Slots:        []string{"seg|turno1", "SEG|turno1", "TER|turno9", "xyz|turno1", "QUA|turno2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "i1|2024|month|3", record.ID)
	assert.Equal(t, models.PeriodMonth, record.PeriodType)
	assert.Equal(t, "3", record.PeriodValue)
	assert.Equal(t, []string{"SEG|turno1", "QUA|turno2"}, record.Slots)
	assert.Equal(t, models.ShareStatusNotSent, record.ShareStatus)
	assert.Equal(t, "Equipe interna", record.UpdatedBy)
}

func TestAvailabilityUpsertYearPeriod(t *testing.T) {
	svc := newTestAvailabilityService(newMemAvailabilityRepo())

	record, err := svc.Upsert(context.Background(), UpsertAvailabilityRequest{
		InstructorID: "i1",
		Year:         2024,
		PeriodType:   "year",
	})
	require.NoError(t, err)
	assert.Equal(t, models.YearPeriodValue, record.PeriodValue)
}

func TestAvailabilityUpsertRejectsInvalidPeriod(t *testing.T) {
	svc := newTestAvailabilityService(newMemAvailabilityRepo())

	_, err := svc.Upsert(context.Background(), UpsertAvailabilityRequest{
		InstructorID: "i1",
		Year:         2024,
		PeriodType:   "month",
		PeriodValue:  "13",
	})
	require.Error(t, err)
	assert.Equal(t, "mês inválido", appErrors.FromError(err).Message)
}

func TestAvailabilityUpsertRejectsNonInstructors(t *testing.T) {
	svc := newTestAvailabilityService(newMemAvailabilityRepo())

	_, err := svc.Upsert(context.Background(), UpsertAvailabilityRequest{
		InstructorID: "a1",
		Year:         2024,
		PeriodType:   "month",
		PeriodValue:  "3",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "categoria Instrutor")
}

func TestAvailabilityGetReturnsEmptyRecordWhenUndeclared(t *testing.T) {
	svc := newTestAvailabilityService(newMemAvailabilityRepo())

	record, err := svc.Get(context.Background(), "i1", 2024, "month", "3")
	require.NoError(t, err)
	assert.Empty(t, record.Slots)
	assert.Equal(t, models.ShareStatusNotSent, record.ShareStatus)
	assert.Equal(t, "i1|2024|month|3", record.ID)
}

func TestAvailabilityShareFlow(t *testing.T) {
	repo := newMemAvailabilityRepo()
	svc := newTestAvailabilityService(repo)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	link, err := svc.CreateShareLink(ctx, "i1", 2024, "month", "3")
	require.NoError(t, err)
	assert.Equal(t, "i1|2024|month|3", link.RecordID)
	assert.NotEmpty(t, link.Token)

	resolved, err := svc.ResolveShareToken(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, link.RecordID, resolved.ID)
	assert.Equal(t, models.ShareStatusSent, resolved.ShareStatus)

	saved, err := svc.SharedUpsert(ctx, link.Token, []string{"SEG|turno1"}, "posso de manhã")
	require.NoError(t, err)
	assert.Equal(t, models.ShareStatusAnswered, saved.ShareStatus)
	assert.Equal(t, []string{"SEG|turno1"}, saved.Slots)
	assert.Equal(t, "i1", saved.UpdatedBy)
}

func TestAvailabilityShareTokenExpires(t *testing.T) {
	repo := newMemAvailabilityRepo()
	svc := newTestAvailabilityService(repo)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	link, err := svc.CreateShareLink(ctx, "i1", 2024, "month", "3")
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(25 * time.Hour) }
	_, err = svc.ResolveShareToken(ctx, link.Token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAvailabilityReissuedLinkRevokesPrevious(t *testing.T) {
	repo := newMemAvailabilityRepo()
	svc := newTestAvailabilityService(repo)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := svc.CreateShareLink(ctx, "i1", 2024, "month", "3")
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(time.Minute) }
	second, err := svc.CreateShareLink(ctx, "i1", 2024, "month", "3")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = svc.ResolveShareToken(ctx, first.Token)
	require.Error(t, err)

	_, err = svc.ResolveShareToken(ctx, second.Token)
	assert.NoError(t, err)
}

func TestAvailabilityGarbageTokenRejected(t *testing.T) {
	svc := newTestAvailabilityService(newMemAvailabilityRepo())

	_, err := svc.ResolveShareToken(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
