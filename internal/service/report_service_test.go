package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/pkg/storage"
)

type stubScheduleLister struct {
	items []models.Schedule
}

func (s *stubScheduleLister) List(_ context.Context) ([]models.Schedule, error) {
	return s.items, nil
}

type stubCourseLister struct {
	items []models.Course
}

func (s *stubCourseLister) List(_ context.Context) ([]models.Course, error) {
	return s.items, nil
}

type stubRoomLister struct {
	items []models.Room
}

func (s *stubRoomLister) List(_ context.Context) ([]models.Room, error) {
	return s.items, nil
}

type stubInstructorLister struct {
	items []models.Instructor
}

func (s *stubInstructorLister) List(_ context.Context) ([]models.Instructor, error) {
	return s.items, nil
}

func newTestReportService(t *testing.T, schedules []models.Schedule) *ReportService {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewReportService(
		&stubScheduleLister{items: schedules},
		&stubCourseLister{items: []models.Course{{ID: "c1", Name: "Eletricista Industrial"}}},
		&stubRoomLister{items: []models.Room{{ID: "r1", Name: "Lab 1"}, {ID: "r2", Name: "Sala 2"}}},
		&stubShiftLister{shifts: []models.Shift{{ID: "turno1", Name: "Manhã"}}},
		&stubInstructorLister{items: []models.Instructor{{ID: "i1", ShortName: "João Silva"}}},
		files,
		nil,
	)
}

func reportOffering(id, room, start, end string) models.Schedule {
	return models.Schedule{
		ID:            id,
		Year:          2024,
		Month:         3,
		CourseID:      "c1",
		InstructorIDs: []string{"i1"},
		RoomID:        room,
		ShiftID:       "turno1",
		StartDate:     start,
		EndDate:       end,
		StartTime:     "08:00",
		EndTime:       "12:00",
		ExecutionDays: []string{"SEG", "QUA"},
		ClassGroup:    "01.28.2024",
		TotalHours:    40,
	}
}

func TestProgrammingDatasetJoinsRegistryNames(t *testing.T) {
	svc := newTestReportService(t, []models.Schedule{
		reportOffering("02/2024", "r1", "01/03/2024", "29/03/2024"),
		reportOffering("01/2024", "r2", "01/03/2024", "29/03/2024"),
	})

	dataset, err := svc.ProgrammingDataset(context.Background(), 2024, 3)
	require.NoError(t, err)
	require.Len(t, dataset.Rows, 2)

	// Sorted by offer id.
	assert.Equal(t, "01/2024", dataset.Rows[0]["Oferta"])
	assert.Equal(t, "02/2024", dataset.Rows[1]["Oferta"])

	first := dataset.Rows[0]
	assert.Equal(t, "Eletricista Industrial", first["Curso"])
	assert.Equal(t, "João Silva", first["Colaboradores"])
	assert.Equal(t, "Sala 2", first["Sala"])
	assert.Equal(t, "Manhã", first["Turno"])
	assert.Equal(t, "08:00 - 12:00", first["Horário"])
	assert.Equal(t, "40", first["CH"])
}

func TestProgrammingDatasetFiltersByYearAndMonth(t *testing.T) {
	other := reportOffering("01/2023", "r1", "01/03/2023", "29/03/2023")
	other.Year = 2023
	svc := newTestReportService(t, []models.Schedule{
		other,
		reportOffering("01/2024", "r1", "01/03/2024", "29/03/2024"),
	})

	dataset, err := svc.ProgrammingDataset(context.Background(), 2024, 3)
	require.NoError(t, err)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "01/2024", dataset.Rows[0]["Oferta"])
}

func TestProgrammingDatasetFallsBackToRawIDs(t *testing.T) {
	item := reportOffering("01/2024", "r9", "01/03/2024", "29/03/2024")
	item.CourseID = "c9"
	svc := newTestReportService(t, []models.Schedule{item})

	dataset, err := svc.ProgrammingDataset(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "c9", dataset.Rows[0]["Curso"])
	assert.Equal(t, "r9", dataset.Rows[0]["Sala"])
}

func TestRoomOccupancyDatasetFiltersByOverlap(t *testing.T) {
	svc := newTestReportService(t, []models.Schedule{
		reportOffering("01/2024", "r1", "01/03/2024", "29/03/2024"),
		reportOffering("02/2024", "r2", "01/06/2024", "28/06/2024"),
	})

	dataset, err := svc.RoomOccupancyDataset(context.Background(), "15/03/2024", "30/04/2024")
	require.NoError(t, err)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "Lab 1", dataset.Rows[0]["Sala"])
	assert.Equal(t, "01/2024", dataset.Rows[0]["Oferta"])
}

func TestRoomOccupancyDatasetValidatesRange(t *testing.T) {
	svc := newTestReportService(t, nil)

	_, err := svc.RoomOccupancyDataset(context.Background(), "banana", "30/04/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data inicial inválida")

	_, err = svc.RoomOccupancyDataset(context.Background(), "30/04/2024", "15/03/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data início não pode ser maior que data fim")
}

func TestRoomOccupancyDatasetSkipsUnparseableOfferings(t *testing.T) {
	broken := reportOffering("03/2024", "r1", "not-a-date", "also-not")
	svc := newTestReportService(t, []models.Schedule{
		broken,
		reportOffering("01/2024", "r1", "01/03/2024", "29/03/2024"),
	})

	dataset, err := svc.RoomOccupancyDataset(context.Background(), "01/03/2024", "31/03/2024")
	require.NoError(t, err)
	require.Len(t, dataset.Rows, 1)
}

func TestRenderCSVPersistsFile(t *testing.T) {
	svc := newTestReportService(t, []models.Schedule{
		reportOffering("01/2024", "r1", "01/03/2024", "29/03/2024"),
	})

	dataset, err := svc.ProgrammingDataset(context.Background(), 2024, 3)
	require.NoError(t, err)

	file, err := svc.RenderCSV(dataset, "programacao")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Filename, "programacao-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Equal(t, "text/csv", file.ContentType)

	raw, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Oferta,Turma,Curso")
	assert.Contains(t, string(raw), "01/2024")
}

func TestRenderPDFPersistsFile(t *testing.T) {
	svc := newTestReportService(t, []models.Schedule{
		reportOffering("01/2024", "r1", "01/03/2024", "29/03/2024"),
	})

	dataset, err := svc.ProgrammingDataset(context.Background(), 2024, 3)
	require.NoError(t, err)

	file, err := svc.RenderPDF(dataset, "programacao", "Programação de Cursos")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)

	raw, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	assert.True(t, len(raw) > 0)
	assert.Equal(t, "%PDF", string(raw[:4]))
}
