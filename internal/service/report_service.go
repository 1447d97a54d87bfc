package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/pkg/export"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
	"github.com/progcursos/programacao-api/pkg/storage"
)

type scheduleLister interface {
	List(ctx context.Context) ([]models.Schedule, error)
}

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type roomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

type instructorLister interface {
	List(ctx context.Context) ([]models.Instructor, error)
}

// ReportFile is a rendered report stored on disk.
type ReportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Path        string `json:"-"`
}

// ReportService renders the programming and room-occupancy reports as CSV or
// PDF files.
type ReportService struct {
	schedules   scheduleLister
	courses     courseLister
	rooms       roomLister
	shifts      shiftLister
	instructors instructorLister
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	files       *storage.LocalStorage
	logger      *zap.Logger
}

// NewReportService builds the service.
func NewReportService(schedules scheduleLister, courses courseLister, rooms roomLister, shifts shiftLister, instructors instructorLister, files *storage.LocalStorage, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		schedules:   schedules,
		courses:     courses,
		rooms:       rooms,
		shifts:      shifts,
		instructors: instructors,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		files:       files,
		logger:      logger,
	}
}

var programmingHeaders = []string{
	"Oferta", "Turma", "Curso", "Colaboradores", "Sala", "Turno",
	"Início", "Fim", "Dias", "Horário", "CH",
}

// ProgrammingDataset joins offerings with the registries into the programming
// table, optionally filtered by year and month.
func (s *ReportService) ProgrammingDataset(ctx context.Context, year, month int) (export.Dataset, error) {
	schedules, err := s.schedules.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	names, err := s.loadNames(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	rows := make([]map[string]string, 0, len(schedules))
	for i := range schedules {
		item := &schedules[i]
		if year > 0 && item.Year != year {
			continue
		}
		if month > 0 && item.Month != month {
			continue
		}
		team := make([]string, 0, 2)
		for _, id := range item.AllInstructorIDs() {
			team = append(team, names.instructor(id))
		}
		rows = append(rows, map[string]string{
			"Oferta":        item.ID,
			"Turma":         item.ClassGroup,
			"Curso":         names.course(item.CourseID),
			"Colaboradores": strings.Join(team, ", "),
			"Sala":          names.room(item.RoomID),
			"Turno":         names.shift(item.ShiftID),
			"Início":        item.StartDate,
			"Fim":           item.EndDate,
			"Dias":          strings.Join(item.ExecutionDays, " "),
			"Horário":       item.StartTime + " - " + item.EndTime,
			"CH":            strconv.FormatFloat(item.TotalHours, 'f', -1, 64),
		})
	}
	sortRows(rows, "Oferta")
	return export.Dataset{Headers: programmingHeaders, Rows: rows}, nil
}

var occupancyHeaders = []string{"Sala", "Pavimento", "Oferta", "Turno", "Dias", "Início", "Fim"}

// RoomOccupancyDataset lists, per room, the offerings whose execution window
// overlaps the requested period.
func (s *ReportService) RoomOccupancyDataset(ctx context.Context, startDate, endDate string) (export.Dataset, error) {
	start, err := parseFlexibleDate(startDate)
	if err != nil {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, "data inicial inválida")
	}
	end, err := parseFlexibleDate(endDate)
	if err != nil {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, "data final inválida")
	}
	if end.Before(start) {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, "data início não pode ser maior que data fim")
	}

	schedules, err := s.schedules.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	names, err := s.loadNames(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	rows := make([]map[string]string, 0, len(schedules))
	for i := range schedules {
		item := &schedules[i]
		itemStart, err1 := parseFlexibleDate(item.StartDate)
		itemEnd, err2 := parseFlexibleDate(item.EndDate)
		if err1 != nil || err2 != nil {
			s.logger.Warn("skipping offering with unparseable dates", zap.String("id", item.ID))
			continue
		}
		if !models.DateRangesOverlap(start, end, itemStart, itemEnd) {
			continue
		}
		rows = append(rows, map[string]string{
			"Sala":      names.room(item.RoomID),
			"Pavimento": item.Floor,
			"Oferta":    item.ID,
			"Turno":     names.shift(item.ShiftID),
			"Dias":      strings.Join(item.ExecutionDays, " "),
			"Início":    item.StartDate,
			"Fim":       item.EndDate,
		})
	}
	sortRows(rows, "Sala")
	return export.Dataset{Headers: occupancyHeaders, Rows: rows}, nil
}

// RenderCSV renders a dataset to a stored CSV file.
func (s *ReportService) RenderCSV(dataset export.Dataset, prefix string) (*ReportFile, error) {
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return s.persist(data, prefix, "csv", "text/csv")
}

// RenderPDF renders a dataset to a stored landscape PDF file.
func (s *ReportService) RenderPDF(dataset export.Dataset, prefix, title string) (*ReportFile, error) {
	data, err := s.pdf.RenderLandscape(dataset, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return s.persist(data, prefix, "pdf", "application/pdf")
}

func (s *ReportService) persist(data []byte, prefix, ext, contentType string) (*ReportFile, error) {
	filename := fmt.Sprintf("%s-%s.%s", prefix, uuid.NewString(), ext)
	if _, err := s.files.Save(filename, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}
	s.logger.Info("report generated", zap.String("file", filename))
	return &ReportFile{Filename: filename, ContentType: contentType, Path: s.files.Path(filename)}, nil
}

type nameIndex struct {
	courses     map[string]string
	rooms       map[string]string
	shifts      map[string]string
	instructors map[string]string
}

func (n *nameIndex) course(id string) string     { return n.lookup(n.courses, id) }
func (n *nameIndex) room(id string) string       { return n.lookup(n.rooms, id) }
func (n *nameIndex) shift(id string) string      { return n.lookup(n.shifts, id) }
func (n *nameIndex) instructor(id string) string { return n.lookup(n.instructors, id) }

func (n *nameIndex) lookup(index map[string]string, id string) string {
	if name, ok := index[id]; ok && name != "" {
		return name
	}
	return id
}

func (s *ReportService) loadNames(ctx context.Context) (*nameIndex, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	index := &nameIndex{
		courses:     make(map[string]string, len(courses)),
		rooms:       make(map[string]string, len(rooms)),
		shifts:      make(map[string]string, len(shifts)),
		instructors: make(map[string]string, len(instructors)),
	}
	for i := range courses {
		index.courses[courses[i].ID] = courses[i].Name
	}
	for i := range rooms {
		index.rooms[rooms[i].ID] = rooms[i].Name
	}
	for i := range shifts {
		index.shifts[shifts[i].ID] = shifts[i].Name
	}
	for i := range instructors {
		index.instructors[instructors[i].ID] = instructors[i].ShortName
	}
	return index, nil
}

func parseFlexibleDate(raw string) (time.Time, error) {
	normalized, err := models.NormalizeBRDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return models.ParseBRDate(normalized)
}

func sortRows(rows []map[string]string, key string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i][key] < rows[j][key]
	})
}
