package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/progcursos/programacao-api/internal/service"
	"github.com/progcursos/programacao-api/pkg/export"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
	"github.com/progcursos/programacao-api/pkg/response"
)

// ReportHandler exposes the report generation endpoints. Reports are rendered
// to disk and streamed back as attachments; format=json returns the dataset.
type ReportHandler struct {
	reports *service.ReportService
	metrics *service.MetricsService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService, metrics *service.MetricsService) *ReportHandler {
	return &ReportHandler{reports: reports, metrics: metrics}
}

// Programming renders the programming table for an optional year/month filter.
func (h *ReportHandler) Programming(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("ano"))
	month, _ := strconv.Atoi(c.Query("mes"))
	dataset, err := h.reports.ProgrammingDataset(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, dataset, "programacao", "Programação de Cursos")
}

// RoomOccupancy renders room usage over a date range.
func (h *ReportHandler) RoomOccupancy(c *gin.Context) {
	dataset, err := h.reports.RoomOccupancyDataset(c.Request.Context(), c.Query("data_inicio"), c.Query("data_fim"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.deliver(c, dataset, "ocupacao-salas", "Ocupação de Salas")
}

func (h *ReportHandler) deliver(c *gin.Context, dataset export.Dataset, prefix, title string) {
	format := c.DefaultQuery("format", "json")
	switch format {
	case "json":
		response.JSON(c, http.StatusOK, gin.H{"headers": dataset.Headers, "rows": dataset.Rows})
	case "csv":
		file, err := h.reports.RenderCSV(dataset, prefix)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.metrics.CountReport("csv")
		c.FileAttachment(file.Path, file.Filename)
	case "pdf":
		file, err := h.reports.RenderPDF(dataset, prefix, title)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.metrics.CountReport("pdf")
		c.FileAttachment(file.Path, file.Filename)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "formato inválido: use json, csv ou pdf"))
	}
}
