package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/progcursos/programacao-api/internal/service"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
	"github.com/progcursos/programacao-api/pkg/response"
)

// CalendarHandler exposes the yearly calendar endpoints.
type CalendarHandler struct {
	calendars *service.CalendarService
}

// NewCalendarHandler constructs CalendarHandler.
func NewCalendarHandler(calendars *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendars: calendars}
}

// List returns every calendar, or the one for ?ano=YYYY.
func (h *CalendarHandler) List(c *gin.Context) {
	if raw := c.Query("ano"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "ano inválido"))
			return
		}
		calendar, err := h.calendars.GetByYear(c.Request.Context(), year)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, calendar)
		return
	}
	calendars, err := h.calendars.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendars)
}

// Get returns one calendar.
func (h *CalendarHandler) Get(c *gin.Context) {
	calendar, err := h.calendars.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar)
}

// Create stores a new calendar.
func (h *CalendarHandler) Create(c *gin.Context) {
	var req service.CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	calendar, err := h.calendars.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, calendar)
}

// Update replaces a calendar.
func (h *CalendarHandler) Update(c *gin.Context) {
	var req service.CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	calendar, err := h.calendars.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar)
}

// Delete removes a calendar.
func (h *CalendarHandler) Delete(c *gin.Context) {
	if err := h.calendars.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
