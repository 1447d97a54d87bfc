package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/progcursos/programacao-api/internal/service"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
	"github.com/progcursos/programacao-api/pkg/response"
)

// AvailabilityHandler exposes availability declaration and the self-service
// share flow.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Get returns the record for an instructor and period.
func (h *AvailabilityHandler) Get(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "ano inválido"))
		return
	}
	record, err := h.availability.Get(c.Request.Context(),
		c.Query("instructor_id"), year, c.Query("period_type"), c.Query("period_value"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Upsert stores the declared slots for an instructor and period.
func (h *AvailabilityHandler) Upsert(c *gin.Context) {
	var req service.UpsertAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	record, err := h.availability.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

type shareRequest struct {
	InstructorID string `json:"instructor_id" binding:"required"`
	Year         int    `json:"year" binding:"required"`
	PeriodType   string `json:"period_type" binding:"required"`
	PeriodValue  string `json:"period_value"`
}

// Share issues an expiring link for an instructor to answer their own
// availability.
func (h *AvailabilityHandler) Share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	link, err := h.availability.CreateShareLink(c.Request.Context(), req.InstructorID, req.Year, req.PeriodType, req.PeriodValue)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// SharedGet resolves a share token to its availability record.
func (h *AvailabilityHandler) SharedGet(c *gin.Context) {
	record, err := h.availability.ResolveShareToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

type sharedSaveRequest struct {
	Slots []string `json:"slots"`
	Notes string   `json:"notes"`
}

// SharedSave stores slots submitted through a share link.
func (h *AvailabilityHandler) SharedSave(c *gin.Context) {
	var req sharedSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	record, err := h.availability.SharedUpsert(c.Request.Context(), c.Param("token"), req.Slots, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}
