package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/progcursos/programacao-api/internal/service"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
	"github.com/progcursos/programacao-api/pkg/response"
)

// CurricularUnitHandler exposes the standalone curricular unit endpoints.
type CurricularUnitHandler struct {
	units *service.CurricularUnitService
}

// NewCurricularUnitHandler constructs CurricularUnitHandler.
func NewCurricularUnitHandler(units *service.CurricularUnitService) *CurricularUnitHandler {
	return &CurricularUnitHandler{units: units}
}

// List returns units, optionally filtered by ?curso_id=.
func (h *CurricularUnitHandler) List(c *gin.Context) {
	units, err := h.units.List(c.Request.Context(), c.Query("curso_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units)
}

func (h *CurricularUnitHandler) Get(c *gin.Context) {
	unit, err := h.units.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit)
}

func (h *CurricularUnitHandler) Create(c *gin.Context) {
	var req service.CurricularUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	unit, err := h.units.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}

func (h *CurricularUnitHandler) Update(c *gin.Context) {
	var req service.CurricularUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	unit, err := h.units.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit)
}

func (h *CurricularUnitHandler) Delete(c *gin.Context) {
	if err := h.units.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
