package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

// Envelope is the body shape of every JSON response. Exactly one of Data or
// Error is set; Meta carries optional extras such as counts.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON writes a success envelope.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	env := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		env.Meta = meta[0]
	}
	write(c, status, env)
}

// Created writes data with a 201.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// NoContent writes a bare 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error coerces err into the typed error shape and writes it with its own
// HTTP status.
func Error(c *gin.Context, err error) {
	typed := appErrors.FromError(err)
	write(c, typed.Status, Envelope{Error: typed})
}

func write(c *gin.Context, status int, env Envelope) {
	// Responses reflect mutable scheduling state and must not be cached.
	c.Header("Cache-Control", "no-store")
	c.JSON(status, env)
}
