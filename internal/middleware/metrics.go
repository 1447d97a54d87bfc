package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/progcursos/programacao-api/internal/service"
)

// Metrics records per-request duration and count. The route template is used
// as the path label so ids do not explode cardinality.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
