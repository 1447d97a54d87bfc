package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is echoed back on every response so clients can correlate logs.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware tags each request with an id, honoring one supplied by the
// caller so ids survive proxy hops.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value reads the request id back out of the context. Empty when the
// middleware did not run.
func Value(c *gin.Context) string {
	return c.GetString(contextKey)
}
