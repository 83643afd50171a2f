package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// corsMiddleware allows the configured frontend origin to call the
// JSON API. Origin defaults to the local dev frontend when unset.
func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
