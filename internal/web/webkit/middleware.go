package webkit

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs each request's method, path, status, and latency at Info (or
// Warn, for 4xx/5xx) once the handler chain completes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if status >= 400 {
			slog.WarnContext(c.Request.Context(), "request", attrs...)
			return
		}
		slog.InfoContext(c.Request.Context(), "request", attrs...)
	}
}

// Recovery recovers panics in the handler chain, logs them with a stack
// trace, and replies 500 rather than letting the connection die silently.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		slog.ErrorContext(c.Request.Context(), "panic recovered", "err", err)
		Fail(c, ErrServer)
		c.Abort()
	})
}
