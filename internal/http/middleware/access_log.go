package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clientcontacts-backend/internal/platform/ctxutil"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

// AccessLog writes one line per request. 5xx responses log at error level and 4xx at warn.
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, "route", route)
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "request_id", td.RequestID, "trace_id", td.TraceID)
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "error", last.Error())
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields...)
		case status >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}
