package middleware

import (
	"log/slog"
	"time"

	"newsdesk/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger writes one structured line per request and counts the response
// status.
func Logger(logger *slog.Logger, rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		rec.RecordHTTPStatus(status)

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Float64("duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond)),
		}
		if id := c.GetString(requestIDKey); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
		if user := CurrentUser(c); user != nil {
			attrs = append(attrs, slog.Uint64("user_id", uint64(user.ID)))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		logger.Log(c.Request.Context(), level, "http_request", attrs...)
	}
}
