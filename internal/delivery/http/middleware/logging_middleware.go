package middleware

import (
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const loggerKey = "logger"

// LoggingMiddleware logs HTTP requests with structured logging and records
// request metrics. Handlers pick up the request logger with Logger(c).
func LoggingMiddleware(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		log := base.With().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Logger()
		c.Set(loggerKey, log)

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), statusCode, latency)

		var event *zerolog.Event
		switch {
		case statusCode >= 500:
			event = log.Error()
		case statusCode >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Int("status_code", statusCode).
			Int64("latency_ms", latency.Milliseconds()).
			Int("body_size", c.Writer.Size()).
			Msg("Request completed")
	}
}

// Logger returns the request-scoped logger, or a disabled logger outside LoggingMiddleware
func Logger(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(zerolog.Logger); ok {
			return log
		}
	}
	return zerolog.Nop()
}
