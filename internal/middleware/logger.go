package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logger writes one line per request; 5xx at error and 4xx at warn.
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}

		if session, ok := CurrentSession(c); ok {
			event = event.Str("user_id", session.User.ID)
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			event = event.Str("errors", errs.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", latency).
			Str("request_id", c.Writer.Header().Get(requestIDHeader)).
			Msg("http request")
	}
}
