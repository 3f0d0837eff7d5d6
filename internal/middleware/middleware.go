package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"time-tracking-bot/pkg/log"
)

// TraceID stores the incoming X-Request-ID (or a fresh uuid) in the request
// context and echoes it back in the response.
func (m Middleware) TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := log.WithTraceID(c.Request.Context(), c.GetHeader(TraceIDHeader))
		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceIDHeader, log.TraceID(ctx))
		c.Next()
	}
}

// Logger logs one line per request. Health probes are logged at debug level.
func (m Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		latency := time.Since(start)

		switch {
		case status >= 500:
			m.l.Errorf(ctx, "%s %s %d %s", c.Request.Method, c.FullPath(), status, latency)
		case isProbe(c.FullPath()):
			m.l.Debugf(ctx, "%s %s %d %s", c.Request.Method, c.FullPath(), status, latency)
		default:
			m.l.Infof(ctx, "%s %s %d %s", c.Request.Method, c.FullPath(), status, latency)
		}
	}
}

func isProbe(path string) bool {
	switch path {
	case "/health", "/ready", "/live":
		return true
	}
	return false
}
