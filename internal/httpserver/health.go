package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"time-tracking-bot/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Time tracking bot is up"
	HealthVersion = "1.0.0"
	ServiceName   = "time-tracking-bot"

	readyTimeout = 2 * time.Second
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck reports ready only when the database answers a ping.
// @Summary Readiness Check
// @Description Check if the API and its database are ready to serve traffic
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is ready"
// @Failure 503 {object} response.Resp "Database unreachable"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	if srv.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		if err := srv.db.Ping(ctx); err != nil {
			srv.l.Errorf(ctx, "httpserver.readyCheck: database ping failed: %v", err)
			response.ServiceUnavailable(c, "database unavailable")
			return
		}
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// statusCheck
// @Summary Service Status
// @Description Uptime and bot configuration
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp
// @Router /status [get]
func (srv *HTTPServer) statusCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"service":        ServiceName,
		"version":        HealthVersion,
		"environment":    srv.environment,
		"started_at":     response.DateTime(srv.startedAt),
		"uptime":         time.Since(srv.startedAt).Round(time.Second).String(),
		"bot_configured": srv.telegramHandler != nil,
		"delivery_mode":  srv.deliveryMode,
	})
}
