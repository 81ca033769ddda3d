package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	SessionIDKey = "sessionId"
	ReportIDKey  = "reportId"
	StageKey     = "stage"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)
		sessionID, _ := c.Get(SessionIDKey)
		reportID, _ := c.Get(ReportIDKey)
		stage := c.GetString(StageKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":        reqID,
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"status":            status,
			"stage":             stage,
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           userID,
			"session_id":        sessionID,
			"report_id":         reportID,
			"is_guest":          isGuest,
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
