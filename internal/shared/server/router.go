package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "jobfit-backend/internal/auth"
	"jobfit-backend/internal/intake"
	"jobfit-backend/internal/reports"
	"jobfit-backend/internal/services/health"
	"jobfit-backend/internal/shared/config"
	"jobfit-backend/internal/shared/metrics"
	"jobfit-backend/internal/shared/server/middleware"
	"jobfit-backend/internal/shared/server/respond"
	"jobfit-backend/internal/workflow"
)

// Rate-limit groups. Routes that call the text-generation API share the
// configured budget; everything else gets a generous default.
const (
	groupModel   = "MODEL"
	groupDefault = "DEFAULT"
)

// modelRoutes are the route patterns that trigger a model call.
var modelRoutes = map[string]bool{
	"POST /api/v1/sessions":             true,
	"POST /api/v1/sessions/:id/quiz":    true,
	"POST /api/v1/sessions/:id/next":    true,
	"POST /api/v1/sessions/:id/submit":  true,
	"POST /api/v1/sessions/:id/analyze": true,
	"POST /api/v1/quiz":                 true,
	"POST /api/v1/analysis":             true,
	"POST /api/v1/skills":               true,
}

// RouterDeps carries the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config   config.Config
	Health   *health.Service
	Google   *googleauth.GoogleService
	Sessions *workflow.Handler
	Assist   *workflow.AssistHandler
	Intake   *intake.Handler
	Reports  *reports.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(rateLimitConfig(cfg)),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	registerMeRoutes(api)

	if deps.Google != nil {
		deps.Google.RegisterRoutes(api)
	}
	if deps.Intake != nil {
		deps.Intake.RegisterRoutes(api)
	}
	if deps.Sessions != nil {
		deps.Sessions.RegisterRoutes(api)
	}
	if deps.Assist != nil {
		deps.Assist.RegisterRoutes(api)
	}
	if deps.Reports != nil {
		deps.Reports.RegisterRoutes(api)
	}
	return r
}

func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			groupModel:   {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			groupDefault: {Rate: 20, Burst: 40},
		},
		DefaultGroup: groupDefault,
		GroupFor: func(c *gin.Context) string {
			if modelRoutes[c.Request.Method+" "+c.FullPath()] {
				return groupModel
			}
			return groupDefault
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
