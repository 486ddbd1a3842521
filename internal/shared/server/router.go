package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/profiles"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/services/health"
	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
	localstore "jobassist-backend/internal/shared/storage/object/local"
	"jobassist-backend/internal/tailored"
)

const apiPrefix = "/api/v1"

// RouterDeps carries the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config              config.Config
	Verifier            middleware.TokenVerifier
	Health              *health.Service
	ResumeHandler       *resumes.Handler
	JobHandler          *jobs.Handler
	ApplicationHandler  *applications.Handler
	NotificationHandler *notifications.Handler
	ProfileHandler      *profiles.Handler
	TailoredHandler     *tailored.Handler
	// LocalBlobs serves signed download URLs when blobs live on local disk.
	LocalBlobs  *localstore.Store
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(middleware.AuthConfig{
			Verifier:       deps.Verifier,
			AllowGuests:    deps.Config.AllowGuests,
			PublicPrefixes: publicPrefixes(),
		}),
		middleware.RateLimit(rateLimitConfig(deps.RateLimiter)),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	api.GET("/ready", func(c *gin.Context) {
		report := healthSvc.Ready(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	if deps.LocalBlobs != nil {
		registerBlobRoutes(api, deps.LocalBlobs)
	}

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(api)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(api)
	}
	if deps.NotificationHandler != nil {
		deps.NotificationHandler.RegisterRoutes(api)
	}
	if deps.TailoredHandler != nil {
		deps.TailoredHandler.RegisterRoutes(api)
	}

	return r
}

func publicPrefixes() []string {
	return []string{
		"/metrics",
		apiPrefix + "/health",
		apiPrefix + "/ready",
		apiPrefix + "/blobs/",
	}
}

func rateLimitConfig(limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Limiter: limiter,
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":                       {Rate: 20, Burst: 40},
			middleware.SubmitRateLimitGroup: {Rate: 1, Burst: 5},
			middleware.UploadRateLimitGroup: {Rate: 0.2, Burst: 3},
		},
		Routes: map[string]string{
			middleware.RouteKey(http.MethodPost, apiPrefix+"/applications"):           middleware.SubmitRateLimitGroup,
			middleware.RouteKey(http.MethodPost, apiPrefix+"/applications/:id/retry"): middleware.SubmitRateLimitGroup,
			middleware.RouteKey(http.MethodPut, apiPrefix+"/resume"):                  middleware.UploadRateLimitGroup,
			middleware.RouteKey(http.MethodPost, apiPrefix+"/resume"):                 middleware.UploadRateLimitGroup,
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
