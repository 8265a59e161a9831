package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minglemoody/funnel-tracker/internal/config"
	"github.com/minglemoody/funnel-tracker/internal/handler"
	"github.com/minglemoody/funnel-tracker/internal/middleware"
	"github.com/minglemoody/funnel-tracker/internal/session"
)

// Handlers groups the route handlers the server mounts.
type Handlers struct {
	Health    *handler.HealthHandler
	Track     *handler.TrackHandler
	Funnel    *handler.FunnelHandler
	Prelander *handler.PrelanderHandler
	Admin     *handler.AdminHandler
}

// SetupRoutes configures all API routes. done stops the rate limiter's
// cleanup goroutine on shutdown.
func SetupRoutes(router *gin.Engine, h *Handlers, cfg *config.Config, done <-chan struct{}) {
	router.GET("/health", h.Health.HealthCheck)

	rateLimitWindow := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	// Visitor surfaces. Every request gets a session id; bots are
	// flagged so tracking writes can skip them.
	visitor := router.Group("/api")
	visitor.Use(session.Middleware(cfg.Service.SessionCookie))
	visitor.Use(middleware.BotFilter())
	{
		visitor.GET("/landing", h.Funnel.Landing)
		visitor.GET("/results/:page", h.Funnel.Results)
		visitor.GET("/prelander", h.Prelander.Resolve)
		visitor.POST("/prelander/email", h.Prelander.CaptureEmail)

		track := visitor.Group("/track")
		track.Use(middleware.RateLimiter(cfg.RateLimit.MaxTrackPerMinute, rateLimitWindow, done))
		{
			track.POST("/pageview", h.Track.PageView)
			track.POST("/click", h.Track.Click)
			track.POST("/heartbeat", h.Track.Heartbeat)
		}
	}

	// Outbound redirect sits outside /api so links stay short.
	redirect := router.Group("")
	redirect.Use(session.Middleware(cfg.Service.SessionCookie))
	redirect.Use(middleware.BotFilter())
	redirect.GET("/r", h.Funnel.Redirect)

	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuth(cfg.Service.AdminJWTSecret))
	{
		admin.GET("/analytics/summary", h.Admin.AnalyticsSummary)
		admin.GET("/emails", h.Admin.ListEmails)

		admin.GET("/landing", h.Admin.GetLanding)
		admin.PUT("/landing", h.Admin.SaveLanding)

		admin.GET("/categories", h.Admin.ListCategories)
		admin.POST("/categories", h.Admin.CreateCategory)
		admin.PUT("/categories/:id", h.Admin.UpdateCategory)
		admin.DELETE("/categories/:id", h.Admin.DeleteCategory)

		admin.GET("/results", h.Admin.ListWebResults)
		admin.POST("/results", h.Admin.CreateWebResult)
		admin.PUT("/results/:id", h.Admin.UpdateWebResult)
		admin.DELETE("/results/:id", h.Admin.DeleteWebResult)

		admin.GET("/prelanders", h.Admin.ListPrelanders)
		admin.POST("/prelanders", h.Admin.CreatePrelander)
		admin.DELETE("/prelanders/:id", h.Admin.DeletePrelander)
	}
}
