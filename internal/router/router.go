package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/shrike012/Streamline/internal/handler"
	"github.com/shrike012/Streamline/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Channel      *handler.ChannelHandler
	Outlier      *handler.OutlierHandler
	Niche        *handler.NicheHandler
	Competitor   *handler.CompetitorHandler
	Notification *handler.NotificationHandler
	Health       *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics sit outside the API group, no auth needed
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	videosLimit := middleware.NewChannelVideosRateLimiter()
	searchLimit := middleware.NewNicheSearchRateLimiter()
	insightLimit := middleware.NewInsightRateLimiter()
	writeLimit := middleware.NewWriteRateLimiter()

	// Everything under /api requires an authenticated user
	api := app.Group("/api", middleware.RequireUser())

	// Channel routes
	api.Post("/channel/videos", h.Channel.Videos, videosLimit.Handler())
	api.Post("/channel/track", h.Channel.Track, writeLimit.Handler())
	api.Get("/channel/profiles", h.Channel.Profiles)

	// Outlier feed
	api.Get("/outliers", h.Outlier.List)

	// Niche search
	api.Post("/niche/search", h.Niche.Search, searchLimit.Handler())

	// Competitor lists
	api.Get("/channels/:channelId/lists", h.Competitor.Lists)
	api.Post("/channels/:channelId/lists", h.Competitor.CreateList, writeLimit.Handler())
	api.Put("/channels/:channelId/lists/:listId", h.Competitor.RenameList, writeLimit.Handler())
	api.Delete("/lists/:listId", h.Competitor.DeleteList, writeLimit.Handler())
	api.Get("/lists/:listId/competitors", h.Competitor.Competitors)
	api.Post("/lists/:listId/competitors", h.Competitor.AddCompetitor, writeLimit.Handler())
	api.Delete("/lists/:listId/competitors/:competitorChannelId", h.Competitor.RemoveCompetitor, writeLimit.Handler())

	// Competitor insight
	api.Get("/channels/:channelId/insight", h.Competitor.Insight, insightLimit.Handler())

	// Notifications
	api.Get("/notifications", h.Notification.List)
	api.Post("/notifications/read", h.Notification.MarkAllRead)
}
