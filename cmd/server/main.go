package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"github.com/shrike012/Streamline/internal/config"
	"github.com/shrike012/Streamline/internal/db"
	"github.com/shrike012/Streamline/internal/embedding"
	"github.com/shrike012/Streamline/internal/handler"
	"github.com/shrike012/Streamline/internal/insight"
	"github.com/shrike012/Streamline/internal/middleware"
	"github.com/shrike012/Streamline/internal/repository"
	"github.com/shrike012/Streamline/internal/router"
	"github.com/shrike012/Streamline/internal/scoring"
	"github.com/shrike012/Streamline/internal/service"
	"github.com/shrike012/Streamline/internal/youtube"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "streamline-api")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	yt, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create YouTube client")
	}

	embedder, err := embedding.NewClient(cfg.OpenAIAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create embedding client")
	}

	// Repositories
	profileRepo := repository.NewProfileRepo(pool)
	outlierRepo := repository.NewOutlierRepo(pool)
	competitorRepo := repository.NewCompetitorRepo(pool)
	notificationRepo := repository.NewNotificationRepo(pool)

	// Services
	scoringCfg := scoring.Config{
		Window:           cfg.OutlierWindow,
		NotableThreshold: cfg.OutlierNotableThreshold,
		MinAbsoluteViews: cfg.OutlierMinViews,
	}
	classifier := insight.NewClassifier(embedder, cache)
	channelSvc := service.NewChannelService(yt, profileRepo, cache, scoringCfg)
	outlierSvc := service.NewOutlierService(yt, outlierRepo, profileRepo, scoringCfg)
	nicheSvc := service.NewNicheService(yt, embedder)
	insightSvc := service.NewInsightService(profileRepo, classifier)
	competitorSvc := service.NewCompetitorService(competitorRepo, yt, cache)

	// Background workers
	outlierWorker := service.NewOutlierWorker(outlierSvc, profileRepo, cfg.OutlierScanInterval)
	go outlierWorker.Start(ctx)
	defer outlierWorker.Stop()

	competitorWorker := service.NewCompetitorWorker(competitorRepo, notificationRepo, yt, cfg.CompetitorPollInterval)
	go competitorWorker.Start(ctx)
	defer competitorWorker.Stop()

	handler.InitMetrics(pool)

	app := fiber.New(fiber.Config{
		AppName:      "Streamline API",
		ServerHeader: "Streamline",
	})

	router.Setup(app, &router.Handlers{
		Channel:      handler.NewChannelHandler(channelSvc),
		Outlier:      handler.NewOutlierHandler(outlierSvc),
		Niche:        handler.NewNicheHandler(nicheSvc),
		Competitor:   handler.NewCompetitorHandler(competitorSvc, insightSvc),
		Notification: handler.NewNotificationHandler(notificationRepo),
		Health:       handler.NewHealthHandler(pool, cache.Client()),
	}, cfg.CORSOrigins)

	// Shut the server down when the signal context fires.
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = app.Shutdown()
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Msg("streamline backend starting")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
