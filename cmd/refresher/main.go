package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sumodev/careboard/internal/cache"
	"github.com/sumodev/careboard/internal/db"
	"github.com/sumodev/careboard/internal/stats"
	"github.com/sumodev/careboard/pkg/config"
	"github.com/sumodev/careboard/pkg/logging"
	"github.com/sumodev/careboard/pkg/telemetry"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Careboard Stats Refresher")

	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisCache == nil {
		logger.Fatal("Redis is required for the stats refresher; set CARE_REDIS_URL")
	}
	defer redisCache.Close()

	tweetRepo := db.NewTweetRepository(db.NewRepository(database.DB))
	snapshotStore := stats.NewStore(redisCache, cfg.Stats.TTL)
	refresher := stats.NewRefresher(tweetRepo, snapshotStore, cfg.Dashboard.Locale, cfg.Stats.TopContributors, logger)

	refresh := func() {
		if err := refresher.Refresh(context.Background()); err != nil {
			logger.Error("Stats refresh failed", zap.Error(err))
		}
	}

	// Populate the cache immediately, then keep it warm on schedule.
	refresh()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Stats.RefreshSpec, refresh); err != nil {
		logger.Fatal("Invalid refresh schedule",
			zap.String("spec", cfg.Stats.RefreshSpec),
			zap.Error(err))
	}
	scheduler.Start()

	logger.Info("Refresher running", zap.String("schedule", cfg.Stats.RefreshSpec))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down refresher...")
	<-scheduler.Stop().Done()
	logger.Info("Refresher exited")
}
