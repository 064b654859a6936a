package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sumodev/careboard/internal/api"
	"github.com/sumodev/careboard/internal/cache"
	"github.com/sumodev/careboard/internal/db"
	"github.com/sumodev/careboard/internal/stats"
	"github.com/sumodev/careboard/internal/tweets"
	"github.com/sumodev/careboard/internal/twitter"
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
	logger.Info("Starting Careboard API Server")

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
	defer redisCache.Close()

	poster, err := twitter.New(&cfg.Twitter)
	if err != nil {
		logger.Fatal("Failed to initialize Twitter client", zap.Error(err))
	}

	repo := db.NewRepository(database.DB)
	tweetRepo := db.NewTweetRepository(repo)
	cannedRepo := db.NewCannedRepository(repo)

	builder := tweets.NewThreadBuilder(tweetRepo, tweets.NewSanitizer(), cfg.Dashboard.Locale, logger)
	replyService := tweets.NewService(poster, tweetRepo, logger)
	snapshotStore := stats.NewStore(redisCache, cfg.Stats.TTL)

	router := api.NewRouter(builder, replyService, cannedRepo, snapshotStore, poster, cfg.Dashboard.PageSize)

	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	router.SetupRoutes(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
