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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/api"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/api/handlers"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/api/middleware"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/providers"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/services"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/config"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis is optional; without it the cache degrades to pass-through.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Warnf("Redis unavailable, running without cache: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	cacheService := services.NewCacheService(redisClient)

	// Initialize services
	feed := providers.NewNRLDataClient(cfg.NRLDataBaseURL, cfg.ExternalAPITimeout, logrus.StandardLogger())
	importer := services.NewImportService(db, feed, logrus.StandardLogger())
	projections := services.NewProjectionService(
		db, cacheService, logrus.StandardLogger(),
		nil, // no trained model wired yet; deterministic predictors apply
		cfg.LookbackGames,
		cfg.ProjectionWorkers,
		time.Duration(cfg.ProjectionCacheTTL)*time.Second,
	)

	// Background data fetcher
	var dataFetcher *services.DataFetcherService
	if cfg.EnableBackgroundJobs {
		fetchInterval, err := time.ParseDuration(cfg.DataFetchInterval)
		if err != nil {
			logrus.Warnf("Invalid fetch interval, using default 2h: %v", err)
			fetchInterval = 2 * time.Hour
		}
		dataFetcher = services.NewDataFetcherService(db, importer, projections,
			logrus.StandardLogger(), cfg.CurrentSeason, fetchInterval)
		if err := dataFetcher.Start(); err != nil {
			logrus.Errorf("Failed to start data fetcher: %v", err)
		} else {
			defer dataFetcher.Stop()
		}
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(db, cacheService, dataFetcher)
	router.GET("/health", healthHandler.GetHealth)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, cacheService, projections, importer, cfg)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
