package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockpulse/internal/advisor/config"
	delivery "stockpulse/internal/advisor/delivery/http"
	"stockpulse/internal/advisor/repository"
	"stockpulse/internal/advisor/service"
	"stockpulse/pkg/logger"
	"stockpulse/pkg/postgres"
	"stockpulse/pkg/redis"
	"stockpulse/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock advisor service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting stock advisor", logger.Field("name", cfg.App.Name))

	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Repositories
	stocksRepo := repository.NewStocksRepository(db.DB)
	stockNewsRepo := repository.NewStockNewsRepository(db.DB)
	predictionRepo := repository.NewPredictionRepository(db.DB)
	statsRepo := repository.NewVerificationStatsRepository(db.DB)
	digestRepo := repository.NewDigestRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	yahooRepo := repository.NewYahooFinanceRepository(cfg, appLogger)
	newsFeedRepo := repository.NewNewsFeedRepository(cfg, appLogger)

	// Services
	scoringSvc := service.NewScoringService(appLogger, yahooRepo, newsFeedRepo,
		stockNewsRepo, service.NewSentimentAnalyzer(), service.NewFundamentalAnalyzer())
	digestSvc := service.NewDigestService(cfg, appLogger, scoringSvc, stocksRepo,
		digestRepo, predictionRepo, stockNewsRepo, newsFeedRepo, redisClient, notifier)
	verificationSvc := service.NewVerificationService(cfg, appLogger, predictionRepo, statsRepo, yahooRepo)
	authSvc := service.NewAuthService(cfg, appLogger, userRepo)
	schedulerSvc := service.NewSchedulerService(cfg, appLogger, digestSvc, verificationSvc)

	if err := schedulerSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}
	defer schedulerSvc.Stop()

	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")

	digestHandler := delivery.NewDigestHandler(digestSvc, appLogger)
	digestHandler.RegisterRoutes(apiV1.Group("/digest"))

	verificationHandler := delivery.NewVerificationHandler(verificationSvc, appLogger)
	verificationHandler.RegisterRoutes(apiV1.Group("/verification"))

	userHandler := delivery.NewUserHandler(authSvc, appLogger)
	userHandler.RegisterRoutes(apiV1.Group("/users"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Stock Advisor API
// @version 1.0
// @description Daily stock digest, prediction ledger and verification API.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "server"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing server CLI: %s\n", err)
		os.Exit(1)
	}
}
