package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockpulse/internal/advisor/config"
	"stockpulse/internal/advisor/repository"
	"stockpulse/internal/advisor/service"
	"stockpulse/pkg/logger"
	"stockpulse/pkg/postgres"
	"stockpulse/pkg/redis"
	"stockpulse/pkg/telegram"

	"github.com/spf13/cobra"
)

var configPath string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates today's digest and exits",
	Run:   runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) {
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

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
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

	stocksRepo := repository.NewStocksRepository(db.DB)
	stockNewsRepo := repository.NewStockNewsRepository(db.DB)
	predictionRepo := repository.NewPredictionRepository(db.DB)
	digestRepo := repository.NewDigestRepository(db.DB)
	yahooRepo := repository.NewYahooFinanceRepository(cfg, appLogger)
	newsFeedRepo := repository.NewNewsFeedRepository(cfg, appLogger)

	scoringSvc := service.NewScoringService(appLogger, yahooRepo, newsFeedRepo,
		stockNewsRepo, service.NewSentimentAnalyzer(), service.NewFundamentalAnalyzer())
	digestSvc := service.NewDigestService(cfg, appLogger, scoringSvc, stocksRepo,
		digestRepo, predictionRepo, stockNewsRepo, newsFeedRepo, redisClient, notifier)

	digest, err := digestSvc.Generate(ctx)
	if err != nil {
		appLogger.Fatal("Digest generation failed", logger.ErrorField(err))
	}

	appLogger.Info("Digest generated",
		logger.StringField("date", digest.Date),
		logger.IntField("buy_count", len(digest.Buy)),
		logger.IntField("sell_count", len(digest.Sell)))
}

func main() {
	rootCmd := &cobra.Command{Use: "digest"}

	generateCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(generateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing digest CLI: %s\n", err)
		os.Exit(1)
	}
}
