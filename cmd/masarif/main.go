package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"masarif/internal/api"
	"masarif/internal/api/handlers"
	"masarif/internal/service"
	"masarif/pkg/config"
	"masarif/pkg/logger"
	"masarif/pkg/retry"

	"go.uber.org/zap"
)

const version = "1.0.0"

// @title Masarif API
// @version 1.0
// @description Multilingual expense extraction and receipt parsing service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@masarif.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Masarif service", zap.String("version", version))

	// Initialize services
	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	policy := retry.Policy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
		Multiplier:      cfg.Retry.Multiplier,
	}

	extractService := service.NewExtractService(
		llmService, policy,
		cfg.Extraction.DefaultCurrency, cfg.Extraction.BatchConcurrency,
		appLogger,
	)
	receiptService := service.NewReceiptService(llmService, policy, cfg.Extraction.DefaultCurrency, appLogger)
	ingestService := service.NewIngestService(llmService, appLogger)
	analyticsService := service.NewAnalyticsService(appLogger)
	exportService := service.NewExportService(analyticsService, appLogger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(version)
	expenseHandler := handlers.NewExpenseHandler(extractService, ingestService, appLogger)
	receiptHandler := handlers.NewReceiptHandler(receiptService, ingestService, appLogger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, exportService, appLogger)

	// Setup router
	app := api.SetupRouter(&cfg.Server, healthHandler, expenseHandler, receiptHandler, analyticsHandler)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
