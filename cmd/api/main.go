package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finsight/internal/ai"
	"finsight/internal/config"
	"finsight/internal/database"
	"finsight/internal/logger"
	"finsight/internal/notify"
	"finsight/internal/server"
	"finsight/internal/services"
	"finsight/internal/storage"
	"finsight/internal/storage/memory"
	"finsight/internal/storage/mongodb"
	"finsight/internal/validator"
)

// @title           Finsight API
// @version         1.0
// @description     Finsight tracks personal expenses and budgets and turns spending into AI-generated insights.

// @host      localhost:5000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	validator.Register()

	// Storage starts in memory and upgrades once MongoDB answers.
	manager := storage.NewManager(memory.NewStorage, storage.ManagerConfig{
		InitialDelay:  appConfig.StorageInitialDelay,
		RetryInterval: appConfig.StorageRetryInterval,
		RetryWindow:   appConfig.StorageRetryWindow,
	})
	defer manager.Close()

	if appConfig.DatabaseURL != "" {
		connector, err := mongodb.Dial(ctx, appConfig.DatabaseURL, appConfig.DatabaseName, manager)
		if err != nil {
			return fmt.Errorf("failed to create MongoDB client: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := connector.Close(closeCtx); err != nil {
				log.Warnf("MongoDB disconnect error: %v", err)
			}
		}()
		manager.Start(ctx, connector)
	} else {
		log.Warn("DATABASE_URL not set, serving from in-memory storage only")
	}

	// Audit database
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("audit database close error: %v", err)
		}
	}()
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	aiClient, err := ai.New(ai.Config{
		APIKey:    appConfig.OpenAIAPIKey,
		Model:     appConfig.OpenAIModel,
		BaseURL:   appConfig.OpenAIBaseURL,
		Timeout:   appConfig.AITimeout,
		RateLimit: appConfig.AIRateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}

	hub := notify.NewHub(appConfig.CORSOrigin)
	defer hub.Close()

	// Initialize services
	router := server.NewRouter(appConfig.CORSOrigin, server.Services{
		Users:           services.NewUserService(manager),
		Categories:      services.NewCategoryService(manager),
		Expenses:        services.NewExpenseService(manager, aiClient, hub),
		Budgets:         services.NewBudgetService(manager),
		Insights:        services.NewInsightService(manager, aiClient, hub),
		Analytics:       services.NewAnalyticsService(manager),
		Profiles:        services.NewProfileService(manager),
		Recommendations: services.NewRecommendationService(manager, aiClient),
		Audit:           services.NewAuditService(dbManager.DB(), manager),
		Storage:         manager,
		Hub:             hub,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Finsight server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
