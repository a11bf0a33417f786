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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phishnheat/backend/audit"
	"github.com/phishnheat/backend/cache"
	"github.com/phishnheat/backend/client"
	"github.com/phishnheat/backend/config"
	"github.com/phishnheat/backend/controller"
	"github.com/phishnheat/backend/db"
	"github.com/phishnheat/backend/fetch"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/router"
	"github.com/phishnheat/backend/service"
	"github.com/phishnheat/backend/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize SQLite
	if err := db.InitSQLite(); err != nil {
		logger.Fatal("Failed to initialize SQLite", zap.Error(err))
	}
	defer db.CloseSQLite()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize utilities
	validationUtil := util.NewValidationUtil()
	notificationService := util.NewNotificationService()

	var auditService audit.Service
	if config.GetBool("audit.enabled") {
		auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
		if err != nil {
			logger.Fatal("Failed to initialize audit repository", zap.Error(err))
		}
		auditService = audit.NewService(auditRepository)
	} else {
		auditService = audit.NewNopService()
	}

	// Initialize the fetch pipeline
	freshCache := cache.NewFreshnessCache()
	budget := fetch.NewBudget(
		config.GetInt("upstream.quotaPerWindow"),
		config.GetDuration("upstream.windowLength"),
	)
	phishStatsClient := client.NewPhishStatsClient()
	coordinator := fetch.NewCoordinator(phishStatsClient, validationUtil, freshCache, budget, fetch.Options{
		TTL:            config.GetDuration("cache.ttl"),
		RetryCount:     config.GetInt("upstream.retryCount"),
		RetryBackoff:   config.GetDuration("upstream.retryBackoff"),
		AttemptTimeout: config.GetDuration("phishstats.timeout"),
		FetchTimeout:   config.GetDuration("upstream.fetchTimeout"),
	})

	// Initialize services
	services, err := service.InitializeServices(
		db.DB,
		coordinator,
		freshCache,
		budget,
		auditService,
		notificationService,
		eventBus,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	services.Phishing.StartRetention(ctx,
		config.GetInt("database.retentionDays"),
		config.GetDuration("database.retentionInterval"))

	// Initialize controllers
	controllers := controller.InitializeControllers(services)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		services,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
