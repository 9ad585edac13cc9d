// Package main provides the main entry point for the Leadline sales CRM backend
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/leadline/leadline/app/handlers"
	"github.com/leadline/leadline/app/middleware"
	"github.com/leadline/leadline/app/router"
	"github.com/leadline/leadline/app/services"
	businessflow "github.com/leadline/leadline/business_flow"
	"github.com/leadline/leadline/config"
	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/repository"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Leadline application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to a rotating file when configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(rotator)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// migrateAndSeed runs schema migration and ensures the singleton config row exists
func migrateAndSeed(db *gorm.DB, cfg *config.ProductionConfig) error {
	err := db.AutoMigrate(
		&models.Lead{},
		&models.CallLog{},
		&models.Prospect{},
		&models.CustomQueue{},
		&models.AppConfig{},
		&models.Notepad{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	configRepo := repository.NewAppConfigRepository(db)
	existing, err := configRepo.Get(context.Background())
	if err != nil {
		return err
	}
	if existing == nil {
		seed := models.DefaultAppConfig()
		seed.CallQueueDays = cfg.CRM.CallQueueDays
		if err := configRepo.Save(context.Background(), seed); err != nil {
			return fmt.Errorf("failed to seed app config: %w", err)
		}
		log.Printf("Seeded default app config with call queue window of %d days", seed.CallQueueDays)
	}

	return nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	if err := migrateAndSeed(db, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.CRM.ExportDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(db)
	callLogRepo := repository.NewCallLogRepository(db)
	prospectRepo := repository.NewProspectRepository(db)
	queueRepo := repository.NewCustomQueueRepository(db)
	configRepo := repository.NewAppConfigRepository(db)
	notepadRepo := repository.NewNotepadRepository(db)

	// Initialize flows
	leadFlow := businessflow.NewLeadFlow(leadRepo, callLogRepo, db)
	queueFlow := businessflow.NewQueueFlow(queueRepo, leadRepo, configRepo)
	prospectFlow := businessflow.NewProspectFlow(prospectRepo, leadRepo)
	importExportFlow := businessflow.NewImportExportFlow(leadRepo, configRepo, cfg.CRM.ExportDir)
	sessionFlow := businessflow.NewCallSessionFlow(queueFlow, leadFlow, leadRepo)
	scrapeFlow := businessflow.NewScrapeFlow(func() services.PageProvider {
		return services.NewRodPageProvider(&cfg.Scraper)
	}, prospectRepo)
	settingsFlow := businessflow.NewSettingsFlow(configRepo, notepadRepo)
	dashboardFlow := businessflow.NewDashboardFlow(leadRepo, callLogRepo, prospectRepo, configRepo, rc, cfg.Cache.RedisPrefix)

	// Initialize handlers
	h := router.Handlers{
		Lead:         handlers.NewLeadHandler(leadFlow),
		Prospect:     handlers.NewProspectHandler(prospectFlow),
		Queue:        handlers.NewQueueHandler(queueFlow),
		Session:      handlers.NewCallSessionHandler(sessionFlow),
		ImportExport: handlers.NewImportExportHandler(importExportFlow),
		Scraper:      handlers.NewScraperHandler(scrapeFlow),
		Settings:     handlers.NewSettingsHandler(settingsFlow, dashboardFlow),
	}

	// Initialize access middleware
	access := middleware.NewAccessMiddleware(cfg.Security.AccessKey)

	// Initialize router
	appRouter := router.NewFiberRouter(h, access, cfg.Security.AllowedOrigins)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
