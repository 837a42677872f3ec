package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/saeid-a/FlashFitBack/internal/config"
	"github.com/saeid-a/FlashFitBack/internal/database"
	applog "github.com/saeid-a/FlashFitBack/internal/logger"
	"github.com/saeid-a/FlashFitBack/internal/middleware"
	"github.com/saeid-a/FlashFitBack/internal/routes"
	"github.com/saeid-a/FlashFitBack/internal/services"
	syncws "github.com/saeid-a/FlashFitBack/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		applog.New(applog.Options{}).Fatalf("Failed to load config: %v", err)
	}
	log := applog.New(applog.Options{Level: cfg.LogLevel, Env: cfg.AppEnv})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.DBUrl, cfg.MigrationsDir); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied")
	}
	db, err := database.ConnectDB(ctx, cfg.DBUrl, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.SeedOnStart {
		seeder := services.NewSeedService(db, log, services.SeedOptions{
			DefaultUserName:     cfg.DefaultUserName,
			DefaultUserEmail:    cfg.DefaultUserEmail,
			DefaultUserPassword: cfg.DefaultUserPassword,
		})
		if err := seeder.Seed(ctx); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "FlashFit API",
		ErrorHandler: routes.NewErrorHandler(cfg, log),
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx, time.Minute, 10*time.Minute)

	hub := syncws.NewHub(log)
	go hub.Run(ctx)

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: log.Writer(),
	}))
	app.Use(metrics.Handler())

	// Routes
	if err := routes.RegisterRoutes(app, cfg, db, routes.Infrastructure{
		Hub:      hub,
		Gatherer: registry,
		Limiter:  limiter,
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// 4. Start Server
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Server failed to start: %v", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}
}
