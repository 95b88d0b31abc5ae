package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"moviemate/internal/catalog"
	"moviemate/internal/config"
	"moviemate/internal/database"
	"moviemate/internal/handler"
	"moviemate/internal/presenter"
	"moviemate/internal/repository"
	"moviemate/internal/service"
	"moviemate/internal/session"
)

const sessionTTL = 30 * time.Minute

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration; a missing required value must stop startup.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		rdb = nil
	}

	// Initialize catalog client
	cat := catalog.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)

	// Initialize layers
	repo := repository.NewUserRepository(db)

	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, sessionTTL)
	} else {
		sessions = session.NewMemoryStore()
	}

	discoverySvc := service.NewDiscoveryService(cat, repo, rdb)
	userSvc := service.NewUserService(repo, rdb)
	pres := presenter.New(repo)

	dh := handler.NewDiscoveryHandler(discoverySvc, userSvc, sessions, pres)
	uh := handler.NewUserHandler(userSvc)
	fh := handler.NewFilterHandler(userSvc, sessions)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MovieMate",
		ServerHeader: "MovieMate",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: "Something went wrong. Please try again."})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(handler.RequestID())

	// API routes
	handler.RegisterRoutes(app, dh, uh, fh)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down moviemate...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting moviemate", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
