package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"plan3d/internal/common/config"
	"plan3d/internal/common/middleware"
	"plan3d/internal/viewer/compiler"
	"plan3d/internal/viewer/handlers"
	"plan3d/internal/viewer/telemetry"

	_ "github.com/gogpu/gg/gpu"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gogpu/gg"
)

// ============================================================
// Viewer Service
// ============================================================

func main() {
	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Environment == "development" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	compiler.SetLogger(logger)
	gg.SetLogger(logger.With("component", "gg"))

	defaults, err := config.DisplayDefaults(cfg.ViewerConfig)
	if err != nil {
		log.Fatalf("load viewer config: %v", err)
	}

	db, err := telemetry.OpenSQLite(cfg.TelemetryDBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := telemetry.New(db)
	if err := store.Init(context.Background(), cfg.TelemetryMigrations); err != nil {
		log.Fatalf("init db: %v", err)
	}

	viewerHandler := handlers.NewViewerHandler(store, defaults, cfg.TextureSeed)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit,
		AppName:      "Viewer Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS())
	app.Use(middleware.Logger())

	// ============================================================
	// Viewer Routes
	// ============================================================

	viewerHandler.Register(app)

	// ============================================================
	// Docs Routes
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec(cfg.OpenAPIPath))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Viewer Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
