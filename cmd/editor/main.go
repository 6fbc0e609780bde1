package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"floorplan/internal/common/config"
	"floorplan/internal/common/logger"
	"floorplan/internal/common/middleware"
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/handlers"
	"floorplan/internal/editor/repository"
	"floorplan/internal/editor/scene"
	"floorplan/internal/editor/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Floor Plan Editor Service
// ============================================================

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}

	storage := service.NewFileStorage(cfg.StorageRoot)
	sessions := service.NewSessionManager(scene.Options{
		GridSize:        cfg.GridSize,
		Scale:           cfg.GridScale,
		SnapThreshold:   cfg.SnapThreshold,
		HistoryCapacity: cfg.HistoryCapacity,
		SnapToGrid:      true,
	})
	if _, err := geometry.NewCoordinateSystem(cfg.GridSize, cfg.GridScale); err != nil {
		log.Fatalf("Invalid grid configuration: %v", err)
	}
	go expireSessions(sessions, cfg.SessionIdle)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Floor Plan Editor",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(cfg.LogFormat))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Editor Routes
	// ============================================================

	handlers.NewEditorHandler(repo, sessions, storage).Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Log.WithField("addr", addr).WithField("env", cfg.Environment).Info("starting floor plan editor")

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// expireSessions периодически закрывает простаивающие сессии.
func expireSessions(sessions *service.SessionManager, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for range ticker.C {
		if n := sessions.Expire(idle); n > 0 {
			logger.Component("sessions").WithField("closed", n).Info("idle sessions expired")
		}
	}
}
