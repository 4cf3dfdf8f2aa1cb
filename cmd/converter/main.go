package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gbxml-service/internal/common/config"
	"gbxml-service/internal/common/logger"
	"gbxml-service/internal/common/metrics"
	"gbxml-service/internal/common/middleware"
	"gbxml-service/internal/converter/handlers"
	"gbxml-service/internal/converter/mapper"
	"gbxml-service/internal/converter/repository"
	"gbxml-service/internal/converter/storage"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Converter Service
// ============================================================

func main() {
	l := logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}

	// ============================================================
	// Dependencies
	// ============================================================

	db, err := repository.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		l.Error("db_open_error", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := repository.New(db, cfg.DBDriver)
	if err := repo.Init(context.Background()); err != nil {
		l.Error("db_init_error", "err", err)
		os.Exit(1)
	}
	l.Info("db_open_ok", "driver", cfg.DBDriver)

	var cache storage.DocumentCache
	if rc := storage.OpenRedis(cfg.RedisAddr, cfg.RedisPass); rc != nil {
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Warn("redis_ping_error", "addr", cfg.RedisAddr, "err", err)
		} else {
			l.Info("redis_ping_ok", "addr", cfg.RedisAddr)
			cache = storage.NewRedisCache(rc, time.Duration(cfg.CacheTTL)*time.Second)
		}
		defer rc.Close()
	} else {
		l.Info("redis_disabled")
	}

	h := handlers.NewConverterHandler(handlers.Options{
		ExportType:     mapper.ParseExportType(cfg.ExportType),
		StrictGeometry: cfg.StrictGeometry,
		Files:          storage.NewFileStorage(cfg.OutputDir),
		Store:          repo,
		Cache:          cache,
		Logger:         l,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024 * 1024,
		AppName:      "gbXML Converter Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.Metrics())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// ============================================================
	// Converter Routes
	// ============================================================

	h.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	l.Info("converter_start", "addr", addr, "env", cfg.Environment, "output_dir", cfg.OutputDir)

	if err := app.Listen(addr); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
