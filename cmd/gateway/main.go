package main

import (
	"fmt"
	"os"
	"time"

	"gbxml-service/internal/common/config"
	"gbxml-service/internal/common/logger"
	"gbxml-service/internal/common/metrics"
	"gbxml-service/internal/common/middleware"
	"gbxml-service/internal/gateway/handlers"
	"gbxml-service/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	l := logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024 * 1024,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(middleware.Logger())
	app.Use(middleware.Metrics())

	// ============================================================
	// Health Check & Docs Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(cfg.ConverterURL))
	app.Get("/health/startup", handlers.StartupProbe)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	handlers.NewDocs(os.Getenv("OPENAPI_SPEC")).Register(app)

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	proxy.Mount(app.Group("/api/v1"), cfg.ConverterURL)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	l.Info("gateway_start", "addr", addr, "env", cfg.Environment, "converter", cfg.ConverterURL)

	if err := app.Listen(addr); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
