package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe reports that the process is up.
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe is ready when the converter service answers its own
// readiness check.
func ReadinessProbe(converterURL string) fiber.Handler {
	client := &http.Client{Timeout: 2 * time.Second}
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, converterURL+"/health/ready", nil)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"status": "not ready", "error": err.Error()})
		}
		resp, err := client.Do(req)
		if err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "error": "converter unreachable"})
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "converter": resp.StatusCode})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}

// StartupProbe reports that startup finished.
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
