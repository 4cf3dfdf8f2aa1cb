package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// History & Health Handlers
// ============================================================

const maxListLimit = 500

// ListExports returns recent export records. Query: limit.
func (h *ConverterHandler) ListExports(c fiber.Ctx) error {
	if h.store == nil {
		return fail(c, http.StatusServiceUnavailable, "export history disabled")
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		limit = min(n, maxListLimit)
	}

	exports, err := h.store.Recent(c.Context(), limit)
	if err != nil {
		h.logger.Error("exports_list_failed", "err", err)
		return fail(c, http.StatusInternalServerError, "failed to list exports")
	}
	return c.JSON(fiber.Map{"exports": exports})
}

func (h *ConverterHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready checks the history database when one is configured.
func (h *ConverterHandler) Ready(c fiber.Ctx) error {
	if h.store != nil {
		if err := h.store.Ping(c.Context()); err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
