package middleware

import (
	"strconv"

	"gbxml-service/internal/common/metrics"

	"github.com/gofiber/fiber/v3"
)

// Metrics counts requests by method, matched route and status.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		metrics.RequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}
