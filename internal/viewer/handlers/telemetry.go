package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"plan3d/internal/viewer/telemetry"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Telemetry & Health Handlers
// ============================================================

// Telemetry возвращает последние сборки (?limit=N) и агрегаты.
func (h *ViewerHandler) Telemetry(c fiber.Ctx) error {
	if h.store == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": "telemetry disabled"})
	}

	limit := telemetry.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		limit = n
	}

	entries, err := h.store.Recent(context.Background(), limit)
	if err != nil {
		log.Printf("[TELEMETRY] Query error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load telemetry"})
	}
	stats, err := h.store.Stats(context.Background())
	if err != nil {
		log.Printf("[TELEMETRY] Stats error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load telemetry"})
	}

	return c.JSON(fiber.Map{
		"builds": entries,
		"stats":  stats,
	})
}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет, что хранилище телеметрии отвечает
func (h *ViewerHandler) ReadinessProbe(c fiber.Ctx) error {
	if h.store != nil {
		if _, err := h.store.Stats(context.Background()); err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{
		"status": "ready",
	})
}
