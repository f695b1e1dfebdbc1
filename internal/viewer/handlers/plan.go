package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"plan3d/internal/viewer/compiler"
	"plan3d/internal/viewer/plan"
	"plan3d/internal/viewer/scene"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Plan Export Handlers
// ============================================================

const DefaultPreviewSize = 512

// RenderPlan собирает сцену и возвращает вид сверху в SVG.
func (h *ViewerHandler) RenderPlan(c fiber.Ctx) error {
	log.Printf("[RENDER] Received request")
	log.Printf("[RENDER] Content-Length: %d", len(c.Body()))

	return h.withScene(c, "[RENDER]", func(s *scene.Scene) error {
		svg, err := plan.SVG(s)
		if err != nil {
			return err
		}
		c.Set("Content-Type", "image/svg+xml")
		return c.SendString(svg)
	})
}

// Preview собирает сцену и возвращает PNG превью плана (?size=N пикселей).
func (h *ViewerHandler) Preview(c fiber.Ctx) error {
	log.Printf("[PREVIEW] Received request")

	size := DefaultPreviewSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid size"})
		}
		size = n
	}

	return h.withScene(c, "[PREVIEW]", func(s *scene.Scene) error {
		data, err := plan.PNG(s, size)
		if err != nil {
			return err
		}
		c.Set("Content-Type", "image/png")
		return c.Send(data)
	})
}

// withScene компилирует сцену из тела запроса, передает ее в fn и освобождает.
// Экспорт плана рисуется на CPU, поэтому проба возможностей не нужна.
func (h *ViewerHandler) withScene(c fiber.Ctx, tag string, fn func(s *scene.Scene) error) error {
	req, err := h.decode(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := compiler.Compile(req.Description, req.Settings, compiler.WithSeed(h.seedFor(req)))
	if err != nil {
		log.Printf("%s Build error: %v", tag, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer res.Scene.Teardown()

	if err := fn(res.Scene); err != nil {
		log.Printf("%s Export error: %v", tag, err)
		if errors.Is(err, plan.ErrEmptyScene) {
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return nil
}
