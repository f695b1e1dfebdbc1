package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// Register вешает маршруты просмотрщика на роутер.
func (h *ViewerHandler) Register(r fiber.Router) {
	r.Get("/health/live", LivenessProbe)
	r.Get("/health/ready", h.ReadinessProbe)
	r.Get("/capabilities", ServerCapabilities)

	r.Post("/build", h.Build)
	r.Post("/render", h.RenderPlan)
	r.Post("/preview", h.Preview)
	r.Get("/telemetry", h.Telemetry)
}
