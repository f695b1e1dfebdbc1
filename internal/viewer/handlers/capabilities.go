package handlers

import (
	"context"
	"errors"

	"plan3d/internal/viewer/viewer"

	"github.com/gofiber/fiber/v3"
	"github.com/gogpu/gg"
)

// ServerCapabilities сообщает, есть ли у самого сервиса аппаратное ускорение.
// Клиенты со своим GPU заявляют возможности в теле /build.
func ServerCapabilities(c fiber.Ctx) error {
	resp := fiber.Map{"accelerated": true}
	if accel := gg.Accelerator(); accel != nil {
		resp["accelerator"] = accel.Name()
	}

	if err := (viewer.AcceleratorProbe{}).Probe(context.Background()); err != nil {
		resp["accelerated"] = false
		resp["error"] = err.Error()

		var capErr *viewer.CapabilityError
		if errors.As(err, &capErr) {
			resp["remediation"] = capErr.Remediation
		}
	}
	return c.JSON(resp)
}
