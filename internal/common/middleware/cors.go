package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS открывает API просмотрщика для встраивающего UI с любого источника.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{"Content-Type"},
		AllowMethods:  []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
		ExposeHeaders: []string{"Content-Type"},
	})
}
