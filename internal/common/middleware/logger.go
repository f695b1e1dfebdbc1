package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger логирует запросы вместе с размерами тела запроса и ответа:
// описания планов и превью бывают большими.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | in: ${reqHeader:Content-Length}B out: ${bytesSent}B\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
