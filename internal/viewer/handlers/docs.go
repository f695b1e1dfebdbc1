package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs Handlers
// ============================================================

// SwaggerSpec отдает OpenAPI YAML сервиса с диска.
func SwaggerSpec(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[DOCS] Read error: %v", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "spec not found"})
		}
		c.Type("yaml")
		return c.Send(data)
	}
}

// SwaggerUI отдает страницу Swagger UI, читающую spec из /docs/openapi.yaml.
func SwaggerUI(c fiber.Ctx) error {
	c.Type("html")
	return c.SendString(swaggerPage)
}

const swaggerPage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Plan Viewer API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`
