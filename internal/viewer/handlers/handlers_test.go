package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/telemetry"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrations = "../../../migrations/001_init_telemetry.sql"

const floorPlan = `{
  "rooms": [
    {"name": "Kitchen", "x": 0, "z": 0, "width": 4, "length": 4, "height": 3},
    {"name": "Hall", "x": 4, "z": 0, "width": 3, "length": 4, "height": 3},
    {"name": "broken", "width": 0, "length": 2, "height": 2}
  ],
  "windows": [{"room": "Kitchen", "wall": "north", "width": 1.2, "height": 1, "position": 0.5}],
  "doors": [{"from": "Kitchen", "to": "Hall"}]
}`

func newApp(t *testing.T) (*fiber.App, *telemetry.Store) {
	t.Helper()

	db, err := telemetry.OpenSQLite(filepath.Join(t.TempDir(), "telemetry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := telemetry.New(db)
	require.NoError(t, store.Init(context.Background(), migrations))

	app := fiber.New()
	NewViewerHandler(store, models.DefaultSettings(), 7).Register(app)
	return app, store
}

func post(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, r io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func TestBuildReady(t *testing.T) {
	app, store := newApp(t)

	body := `{"description": ` + floorPlan + `, "settings": {"lighting": "night"},
	          "capabilities": {"accelerated": true, "renderer": "ANGLE (NVIDIA)"},
	          "viewport": {"width": 400, "height": 200}}`
	resp := post(t, app, "/build", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Status      string `json:"status"`
		BuildID     string `json:"build_id"`
		Diagnostics struct {
			Generation string   `json:"generation"`
			ValidRooms int      `json:"validRoomCount"`
			TotalRooms int      `json:"totalRoomCount"`
			Connectors int      `json:"connectors"`
			Warnings   []string `json:"warnings"`
		} `json:"diagnostics"`
		Scene struct {
			Generation string `json:"generation"`
			Camera     struct {
				Aspect float64 `json:"aspect"`
			} `json:"camera"`
		} `json:"scene"`
		Textures map[string]string `json:"textures"`
	}
	decodeJSON(t, resp.Body, &out)

	assert.Equal(t, "ready", out.Status)
	assert.NotEmpty(t, out.BuildID)
	assert.Equal(t, 2, out.Diagnostics.ValidRooms)
	assert.Equal(t, 3, out.Diagnostics.TotalRooms)
	assert.Zero(t, out.Diagnostics.Connectors)
	assert.NotEmpty(t, out.Diagnostics.Warnings)
	assert.Equal(t, out.Diagnostics.Generation, out.Scene.Generation)
	assert.InDelta(t, 2, out.Scene.Camera.Aspect, 1e-6)
	assert.Empty(t, out.Textures)

	entries, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, out.BuildID, entries[0].ID)
	assert.Equal(t, telemetry.StatusReady, entries[0].Status)
	assert.Equal(t, 2, entries[0].ValidRooms)
}

func TestBuildInlineTextures(t *testing.T) {
	app, _ := newApp(t)

	resp := post(t, app, "/build", `{"description": `+floorPlan+`, "inline_textures": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Textures map[string]string `json:"textures"`
	}
	decodeJSON(t, resp.Body, &out)

	require.NotEmpty(t, out.Textures)
	for _, url := range out.Textures {
		assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	}
}

func TestBuildCapabilityFailure(t *testing.T) {
	app, store := newApp(t)

	body := `{"description": ` + floorPlan + `, "capabilities": {"accelerated": false}}`
	resp := post(t, app, "/build", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out buildError
	decodeJSON(t, resp.Body, &out)
	assert.Equal(t, "error", string(out.Status))
	assert.Equal(t, "capability", string(out.Kind))
	assert.NotEmpty(t, out.Remediation)
	assert.NotEmpty(t, out.BuildID)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failures)
}

func TestBuildBadRequests(t *testing.T) {
	app, _ := newApp(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", "", "body required"},
		{"malformed", `{"description": [`, "invalid JSON payload"},
		{"no description", `{"settings": {}}`, "description required"},
		{"huge viewport", `{"description": {"rooms": []}, "viewport": {"width": 12000, "height": 12000}}`, "viewport exceeds 4096x4096"},
		{"wide viewport", `{"description": {"rooms": []}, "viewport": {"width": 4097, "height": 10}}`, "viewport exceeds 4096x4096"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, app, "/build", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out map[string]string
			decodeJSON(t, resp.Body, &out)
			assert.Equal(t, tt.want, out["error"])
		})
	}
}

func TestBuildNoValidRooms(t *testing.T) {
	app, _ := newApp(t)

	resp := post(t, app, "/build", `{"description": {"rooms": [{"name": "x", "width": -1, "length": 1, "height": 1}]}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Diagnostics struct {
			DefaultBounds bool    `json:"defaultBounds"`
			GridSpan      float64 `json:"gridSpan"`
		} `json:"diagnostics"`
	}
	decodeJSON(t, resp.Body, &out)
	assert.True(t, out.Diagnostics.DefaultBounds)
	assert.Equal(t, 20.0, out.Diagnostics.GridSpan)
}

func TestRenderPlan(t *testing.T) {
	app, _ := newApp(t)

	resp := post(t, app, "/render", `{"description": `+floorPlan+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<svg")
	assert.Contains(t, string(body), ">Kitchen</text>")
	assert.Contains(t, string(body), `class="door"`)
}

func TestRenderPlanEmpty(t *testing.T) {
	app, _ := newApp(t)

	resp := post(t, app, "/render", `{"description": {"rooms": []}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPreview(t *testing.T) {
	app, _ := newApp(t)

	resp := post(t, app, "/preview?size=128", `{"description": `+floorPlan+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	resp = post(t, app, "/preview?size=big", `{"description": `+floorPlan+`}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTelemetryEndpoint(t *testing.T) {
	app, _ := newApp(t)

	for i := 0; i < 3; i++ {
		resp := post(t, app, "/build", `{"description": `+floorPlan+`}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/telemetry?limit=2", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Builds []telemetry.Entry `json:"builds"`
		Stats  telemetry.Stats   `json:"stats"`
	}
	decodeJSON(t, resp.Body, &out)
	assert.Len(t, out.Builds, 2)
	assert.Equal(t, 3, out.Stats.Builds)

	bad, err := app.Test(httptest.NewRequest(http.MethodGet, "/telemetry?limit=-1", nil))
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestTelemetryDisabled(t *testing.T) {
	app := fiber.New()
	NewViewerHandler(nil, models.DefaultSettings(), 0).Register(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/telemetry", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	build := post(t, app, "/build", `{"description": `+floorPlan+`}`)
	assert.Equal(t, http.StatusOK, build.StatusCode)
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestServerCapabilities(t *testing.T) {
	app, _ := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/capabilities", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Accelerated bool     `json:"accelerated"`
		Remediation []string `json:"remediation"`
	}
	decodeJSON(t, resp.Body, &out)
	if !out.Accelerated {
		assert.NotEmpty(t, out.Remediation)
	}
}

func TestDocs(t *testing.T) {
	app := fiber.New()
	app.Get("/docs", SwaggerUI)
	app.Get("/docs/openapi.yaml", SwaggerSpec("../../../docs/viewer.openapi.yaml"))
	app.Get("/missing.yaml", SwaggerSpec("missing.yaml"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/build:")

	page, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.NoError(t, err)
	defer page.Body.Close()
	assert.Contains(t, page.Header.Get("Content-Type"), "text/html")

	missing, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing.yaml", nil))
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, missing.StatusCode)
}
