package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"plan3d/internal/viewer/compiler"
	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/scene"
	"plan3d/internal/viewer/telemetry"
	"plan3d/internal/viewer/viewer"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Viewer Handler
// ============================================================

type ViewerHandler struct {
	store    *telemetry.Store
	defaults models.Settings
	seed     uint64
}

// NewViewerHandler: store может быть nil, тогда телеметрия не пишется.
// seed == 0 дает новый seed текстур на каждую сборку.
func NewViewerHandler(store *telemetry.Store, defaults models.Settings, seed uint64) *ViewerHandler {
	return &ViewerHandler{
		store:    store,
		defaults: defaults.Normalize(),
		seed:     seed,
	}
}

type capabilities struct {
	Accelerated bool   `json:"accelerated"`
	Renderer    string `json:"renderer"`
}

type viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type buildRequest struct {
	Description    *models.Description `json:"description"`
	Settings       models.Settings     `json:"settings"`
	Capabilities   *capabilities       `json:"capabilities"`
	Viewport       viewport            `json:"viewport"`
	Seed           uint64              `json:"seed"`
	InlineTextures bool                `json:"inline_textures"`
}

type buildResponse struct {
	Status      viewer.State         `json:"status"`
	BuildID     string               `json:"build_id,omitempty"`
	Diagnostics compiler.Diagnostics `json:"diagnostics"`
	Scene       json.RawMessage      `json:"scene"`
	Textures    map[string]string    `json:"textures,omitempty"`
}

type buildError struct {
	Status      viewer.State     `json:"status"`
	Kind        viewer.ErrorKind `json:"kind"`
	Error       string           `json:"error"`
	Remediation []string         `json:"remediation,omitempty"`
	BuildID     string           `json:"build_id,omitempty"`
}

var (
	errEmptyBody          = errors.New("body required")
	errInvalidJSON        = errors.New("invalid JSON payload")
	errDescriptionMissing = errors.New("description required")
	errViewportTooLarge   = fmt.Errorf("viewport exceeds %dx%d", viewer.MaxSurfaceSize, viewer.MaxSurfaceSize)
)

// decode разбирает тело запроса. Отсутствующие поля settings берутся
// из настроек по умолчанию сервиса.
func (h *ViewerHandler) decode(c fiber.Ctx) (*buildRequest, error) {
	if len(c.Body()) == 0 {
		return nil, errEmptyBody
	}

	req := &buildRequest{Settings: h.defaults}
	if err := json.Unmarshal(c.Body(), req); err != nil {
		log.Printf("[BUILD] Decode error: %v", err)
		return nil, errInvalidJSON
	}
	if req.Description == nil {
		return nil, errDescriptionMissing
	}
	if req.Viewport.Width > viewer.MaxSurfaceSize || req.Viewport.Height > viewer.MaxSurfaceSize {
		return nil, errViewportTooLarge
	}
	req.Settings = req.Settings.Normalize()
	return req, nil
}

// probe: клиент, не заявивший возможности, считается ускоренным.
func (r *buildRequest) probe() viewer.Probe {
	if r.Capabilities == nil {
		return viewer.StaticProbe{Accelerated: true}
	}
	return viewer.StaticProbe{Accelerated: r.Capabilities.Accelerated, Renderer: r.Capabilities.Renderer}
}

func (h *ViewerHandler) seedFor(r *buildRequest) uint64 {
	if r.Seed != 0 {
		return r.Seed
	}
	return h.seed
}

// Build собирает сцену через просмотрщик и возвращает граф и диагностику.
func (h *ViewerHandler) Build(c fiber.Ctx) error {
	log.Printf("[BUILD] Received request")
	log.Printf("[BUILD] Content-Length: %d", len(c.Body()))

	req, err := h.decode(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	start := time.Now()
	v := viewer.New(
		viewer.WithProbe(req.probe()),
		viewer.WithSize(req.Viewport.Width, req.Viewport.Height),
		viewer.WithCompilerOptions(compiler.WithSeed(h.seedFor(req))),
	)
	defer func() {
		if err := v.Close(); err != nil {
			log.Printf("[BUILD] Close error: %v", err)
		}
	}()

	if err := v.Load(c.Context(), req.Description, req.Settings); err != nil {
		status := v.Status()
		entry := h.record(telemetry.Failure(string(status.Kind), err, time.Since(start)))
		log.Printf("[BUILD] %s failure: %v", status.Kind, err)

		code := http.StatusInternalServerError
		if status.Kind == viewer.ErrorCapability {
			code = http.StatusUnprocessableEntity
		}
		return c.Status(code).JSON(buildError{
			Status:      viewer.StateError,
			Kind:        status.Kind,
			Error:       status.Message,
			Remediation: status.Remediation,
			BuildID:     entry.ID,
		})
	}

	resp := buildResponse{Status: viewer.StateReady}
	err = v.Inspect(func(res *compiler.Result) error {
		resp.Diagnostics = res.Diagnostics

		data, err := json.Marshal(res.Scene)
		if err != nil {
			return err
		}
		resp.Scene = data

		if req.InlineTextures {
			resp.Textures, err = inlineTextures(res.Scene)
		}
		return err
	})
	if err != nil {
		log.Printf("[BUILD] Encode error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	entry := h.record(telemetry.FromDiagnostics(resp.Diagnostics, time.Since(start)))
	resp.BuildID = entry.ID

	log.Printf("[BUILD] Ready: generation=%s rooms=%s warnings=%d",
		resp.Diagnostics.Generation, resp.Diagnostics.RoomRatio(), len(resp.Diagnostics.Warnings))
	return c.JSON(resp)
}

// record пишет строку телеметрии; ошибка хранилища не ломает ответ.
func (h *ViewerHandler) record(e telemetry.Entry) telemetry.Entry {
	if h.store == nil {
		return e
	}
	saved, err := h.store.Record(context.Background(), e)
	if err != nil {
		log.Printf("[TELEMETRY] Record error: %v", err)
		return e
	}
	return saved
}

// inlineTextures кодирует пиксели всех текстур сцены в data URL по id.
func inlineTextures(s *scene.Scene) (map[string]string, error) {
	textures := make(map[string]string)

	var firstErr error
	add := func(t *scene.Texture) {
		if t == nil || firstErr != nil {
			return
		}
		if _, ok := textures[t.ID]; ok {
			return
		}
		url, err := t.DataURL()
		if err != nil {
			firstErr = err
			return
		}
		textures[t.ID] = url
	}

	s.Root.Traverse(func(n *scene.Node) {
		if n.Material != nil {
			add(n.Material.Map)
		}
		if n.Sprite != nil {
			add(n.Sprite.Image)
		}
	})
	return textures, firstErr
}
