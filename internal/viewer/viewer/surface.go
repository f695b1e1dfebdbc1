package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"plan3d/internal/viewer/plan"
	"plan3d/internal/viewer/scene"

	"github.com/gogpu/gg"
)

// ============================================================
// Render surface
// ============================================================

// Surface: поверхность вывода. Attach загружает ресурсы поколения,
// Detach выгружает их; Render вызывается из цикла кадров.
type Surface interface {
	Attach(s *scene.Scene) error
	Detach(generation string)
	Render(s *scene.Scene) error
	Resize(width, height int) error
	Close() error
}

// MaxSurfaceSize ограничивает каждую сторону поверхности: gg выделяет
// весь буфер w*h*4 сразу.
const MaxSurfaceSize = plan.MaxPreviewSize

// clampSize приводит размеры к [1, MaxSurfaceSize].
func clampSize(width, height int) (int, int) {
	return max(1, min(width, MaxSurfaceSize)), max(1, min(height, MaxSurfaceSize))
}

// RasterSurface рисует план сцены на CPU через gogpu/gg.
type RasterSurface struct {
	mu       sync.Mutex
	dc       *gg.Context
	attached map[string]scene.ArenaStats
	frames   uint64
}

func NewRasterSurface(width, height int) *RasterSurface {
	width, height = clampSize(width, height)
	return &RasterSurface{
		dc:       gg.NewContext(width, height),
		attached: make(map[string]scene.ArenaStats),
	}
}

func (r *RasterSurface) Attach(s *scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.attached[s.Generation]; ok {
		return fmt.Errorf("generation %s already attached", s.Generation)
	}
	r.attached[s.Generation] = s.Arena().Stats()
	return nil
}

func (r *RasterSurface) Detach(generation string) {
	r.mu.Lock()
	delete(r.attached, generation)
	r.mu.Unlock()
}

func (r *RasterSurface) Render(s *scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.attached[s.Generation]; !ok {
		return fmt.Errorf("generation %s is not attached", s.Generation)
	}
	err := plan.Draw(r.dc, s)
	if errors.Is(err, plan.ErrEmptyScene) {
		r.dc.ClearWithColor(gg.FromColor(s.Background))
		err = nil
	}
	if err != nil {
		return err
	}
	r.frames++
	return nil
}

func (r *RasterSurface) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	width, height = clampSize(width, height)
	return r.dc.Resize(width, height)
}

func (r *RasterSurface) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.attached)
	return r.dc.Close()
}

// Attached: число поколений, ресурсы которых держит поверхность.
func (r *RasterSurface) Attached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attached)
}

func (r *RasterSurface) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *RasterSurface) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dc.Width(), r.dc.Height()
}

// Snapshot кодирует последний кадр в PNG.
func (r *RasterSurface) Snapshot() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	if err := r.dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
