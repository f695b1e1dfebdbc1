package plan

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"plan3d/internal/viewer/scene"

	"github.com/gogpu/gg"
)

// ============================================================
// Raster preview
// ============================================================

const (
	MinPreviewSize = 64
	MaxPreviewSize = 4096
)

// Draw рисует план сцены на контексте, вписывая его в размер контекста.
func Draw(dc *gg.Context, s *scene.Scene) error {
	layout, err := Extract(s)
	if err != nil {
		return err
	}

	w, h := float64(dc.Width()), float64(dc.Height())
	pad := math.Min(w, h) * 0.05
	scale := math.Min((w-2*pad)/math.Max(layout.Width(), 1e-3), (h-2*pad)/math.Max(layout.Height(), 1e-3))
	offX := (w - layout.Width()*scale) / 2
	offY := (h - layout.Height()*scale) / 2
	project := func(p Point) (float64, float64) {
		return (p.X-layout.MinX)*scale + offX, (p.Y-layout.MinY)*scale + offY
	}

	dc.ClearWithColor(gg.FromColor(s.Background))

	var errs []error
	for _, shape := range layout.Shapes {
		trace(dc, shape.Points, project)
		if shape.Kind == ShapeRoom {
			fill := gg.FromColor(shape.Fill)
			dc.SetRGBA(fill.R, fill.G, fill.B, 0.6)
			errs = append(errs, dc.FillPreserve())
		}

		dc.SetColor(shape.Stroke)
		dc.SetLineWidth(strokeWidth(shape.Kind))
		if shape.Kind == ShapeConnector {
			dc.SetDash(4, 3)
		}
		errs = append(errs, dc.Stroke())
		dc.ClearDash()
	}
	return errors.Join(errs...)
}

// PNG рендерит превью плана size×size пикселей.
func PNG(s *scene.Scene, size int) ([]byte, error) {
	size = max(MinPreviewSize, min(MaxPreviewSize, size))

	dc := gg.NewContext(size, size)
	defer dc.Close()

	if err := Draw(dc, s); err != nil {
		return nil, fmt.Errorf("draw plan: %w", err)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func trace(dc *gg.Context, points []Point, project func(Point) (float64, float64)) {
	x, y := project(points[0])
	dc.MoveTo(x, y)
	for _, p := range points[1:] {
		x, y = project(p)
		dc.LineTo(x, y)
	}
	dc.ClosePath()
}

func strokeWidth(kind ShapeKind) float64 {
	switch kind {
	case ShapeDoor, ShapeWindow:
		return 3
	default:
		return 1.5
	}
}
