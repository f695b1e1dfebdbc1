package plan

import (
	"fmt"
	"html"
	"image/color"
	"strconv"
	"strings"

	"plan3d/internal/viewer/scene"
)

// ============================================================
// SVG Renderer
// ============================================================

const (
	DefaultScale   = 50 // пикселей на метр
	DefaultPadding = 20
)

type Renderer struct {
	Scale   float64
	Padding float64
}

func NewRenderer() *Renderer {
	return &Renderer{Scale: DefaultScale, Padding: DefaultPadding}
}

// SVG: план сцены с настройками по умолчанию.
func SVG(s *scene.Scene) (string, error) {
	return NewRenderer().Render(s)
}

// Render собирает SVG план из скомпилированной сцены.
func (r *Renderer) Render(s *scene.Scene) (string, error) {
	layout, err := Extract(s)
	if err != nil {
		return "", err
	}

	width := layout.Width()*r.Scale + 2*r.Padding
	height := layout.Height()*r.Scale + 2*r.Padding

	var elements []string
	for _, shape := range layout.Shapes {
		elements = append(elements, r.renderShape(layout, shape))
	}
	for _, shape := range layout.Shapes {
		if shape.Label != "" {
			elements = append(elements, r.renderLabel(layout, shape))
		}
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" data-generation="%s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height), s.Generation))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf(`  <rect width="100%%" height="100%%" fill="%s" />`, hexColor(s.Background)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderShape(layout Layout, shape Shape) string {
	fill := "none"
	opacity := ""
	if shape.Kind == ShapeRoom {
		fill = hexColor(shape.Fill)
		opacity = ` fill-opacity="0.6"`
	}
	dash := ""
	if shape.Kind == ShapeConnector {
		dash = ` stroke-dasharray="4 3"`
	}

	var path strings.Builder
	path.WriteString(`<path id="`)
	path.WriteString(html.EscapeString(shape.ID))
	path.WriteString(`" class="`)
	path.WriteString(string(shape.Kind))
	path.WriteString(`" d="M `)
	path.WriteString(r.formatPoint(layout, shape.Points[0]))
	for _, p := range shape.Points[1:] {
		path.WriteString(" L ")
		path.WriteString(r.formatPoint(layout, p))
	}
	path.WriteString(fmt.Sprintf(` Z" fill="%s"%s stroke="%s"%s />`, fill, opacity, hexColor(shape.Stroke), dash))
	return path.String()
}

func (r *Renderer) renderLabel(layout Layout, shape Shape) string {
	x, y := r.project(layout, shape.Center())
	return fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" font-family="sans-serif" font-size="12">%s</text>`,
		formatFloat(x), formatFloat(y), html.EscapeString(shape.Label))
}

// ============================================================
// Formatting helpers
// ============================================================

func (r *Renderer) project(layout Layout, p Point) (float64, float64) {
	return (p.X-layout.MinX)*r.Scale + r.Padding, (p.Y-layout.MinY)*r.Scale + r.Padding
}

func (r *Renderer) formatPoint(layout Layout, p Point) string {
	x, y := r.project(layout, p)
	return formatFloat(x) + " " + formatFloat(y)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', 2, 64)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
