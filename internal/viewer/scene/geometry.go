package scene

import (
	"cogentcore.org/core/math32"
)

// ============================================================
// Geometry
// ============================================================

type GeometryType string

const (
	GeometryBox   GeometryType = "box"
	GeometryEdges GeometryType = "edges" // ребра бокса, для каркасной обводки
	GeometryPlane GeometryType = "plane" // горизонтальная плоскость в XZ
	GeometryGrid  GeometryType = "grid"
	GeometryAxes  GeometryType = "axes"
)

// Geometry описывает форму в локальных координатах узла.
// Box/Edges/Plane/Grid центрированы в начале координат, Axes идут от нуля по +X/+Y/+Z.
type Geometry struct {
	Type      GeometryType `json:"type"`
	Width     float32      `json:"width,omitempty"`
	Height    float32      `json:"height,omitempty"`
	Depth     float32      `json:"depth,omitempty"`
	Divisions int          `json:"divisions,omitempty"`
}

func Box(width, height, depth float32) Geometry {
	return Geometry{Type: GeometryBox, Width: width, Height: height, Depth: depth}
}

func Edges(width, height, depth float32) Geometry {
	return Geometry{Type: GeometryEdges, Width: width, Height: height, Depth: depth}
}

func Plane(width, depth float32) Geometry {
	return Geometry{Type: GeometryPlane, Width: width, Depth: depth}
}

func Grid(size float32, divisions int) Geometry {
	return Geometry{Type: GeometryGrid, Width: size, Depth: size, Divisions: divisions}
}

func Axes(size float32) Geometry {
	return Geometry{Type: GeometryAxes, Width: size, Height: size, Depth: size}
}

func (g Geometry) Bounds() math32.Box3 {
	if g.Type == GeometryAxes {
		return math32.B3(0, 0, 0, g.Width, g.Height, g.Depth)
	}
	hw, hh, hd := g.Width/2, g.Height/2, g.Depth/2
	return math32.B3(-hw, -hh, -hd, hw, hh, hd)
}
