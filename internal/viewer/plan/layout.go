// Package plan строит вид сверху (план этажа) уже собранной сцены:
// SVG для встраивания в интерфейс и PNG превью.
package plan

import (
	"errors"
	"image/color"
	"math"
	"sort"

	"plan3d/internal/viewer/scene"
)

// ============================================================
// Layout
// ============================================================

var ErrEmptyScene = errors.New("scene has no plan geometry")

type ShapeKind string

const (
	ShapeRoom      ShapeKind = "room"
	ShapeWindow    ShapeKind = "window"
	ShapeDoor      ShapeKind = "door"
	ShapeConnector ShapeKind = "connector"
)

// Point: точка плана в мировых координатах: X сцены и Z сцены.
type Point struct {
	X float64
	Y float64
}

type Shape struct {
	Kind   ShapeKind
	ID     string
	Label  string
	Points []Point
	Fill   color.RGBA
	Stroke color.RGBA
}

func (s Shape) Center() Point {
	var c Point
	for _, p := range s.Points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(s.Points))
	return Point{X: c.X / n, Y: c.Y / n}
}

// Layout: фигуры плана в порядке отрисовки: комнаты, проходы, двери, окна.
type Layout struct {
	Shapes     []Shape
	MinX, MinY float64
	MaxX, MaxY float64
}

func (l Layout) Width() float64  { return l.MaxX - l.MinX }
func (l Layout) Height() float64 { return l.MaxY - l.MinY }

var (
	windowStroke    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	doorStroke      = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	connectorStroke = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	roomStroke      = color.RGBA{A: 0xff}
)

var drawOrder = map[scene.Role]int{
	scene.RoleWalls:     0,
	scene.RoleConnector: 1,
	scene.RoleDoor:      2,
	scene.RoleWindow:    3,
}

// Extract проецирует объемы комнат, проходов, дверей и окон на плоскость XZ.
func Extract(s *scene.Scene) (Layout, error) {
	if s == nil || s.Root == nil {
		return Layout{}, errors.New("scene is nil")
	}

	nodes := s.Root.Collect(func(n *scene.Node) bool {
		_, ok := drawOrder[n.Role]
		return ok && n.Geometry != nil
	})
	sort.SliceStable(nodes, func(i, j int) bool {
		return drawOrder[nodes[i].Role] < drawOrder[nodes[j].Role]
	})

	layout := Layout{
		MinX: math.MaxFloat64, MinY: math.MaxFloat64,
		MaxX: -math.MaxFloat64, MaxY: -math.MaxFloat64,
	}
	for _, n := range nodes {
		shape := Shape{
			ID:     n.Name,
			Points: footprint(n),
		}
		switch n.Role {
		case scene.RoleWalls:
			shape.Kind, shape.Label, shape.Stroke = ShapeRoom, n.Owner, roomStroke
			if n.Material != nil {
				shape.Fill = n.Material.Color
			}
		case scene.RoleConnector:
			shape.Kind, shape.Stroke = ShapeConnector, connectorStroke
		case scene.RoleDoor:
			shape.Kind, shape.Stroke = ShapeDoor, doorStroke
		case scene.RoleWindow:
			shape.Kind, shape.Stroke = ShapeWindow, windowStroke
		}

		for _, p := range shape.Points {
			layout.MinX = math.Min(layout.MinX, p.X)
			layout.MinY = math.Min(layout.MinY, p.Y)
			layout.MaxX = math.Max(layout.MaxX, p.X)
			layout.MaxY = math.Max(layout.MaxY, p.Y)
		}
		layout.Shapes = append(layout.Shapes, shape)
	}

	if len(layout.Shapes) == 0 {
		return Layout{}, ErrEmptyScene
	}
	return layout, nil
}

// footprint: четыре угла горизонтального сечения геометрии узла в мире.
func footprint(n *scene.Node) []Point {
	center := n.WorldPosition()
	return rectanglePoints(
		float64(center.X), float64(center.Z),
		float64(n.Geometry.Width), float64(n.Geometry.Depth),
		float64(n.WorldRotationY()),
	)
}

// rectanglePoints поворачивает прямоугольник вокруг центра на rotation
// радиан против часовой стрелки, если смотреть сверху с +Y.
func rectanglePoints(cx, cy, width, height, rotation float64) []Point {
	halfW := width / 2
	halfH := height / 2

	points := []Point{
		{X: cx - halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy + halfH},
		{X: cx - halfW, Y: cy + halfH},
	}

	if rotation == 0 {
		return points
	}

	sin := math.Sin(rotation)
	cos := math.Cos(rotation)

	for i, p := range points {
		dx := p.X - cx
		dy := p.Y - cy
		points[i] = Point{
			X: cx + dx*cos + dy*sin,
			Y: cy - dx*sin + dy*cos,
		}
	}

	return points
}
