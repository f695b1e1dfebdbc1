package compiler

import (
	"fmt"
	"math"

	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/scene"

	"cogentcore.org/core/math32"
)

// ============================================================
// Connector Resolver (doors / hallway stubs)
// ============================================================

const (
	// Epsilon: допуск сравнения координат стен, относительный к масштабу значений.
	Epsilon = 1e-6

	doorDepth         = 0.1
	defaultDoorWidth  = 0.9
	defaultDoorHeight = 2.1
	connectorOpacity  = 0.3
)

var (
	doorColor      = rgb(0x8b, 0x5a, 0x2b)
	connectorColor = rgb(0xcc, 0xcc, 0xcc)
)

type PlacementKind int

const (
	PlacementXAdjacent PlacementKind = iota
	PlacementZAdjacent
	PlacementConnector
)

func (k PlacementKind) String() string {
	switch k {
	case PlacementXAdjacent:
		return "x-adjacent"
	case PlacementZAdjacent:
		return "z-adjacent"
	case PlacementConnector:
		return "connector"
	default:
		return "unknown"
	}
}

// DoorPlacement: мировая позиция центра двери на полу (y не учитывается)
// и, для несмежных комнат, параметры соединительного объема.
type DoorPlacement struct {
	Kind      PlacementKind
	X, Z      float64
	RotationY float64

	// только для PlacementConnector
	Length float64 // расстояние между центрами комнат в плоскости XZ
	Angle  float64 // поворот вокруг Y, совмещающий локальную +Z с направлением from -> to
}

// ResolveDoor выбирает способ размещения двери: общая стена по X,
// общая стена по Z, иначе соединительный объем между центрами.
func ResolveDoor(from, to models.Room) DoorPlacement {
	if plane, ok := sharedPlane(from.X, from.Width, to.X, to.Width); ok {
		if lo, hi, ok := overlap(from.Z, from.Length, to.Z, to.Length); ok {
			return DoorPlacement{Kind: PlacementXAdjacent, X: plane, Z: (lo + hi) / 2, RotationY: math.Pi / 2}
		}
	}
	if plane, ok := sharedPlane(from.Z, from.Length, to.Z, to.Length); ok {
		if lo, hi, ok := overlap(from.X, from.Width, to.X, to.Width); ok {
			return DoorPlacement{Kind: PlacementZAdjacent, X: (lo + hi) / 2, Z: plane}
		}
	}

	fx, _, fz := from.Center()
	tx, _, tz := to.Center()
	dx, dz := tx-fx, tz-fz

	p := DoorPlacement{
		Kind:   PlacementConnector,
		X:      (fx + tx) / 2,
		Z:      (fz + tz) / 2,
		Length: math.Hypot(dx, dz),
		Angle:  math.Atan2(dx, dz),
	}
	// дверь стоит вдоль оси с меньшим смещением центров
	if math.Abs(dz) < math.Abs(dx) {
		p.RotationY = math.Pi / 2
	}
	return p
}

// sharedPlane проверяет, касаются ли отрезки [a, a+la] и [b, b+lb] концами.
func sharedPlane(a, la, b, lb float64) (float64, bool) {
	if almostEqual(a+la, b) {
		return b, true
	}
	if almostEqual(b+lb, a) {
		return a, true
	}
	return 0, false
}

// overlap возвращает пересечение отрезков, если оно длиннее допуска.
func overlap(a, la, b, lb float64) (float64, float64, bool) {
	lo := max(a, b)
	hi := min(a+la, b+lb)
	if hi-lo <= tolerance(lo, hi) {
		return 0, 0, false
	}
	return lo, hi, true
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance(a, b)
}

func tolerance(a, b float64) float64 {
	return Epsilon * max(1, math.Abs(a), math.Abs(b))
}

func (b *build) resolveDoors() {
	for i, door := range b.desc.Doors {
		from, okFrom := b.rooms[door.From]
		to, okTo := b.rooms[door.To]
		if !okFrom || !okTo {
			b.warn("skipping door %d (%q -> %q): %s", i, door.From, door.To, b.missing(door, okFrom, okTo))
			continue
		}
		if door.From == door.To {
			b.warn("skipping door %d: room %q cannot connect to itself", i, door.From)
			continue
		}

		b.placeDoor(i, door, from.room, to.room)
	}
	Logger().Debug("doors resolved", "placed", b.diag.PlacedDoors, "connectors", b.diag.Connectors)
}

func (b *build) missing(door models.Door, okFrom, okTo bool) string {
	describe := func(name string) string {
		if b.declared[name] {
			return fmt.Sprintf("room %q is invalid", name)
		}
		return fmt.Sprintf("room %q does not exist", name)
	}
	switch {
	case !okFrom && !okTo:
		return describe(door.From) + ", " + describe(door.To)
	case !okFrom:
		return describe(door.From)
	default:
		return describe(door.To)
	}
}

func (b *build) placeDoor(i int, door models.Door, from, to models.Room) {
	width, height := doorSize(door, from, to)
	placement := ResolveDoor(from, to)
	baseY := from.Y

	name := fmt.Sprintf("door:%d:%s-%s", i, door.From, door.To)
	node := b.mesh(name, scene.RoleDoor, scene.Box(float32(width), float32(height), doorDepth), b.surface(doorColor, 1))
	node.Position = math32.Vec3(float32(placement.X), float32(baseY+height/2), float32(placement.Z))
	node.RotationY = float32(placement.RotationY)
	b.scene.Add(node)
	b.diag.PlacedDoors++

	if placement.Kind != PlacementConnector {
		return
	}

	hall := b.mesh("connector:"+name, scene.RoleConnector,
		scene.Box(float32(width), float32(height), float32(placement.Length)),
		b.surface(connectorColor, connectorOpacity))
	hall.Position = node.Position
	hall.RotationY = float32(placement.Angle)
	b.scene.Add(hall)
	b.diag.Connectors++
}

// doorSize подставляет размеры по умолчанию; высота не больше самой низкой из комнат.
func doorSize(door models.Door, from, to models.Room) (float64, float64) {
	width, height := door.Width, door.Height
	if width <= 0 {
		width = defaultDoorWidth
	}
	if height <= 0 {
		height = defaultDoorHeight
	}
	return width, min(height, from.Height, to.Height)
}
