package compiler

import (
	"fmt"

	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/scene"

	"cogentcore.org/core/math32"
)

// ============================================================
// Opening Placer (windows)
// ============================================================

const (
	paneDepth     = 0.05
	paneOpacity   = 0.4
	wallClearance = 0.01

	defaultWindowWidth  = 1.0
	defaultWindowHeight = 1.2
)

var (
	paneColor  = rgb(0xad, 0xd8, 0xe6)
	frameColor = rgb(0x44, 0x44, 0x44)
)

// WindowPlacement: положение стекла в локальных координатах комнаты.
type WindowPlacement struct {
	Position  math32.Vector3
	RotationY float32
}

// PlaceWindow сопоставляет стене локальную позицию стекла.
// north/south лежат в плоскости X-Y у z≈0 / z≈length (south развернута на 180°),
// east/west у x≈width / x≈0 с поворотом ±90°. Доля position откладывается
// вдоль свободной оси стены. ok == false для неизвестной стены.
func PlaceWindow(room models.Room, win models.Window) (WindowPlacement, bool) {
	w, h, l := float32(room.Width), float32(room.Height), float32(room.Length)
	t := float32(clampUnit(win.Position))
	y := h / 2

	switch win.Wall.Normalize() {
	case models.WallNorth:
		return WindowPlacement{Position: math32.Vec3(t*w, y, -wallClearance)}, true
	case models.WallSouth:
		return WindowPlacement{Position: math32.Vec3(t*w, y, l+wallClearance), RotationY: math32.Pi}, true
	case models.WallEast:
		return WindowPlacement{Position: math32.Vec3(w+wallClearance, y, t*l), RotationY: math32.Pi / 2}, true
	case models.WallWest:
		return WindowPlacement{Position: math32.Vec3(-wallClearance, y, t*l), RotationY: -math32.Pi / 2}, true
	}
	return WindowPlacement{}, false
}

func (b *build) placeWindows() {
	for i, win := range b.desc.Windows {
		entry, ok := b.rooms[win.Room]
		if !ok {
			if b.declared[win.Room] {
				// комната уже отброшена валидатором, предупреждение о ней есть
				Logger().Debug("window skipped with its room", "room", win.Room, "index", i)
			} else {
				b.warn("skipping window %d: room %q does not exist", i, win.Room)
			}
			continue
		}

		placement, ok := PlaceWindow(entry.room, win)
		if !ok {
			b.warn("skipping window %d in room %q: unknown wall %q", i, win.Room, win.Wall)
			continue
		}

		width, height := windowSize(entry.room, win)
		name := fmt.Sprintf("window:%s:%d", win.Room, i)

		pane := b.mesh(name, scene.RoleWindow, scene.Box(width, height, paneDepth), b.surface(paneColor, paneOpacity))
		pane.Position = placement.Position
		pane.RotationY = placement.RotationY
		b.own(entry.group, pane)

		frame := b.mesh(name+":frame", scene.RoleWindowFrame, scene.Edges(width, height, paneDepth), b.line(frameColor))
		frame.Position = placement.Position
		frame.RotationY = placement.RotationY
		b.own(entry.group, frame)

		b.diag.PlacedWindows++
	}
	Logger().Debug("windows placed", "count", b.diag.PlacedWindows)
}

// windowSize подставляет размеры по умолчанию и не дает стеклу выйти за стену.
func windowSize(room models.Room, win models.Window) (float32, float32) {
	width, height := win.Width, win.Height
	if width <= 0 {
		width = defaultWindowWidth
	}
	if height <= 0 {
		height = defaultWindowHeight
	}

	wall := room.Width
	if w := win.Wall.Normalize(); w == models.WallEast || w == models.WallWest {
		wall = room.Length
	}
	return float32(min(width, wall)), float32(min(height, room.Height))
}

func clampUnit(v float64) float64 {
	return max(0, min(1, v))
}
