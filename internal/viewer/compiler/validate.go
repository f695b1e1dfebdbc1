package compiler

import (
	"fmt"
	"strings"

	"plan3d/internal/viewer/models"

	"cogentcore.org/core/math32"
)

// ============================================================
// Model Validator & Bounds
// ============================================================

const (
	gridStep    = 5
	gridScale   = 1.5
	minGridSpan = 20
)

// DefaultBounds: номинальный объем, когда ни одна комната не прошла проверку.
func DefaultBounds() math32.Box3 {
	return math32.B3(0, 0, 0, 10, 3, 10)
}

type Validation struct {
	Rooms    []models.Room // прошедшие проверку, в исходном порядке
	Total    int
	Bounds   math32.Box3
	Default  bool // Bounds == DefaultBounds(), потому что валидных комнат нет
	Warnings []string
}

// Validate отбирает комнаты с положительными габаритами и считает их общий AABB.
// Комнаты с повторяющимся именем после первой тоже пропускаются.
func Validate(desc *models.Description) Validation {
	v := Validation{Bounds: math32.B3Empty()}
	if desc == nil {
		v.Bounds, v.Default = DefaultBounds(), true
		return v
	}

	v.Total = len(desc.Rooms)
	seen := make(map[string]bool, len(desc.Rooms))
	for _, room := range desc.Rooms {
		if !room.Valid() {
			v.Warnings = append(v.Warnings, fmt.Sprintf("skipping room %s: dimensions must be positive", room))
			continue
		}
		if strings.TrimSpace(room.Name) == "" {
			v.Warnings = append(v.Warnings, fmt.Sprintf("skipping room %s: name is empty", room))
			continue
		}
		if seen[room.Name] {
			v.Warnings = append(v.Warnings, fmt.Sprintf("skipping room %s: duplicate name", room))
			continue
		}
		seen[room.Name] = true
		v.Rooms = append(v.Rooms, room)
		v.Bounds.ExpandByBox(RoomBounds(room))
	}

	if len(v.Rooms) == 0 {
		v.Bounds, v.Default = DefaultBounds(), true
	}
	return v
}

// RoomBounds: [x, x+width] × [y, y+height] × [z, z+length].
func RoomBounds(r models.Room) math32.Box3 {
	return math32.B3(
		float32(r.X), float32(r.Y), float32(r.Z),
		float32(r.X+r.Width), float32(r.Y+r.Height), float32(r.Z+r.Length),
	)
}

// GridSpan округляет больший горизонтальный размер вверх до кратного 5,
// умножает на 1.5 и не дает опуститься ниже минимального размера.
func GridSpan(bounds math32.Box3) float32 {
	size := bounds.Size()
	extent := math32.Max(size.X, size.Z)
	span := math32.Ceil(extent/gridStep) * gridStep * gridScale
	if span < minGridSpan {
		span = minGridSpan
	}
	return span
}
