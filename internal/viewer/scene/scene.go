package scene

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// ============================================================
// Scene
// ============================================================

// Scene: корень графа одной сборки. Все узлы и ресурсы принадлежат
// поколению Arena и освобождаются вместе с ним в Teardown.
type Scene struct {
	Generation string     `json:"generation"`
	Root       *Node      `json:"root"`
	Background color.RGBA `json:"background"`
	Camera     Camera     `json:"camera"`
	Controls   Controls   `json:"controls"`

	arena *Arena
}

func New(arena *Arena) *Scene {
	return &Scene{
		Generation: arena.Generation().String(),
		Root:       NewGroup("scene", ""),
		arena:      arena,
	}
}

func (s *Scene) Arena() *Arena {
	return s.arena
}

func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Bounds: AABB всех построенных объектов сцены.
func (s *Scene) Bounds() math32.Box3 {
	return s.Root.Bounds()
}

// Count возвращает количество узлов с данной ролью.
func (s *Scene) Count(role Role) int {
	return len(s.Root.Collect(func(n *Node) bool { return n.Role == role }))
}

// Teardown отцепляет граф от корня и освобождает арену поколения.
func (s *Scene) Teardown() {
	if s == nil {
		return
	}
	s.Root.Traverse(func(n *Node) {
		n.Material = nil
		n.Sprite = nil
	})
	s.Root.Detach()
	if s.arena != nil {
		s.arena.Release()
	}
}
