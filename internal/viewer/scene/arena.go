package scene

import (
	"sync"

	"github.com/google/uuid"
)

// ============================================================
// Resource Arena
// ============================================================

// Arena владеет всеми ресурсами одной сборки (поколения): материалами,
// текстурами и геометрией. Освобождается целиком, а не по одному объекту.
type Arena struct {
	generation uuid.UUID

	mu         sync.Mutex
	materials  []*Material
	textures   []*Texture
	geometries int
	onRelease  []func()
	released   bool
}

type ArenaStats struct {
	Generation string `json:"generation"`
	Materials  int    `json:"materials"`
	Textures   int    `json:"textures"`
	Geometries int    `json:"geometries"`
	Released   bool   `json:"released"`
}

func NewArena() *Arena {
	return &Arena{generation: uuid.New()}
}

func (a *Arena) Generation() uuid.UUID {
	return a.generation
}

// Material регистрирует копию m в арене и возвращает ее.
func (a *Arena) Material(m Material) *Material {
	a.mu.Lock()
	defer a.mu.Unlock()

	mat := m
	mat.ID = uuid.NewString()
	a.materials = append(a.materials, &mat)
	return &mat
}

func (a *Arena) Texture(t *Texture) *Texture {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	a.textures = append(a.textures, t)
	return t
}

// Geometry учитывает геометрию, выделенную для поколения.
func (a *Arena) Geometry(g Geometry) Geometry {
	a.mu.Lock()
	a.geometries++
	a.mu.Unlock()
	return g
}

// OnRelease регистрирует хук, который вызовется при освобождении арены
// (например, выгрузка буферов из GPU поверхностью рендера).
func (a *Arena) OnRelease(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		fn()
		return
	}
	a.onRelease = append(a.onRelease, fn)
}

// Release освобождает все ресурсы поколения. Повторный вызов ничего не делает.
func (a *Arena) Release() {
	a.mu.Lock()
	if a.released {
		a.mu.Unlock()
		return
	}
	a.released = true
	hooks := a.onRelease
	a.onRelease = nil
	for _, t := range a.textures {
		t.Pix = nil
	}
	a.textures = nil
	a.materials = nil
	a.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

func (a *Arena) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}

func (a *Arena) Stats() ArenaStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return ArenaStats{
		Generation: a.generation.String(),
		Materials:  len(a.materials),
		Textures:   len(a.textures),
		Geometries: a.geometries,
		Released:   a.released,
	}
}
