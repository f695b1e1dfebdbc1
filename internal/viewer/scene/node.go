package scene

import (
	"cogentcore.org/core/math32"
)

// ============================================================
// Scene graph nodes
// ============================================================

type NodeKind int

const (
	KindGroup NodeKind = iota
	KindMesh
	KindEdges
	KindSprite
	KindLight
	KindGrid
	KindAxes
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindEdges:
		return "edges"
	case KindSprite:
		return "sprite"
	case KindLight:
		return "light"
	case KindGrid:
		return "grid"
	case KindAxes:
		return "axes"
	default:
		return "unknown"
	}
}

func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Role описывает назначение узла внутри плана.
type Role string

const (
	RoleRoom        Role = "room"
	RoleWalls       Role = "walls"
	RoleOutline     Role = "outline"
	RoleFloor       Role = "floor"
	RoleFurnishing  Role = "furnishing"
	RoleWindow      Role = "window"
	RoleWindowFrame Role = "window-frame"
	RoleLabel       Role = "label"
	RoleDimensions  Role = "dimensions"
	RoleDoor        Role = "door"
	RoleConnector   Role = "connector"
	RoleGrid        Role = "grid"
	RoleGridLabel   Role = "grid-label"
	RoleOrigin      Role = "origin"
	RoleAxes        Role = "axes"
	RoleAxisLabel   Role = "axis-label"
	RoleLight       Role = "light"
)

type Node struct {
	Name  string   `json:"name"`
	Kind  NodeKind `json:"kind"`
	Role  Role     `json:"role"`
	Owner string   `json:"owner,omitempty"` // имя комнаты, которой принадлежит узел

	Position  math32.Vector3 `json:"position"`
	RotationY float32        `json:"rotationY"`
	Visible   bool           `json:"visible"`

	Geometry *Geometry `json:"geometry,omitempty"`
	Material *Material `json:"material,omitempty"`
	Sprite   *Sprite   `json:"sprite,omitempty"`
	Light    *Light    `json:"light,omitempty"`

	Parent   *Node   `json:"-"`
	Children []*Node `json:"children,omitempty"`
}

func NewGroup(name string, role Role) *Node {
	return &Node{Name: name, Kind: KindGroup, Role: role, Visible: true}
}

func NewMesh(name string, role Role, geom Geometry, mat *Material) *Node {
	kind := KindMesh
	switch geom.Type {
	case GeometryEdges:
		kind = KindEdges
	case GeometryGrid:
		kind = KindGrid
	case GeometryAxes:
		kind = KindAxes
	}
	return &Node{Name: name, Kind: kind, Role: role, Visible: true, Geometry: &geom, Material: mat}
}

func NewSpriteNode(name string, role Role, sprite *Sprite) *Node {
	return &Node{Name: name, Kind: KindSprite, Role: role, Visible: true, Sprite: sprite}
}

func NewLightNode(name string, light *Light) *Node {
	return &Node{Name: name, Kind: KindLight, Role: RoleLight, Visible: true, Light: light}
}

// Add прикрепляет child к узлу, отцепляя его от прежнего родителя.
func (n *Node) Add(child *Node) {
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Detach отцепляет всех потомков.
func (n *Node) Detach() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
}

// Traverse обходит поддерево в глубину, начиная с самого узла.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Traverse(fn)
	}
}

func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Collect возвращает все узлы поддерева, для которых match вернул true.
func (n *Node) Collect(match func(*Node) bool) []*Node {
	var out []*Node
	n.Traverse(func(node *Node) {
		if match(node) {
			out = append(out, node)
		}
	})
	return out
}

func (n *Node) quat() math32.Quat {
	return math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), n.RotationY)
}

// WorldPosition возвращает позицию узла с учетом всех родителей.
func (n *Node) WorldPosition() math32.Vector3 {
	pos := math32.Vector3{}
	for p := n; p != nil; p = p.Parent {
		if p != n {
			pos = pos.MulQuat(p.quat())
		}
		pos = pos.Add(p.Position)
	}
	return pos
}

// WorldRotationY: суммарный поворот вокруг Y по цепочке родителей.
func (n *Node) WorldRotationY() float32 {
	var r float32
	for p := n; p != nil; p = p.Parent {
		r += p.RotationY
	}
	return r
}

// WorldBounds: AABB геометрии узла в мировых координатах.
// ok == false, если у узла нет геометрии.
func (n *Node) WorldBounds() (math32.Box3, bool) {
	var local math32.Box3
	switch {
	case n.Geometry != nil:
		local = n.Geometry.Bounds()
	case n.Sprite != nil:
		local = n.Sprite.Bounds()
	default:
		return math32.Box3{}, false
	}

	b := local
	for p := n; p != nil; p = p.Parent {
		if p.RotationY != 0 {
			b = b.MulQuat(p.quat())
		}
		b = b.Translate(p.Position)
	}
	return b, true
}

// Bounds: AABB всего поддерева.
func (n *Node) Bounds() math32.Box3 {
	box := math32.B3Empty()
	n.Traverse(func(node *Node) {
		if b, ok := node.WorldBounds(); ok {
			box.ExpandByBox(b)
		}
	})
	return box
}
