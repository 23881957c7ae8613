package tether

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// Role is a bitmask of behaviors the engine attaches to an entity.
type Role uint8

const (
	RoleManipulationRoot Role = 1 << iota // gestures move this entity and its subtree as a unit
	RolePlane                             // visual quad of a detected surface; never a gesture target
	RoleAnchorPoint                       // tapping it opens the placement menu
	RolePanel                             // floating control panel; excluded from visual bounds
)

// entityIDCounter is atomic because factories build entities on load
// goroutines.
var entityIDCounter atomic.Uint32

func nextEntityID() uint32 {
	return entityIDCounter.Add(1)
}

// Entity is the scene graph element. Placed objects, plane quads, anchor
// points and control panels are all entities under the space's world root.
type Entity struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Entity
	children []*Entity

	// Transform (local)
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Scale       mgl64.Vec3

	// Bounds is the local-space box of this entity's own geometry. Groups
	// leave it zero.
	Bounds Bounds

	// Visibility & appearance
	Visible    bool
	Renderable bool
	Color      Color

	// Physics
	Collider ColliderType
	Physics  PhysicsMode

	Roles Role

	// Metadata
	UserData any

	disposed bool
}

func entityDefaults(e *Entity) {
	e.ID = nextEntityID()
	e.Orientation = mgl64.QuatIdent()
	e.Scale = mgl64.Vec3{1, 1, 1}
	e.Color = ColorWhite
	e.Visible = true
}

// NewEntity creates a group entity with no geometry of its own.
func NewEntity(name string) *Entity {
	e := &Entity{Name: name}
	entityDefaults(e)
	return e
}

// NewModel creates a renderable entity whose geometry occupies bounds.
// Factories use it for primitives and loaded model parts.
func NewModel(name string, bounds Bounds) *Entity {
	e := &Entity{Name: name, Bounds: bounds, Renderable: true}
	entityDefaults(e)
	return e
}

// NewAnchorPoint creates a small renderable marker that opens the placement
// menu when tapped.
func NewAnchorPoint(name string) *Entity {
	e := NewModel(name, CubeBounds(0.04))
	e.Roles |= RoleAnchorPoint
	return e
}

// Has reports whether every bit of r is set on the entity.
func (e *Entity) Has(r Role) bool {
	return e.Roles&r == r
}

// --- Tree manipulation ---

// AddChild appends child to this entity's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this entity (cycle).
func (e *Entity) AddChild(child *Entity) {
	if child == nil {
		panic("tether: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(e, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, e) {
		panic("tether: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(e)
	}
}

// RemoveChild detaches child from this entity.
// Panics if child.Parent != e.
func (e *Entity) RemoveChild(child *Entity) {
	if child.Parent != e {
		panic("tether: child's parent is not this entity")
	}
	e.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this entity from its parent.
// No-op if this entity has no parent.
func (e *Entity) RemoveFromParent() {
	if e.Parent == nil {
		return
	}
	e.Parent.RemoveChild(e)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Children() []*Entity {
	return e.children
}

// NumChildren returns the number of children.
func (e *Entity) NumChildren() int {
	return len(e.children)
}

// Walk visits e and its descendants depth-first. Returning false from fn
// skips the visited entity's subtree.
func (e *Entity) Walk(fn func(*Entity) bool) {
	if !fn(e) {
		return
	}
	for _, child := range e.children {
		child.Walk(fn)
	}
}

// ManipulationRoot returns the nearest ancestor-or-self marked with
// RoleManipulationRoot, or nil when the entity belongs to no placed object.
func (e *Entity) ManipulationRoot() *Entity {
	for p := e; p != nil; p = p.Parent {
		if p.Roles&RoleManipulationRoot != 0 {
			return p
		}
	}
	return nil
}

// IsRelated reports whether a and b are the same entity or one is an
// ancestor of the other.
func IsRelated(a, b *Entity) bool {
	if a == nil || b == nil {
		return false
	}
	return isAncestor(a, b) || isAncestor(b, a)
}

// --- Disposal ---

// Dispose removes this entity from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (e *Entity) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.dispose()
}

func (e *Entity) dispose() {
	e.disposed = true
	e.ID = 0
	for _, child := range e.children {
		child.Parent = nil
		child.dispose()
	}
	e.children = nil
	e.Parent = nil
	e.UserData = nil
}

// IsDisposed returns true if this entity has been disposed.
func (e *Entity) IsDisposed() bool {
	return e.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of (or is) node.
func isAncestor(candidate, node *Entity) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Entity) removeChildByPtr(child *Entity) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}
