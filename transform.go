package tether

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a position, orientation and non-uniform scale triple.
type Transform struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Scale       mgl64.Vec3
}

// IdentityTransform has no translation, no rotation and unit scale.
var IdentityTransform = Transform{
	Orientation: mgl64.QuatIdent(),
	Scale:       mgl64.Vec3{1, 1, 1},
}

// Matrix returns the affine matrix of the transform.
//
// Composition order:
//
//	Scale -> Rotate -> Translate
func (t Transform) Matrix() mgl64.Mat4 {
	tr := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	sc := mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return tr.Mul4(t.Orientation.Mat4()).Mul4(sc)
}

// Transform returns the entity's local transform.
func (e *Entity) Transform() Transform {
	return Transform{Position: e.Position, Orientation: e.Orientation, Scale: e.Scale}
}

// SetTransform replaces the entity's local transform.
func (e *Entity) SetTransform(t Transform) {
	e.Position = t.Position
	e.Orientation = t.Orientation
	e.Scale = t.Scale
}

// SetPosition sets the entity's local position.
func (e *Entity) SetPosition(p mgl64.Vec3) {
	e.Position = p
}

// SetScale sets the entity's local scale.
func (e *Entity) SetScale(s mgl64.Vec3) {
	e.Scale = s
}

// SetOrientation sets the entity's local orientation.
func (e *Entity) SetOrientation(q mgl64.Quat) {
	e.Orientation = q
}

// localMatrix computes the local affine matrix from the entity's transform fields.
func (e *Entity) localMatrix() mgl64.Mat4 {
	return e.Transform().Matrix()
}

// WorldMatrix returns the entity's local-to-world matrix. It is computed from
// the parent chain on every call; trees are shallow and entities are mutated
// between queries within the same tick.
func (e *Entity) WorldMatrix() mgl64.Mat4 {
	m := e.localMatrix()
	for p := e.Parent; p != nil; p = p.Parent {
		m = p.localMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the entity's origin in world space.
func (e *Entity) WorldPosition() mgl64.Vec3 {
	return e.WorldMatrix().Col(3).Vec3()
}

// WorldOrientation returns the accumulated rotation of the entity.
func (e *Entity) WorldOrientation() mgl64.Quat {
	q := e.Orientation
	for p := e.Parent; p != nil; p = p.Parent {
		q = p.Orientation.Mul(q)
	}
	return q.Normalize()
}

// WorldScale returns the length of each world-space basis axis.
func (e *Entity) WorldScale() mgl64.Vec3 {
	m := e.WorldMatrix()
	return mgl64.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
}

// SetWorldPosition moves the entity so its origin lands on p in world space.
func (e *Entity) SetWorldPosition(p mgl64.Vec3) {
	if e.Parent == nil {
		e.Position = p
		return
	}
	e.Position = e.Parent.WorldToLocal(p)
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this entity's local coordinate space.
// A singular world matrix (a zero scale component) yields the input unchanged.
func (e *Entity) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	m := e.WorldMatrix()
	if math.Abs(m.Det()) < 1e-12 {
		return p
	}
	return m.Inv().Mul4x1(p.Vec4(1)).Vec3()
}

// LocalToWorld converts a local-space point to world-space.
func (e *Entity) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return e.WorldMatrix().Mul4x1(p.Vec4(1)).Vec3()
}

// VisualBounds returns the world-space box enclosing every renderable entity
// in the subtree. Control panels are excluded so that an attached panel does
// not push the object's top bound upward. ok is false when the subtree has no
// geometry.
func (e *Entity) VisualBounds() (b Bounds, ok bool) {
	e.Walk(func(n *Entity) bool {
		if n.Roles&RolePanel != 0 {
			return false
		}
		if !n.Renderable || !n.Bounds.Valid() {
			return true
		}
		wb := transformBounds(n.WorldMatrix(), n.Bounds)
		if !ok {
			b, ok = wb, true
		} else {
			b = b.Union(wb)
		}
		return true
	})
	return b, ok
}

// transformBounds maps the eight corners of b through m and returns their
// axis-aligned envelope.
func transformBounds(m mgl64.Mat4, b Bounds) Bounds {
	var out Bounds
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			corner[0] = b.Max.X()
		}
		if i&2 != 0 {
			corner[1] = b.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = b.Max.Z()
		}
		w := m.Mul4x1(corner.Vec4(1)).Vec3()
		if i == 0 {
			out = Bounds{Min: w, Max: w}
			continue
		}
		out = out.expand(w)
	}
	return out
}
