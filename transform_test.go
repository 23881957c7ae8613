package tether

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTransformMatrix_Identity(t *testing.T) {
	m := IdentityTransform.Matrix()
	if m != mgl64.Ident4() {
		t.Errorf("identity transform matrix = %v", m)
	}
}

func TestWorldPosition_ParentChain(t *testing.T) {
	root := NewEntity("root")
	parent := NewEntity("parent")
	parent.Position = mgl64.Vec3{1, 0, 0}
	parent.Scale = mgl64.Vec3{2, 2, 2}
	child := NewEntity("child")
	child.Position = mgl64.Vec3{0, 1, 0}
	root.AddChild(parent)
	parent.AddChild(child)

	assertVecNear(t, "child world", child.WorldPosition(), mgl64.Vec3{1, 2, 0}, epsilon)
	assertVecNear(t, "child world scale", child.WorldScale(), mgl64.Vec3{2, 2, 2}, epsilon)
}

func TestWorldPosition_Rotation(t *testing.T) {
	parent := NewEntity("parent")
	parent.Orientation = mgl64.QuatRotate(math.Pi/2, WorldUp)
	child := NewEntity("child")
	child.Position = mgl64.Vec3{1, 0, 0}
	parent.AddChild(child)

	// +X turned a quarter around +Y lands on -Z.
	assertVecNear(t, "rotated", child.WorldPosition(), mgl64.Vec3{0, 0, -1}, 1e-9)
}

func TestWorldToLocal_RoundTrip(t *testing.T) {
	e := NewEntity("e")
	e.Position = mgl64.Vec3{3, -1, 2}
	e.Orientation = mgl64.QuatRotate(0.7, WorldUp)
	e.Scale = mgl64.Vec3{2, 0.5, 3}

	p := mgl64.Vec3{0.3, 0.4, -0.9}
	got := e.LocalToWorld(e.WorldToLocal(p))
	assertVecNear(t, "round trip", got, p, 1e-9)
}

func TestWorldToLocal_SingularReturnsInput(t *testing.T) {
	e := NewEntity("flat")
	e.Scale = mgl64.Vec3{1, 0, 1}
	p := mgl64.Vec3{1, 2, 3}
	if got := e.WorldToLocal(p); got != p {
		t.Errorf("WorldToLocal on singular = %v, want %v", got, p)
	}
}

func TestSetWorldPosition_UnderParent(t *testing.T) {
	parent := NewEntity("parent")
	parent.Position = mgl64.Vec3{5, 0, 0}
	parent.Scale = mgl64.Vec3{2, 2, 2}
	child := NewEntity("child")
	parent.AddChild(child)

	child.SetWorldPosition(mgl64.Vec3{7, 4, 0})
	assertVecNear(t, "local", child.Position, mgl64.Vec3{1, 2, 0}, epsilon)
	assertVecNear(t, "world", child.WorldPosition(), mgl64.Vec3{7, 4, 0}, epsilon)
}

func TestVisualBounds(t *testing.T) {
	root, _ := newAssembly()
	root.Position = mgl64.Vec3{0, 1, 0}

	b, ok := root.VisualBounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	// Body spans 0.9..1.1; lid is centred at 1.15 with half edge 0.05.
	assertNear(t, "min y", b.Min.Y(), 0.9)
	assertNear(t, "max y", b.Max.Y(), 1.2)
	assertNear(t, "min x", b.Min.X(), -0.1)
}

func TestVisualBounds_ScaledAndRotated(t *testing.T) {
	e := NewModel("m", CubeBounds(1))
	e.Scale = mgl64.Vec3{2, 1, 1}
	e.Orientation = mgl64.QuatRotate(math.Pi/2, WorldUp)

	b, _ := e.VisualBounds()
	// The long axis now runs along Z.
	assertNear(t, "x extent", b.Size().X(), 1)
	assertNear(t, "z extent", b.Size().Z(), 2)
}

func TestVisualBounds_SkipsPanels(t *testing.T) {
	root := NewModel("obj", CubeBounds(0.2))
	panel := NewModel("panel", CubeBounds(0.5))
	panel.Roles |= RolePanel
	panel.Position = mgl64.Vec3{0, 1, 0}
	root.AddChild(panel)

	b, _ := root.VisualBounds()
	assertNear(t, "max y", b.Max.Y(), 0.1)
}

func TestVisualBounds_NoGeometry(t *testing.T) {
	if _, ok := NewEntity("group").VisualBounds(); ok {
		t.Error("group without renderable children has no bounds")
	}
}

func TestBoundsValid(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"zero", Bounds{}, false},
		{"cube", CubeBounds(1), true},
		{"flat", Bounds{Min: mgl64.Vec3{-1, 0, -1}, Max: mgl64.Vec3{1, 0, 1}}, true},
		{"inverted", Bounds{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{0, 0, 0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
