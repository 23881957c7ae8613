package tether

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBeginDrag_Rejections(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	locked := placeCube(s, mgl64.Vec3{1, 0, 0})
	_ = s.Registry().SetLocked(locked.ID, true)
	s.Planes().OnPlaneEvent(floorPlane("floor", mgl64.Vec3{}, 1, 1))
	stray := NewModel("stray", CubeBounds(0.1))
	s.Root().AddChild(stray)

	tests := []struct {
		name string
		hit  *Entity
	}{
		{"nil", nil},
		{"locked", locked.Root},
		{"plane", s.Planes().Plane("floor").Entity},
		{"not an object", stray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if arb.BeginDrag(tt.hit, mgl64.Vec3{}) {
				t.Error("BeginDrag must be rejected")
			}
			if arb.Session() != nil {
				t.Error("no session expected")
			}
		})
	}

	if !arb.BeginDrag(obj.Root, mgl64.Vec3{}) {
		t.Fatal("BeginDrag on an unlocked object failed")
	}
	if arb.BeginDrag(obj.Root, mgl64.Vec3{}) {
		t.Error("a second drag must be rejected while a session is live")
	}
}

func TestDrag_SubPartMovesWholeObject(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	root, lid := newAssembly()
	obj := s.Registry().Insert(root, Primitive("box"), mgl64.Vec3{})
	lidLocal := lid.Position
	start := root.WorldPosition()

	if !arb.BeginDrag(lid, mgl64.Vec3{}) {
		t.Fatal("BeginDrag on a sub-part failed")
	}
	if arb.Session().Target != obj.ID {
		t.Errorf("target = %q, want %q", arb.Session().Target, obj.ID)
	}
	arb.UpdateDrag(mgl64.Vec3{1, 0, 0})

	if root.WorldPosition() == start {
		t.Error("the object root must move")
	}
	if lid.Position != lidLocal {
		t.Error("sub-parts keep their local transform")
	}
}

func TestDrag_SmoothingConverges(t *testing.T) {
	s, events := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	start := obj.Root.WorldPosition()

	arb.BeginDrag(obj.Root, mgl64.Vec3{0, 0, 0})
	arb.UpdateDrag(mgl64.Vec3{1, 0, 0})
	// One update covers the smoothing fraction of the distance.
	assertNear(t, "first step", obj.Root.WorldPosition().X()-start.X(), s.Config().SmoothingFactor)

	prev := math.Inf(1)
	for i := 0; i < 150; i++ {
		arb.UpdateDrag(mgl64.Vec3{1, 0, 0})
		d := obj.Root.WorldPosition().Sub(start.Add(mgl64.Vec3{1, 0, 0})).Len()
		if d > prev+1e-12 {
			t.Fatalf("distance grew from %v to %v", prev, d)
		}
		prev = d
	}
	if prev > 1e-9 {
		t.Errorf("remaining distance = %v, want converged", prev)
	}
	if n := countEvents(*events, EventDrag); n != 151 {
		t.Errorf("Drag events = %d, want 151", n)
	}
}

func TestDrag_SnapsToPlane(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	s.Planes().OnPlaneEvent(floorPlane("floor", mgl64.Vec3{}, 1, 1))
	obj := s.Registry().Insert(NewModel("cube", CubeBounds(0.2)), Primitive("cube"), mgl64.Vec3{})
	y := obj.Root.WorldPosition().Y()

	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	for i := 0; i < 200; i++ {
		arb.UpdateDrag(mgl64.Vec3{0.23, 0, -0.17})
	}
	assertVecNear(t, "snapped", obj.Root.WorldPosition(), mgl64.Vec3{0.2, y, -0.2}, 1e-9)
}

func TestDrag_PhysicsRestored(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	_ = s.Registry().SetPhysicsEnabled(obj.ID, true)

	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	if obj.Physics() != PhysicsKinematic || !obj.Grabbed() {
		t.Error("a grabbed object is kinematic")
	}
	arb.EndDrag()
	if obj.Physics() != PhysicsDynamic || obj.Grabbed() {
		t.Error("release restores dynamic physics")
	}
	if arb.State() != StateIdle {
		t.Errorf("state = %v, want idle", arb.State())
	}
	if arb.EndDrag() {
		t.Error("EndDrag while idle must return false")
	}
}

func TestDrag_RemovalCancelsSession(t *testing.T) {
	s, events := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	other := placeCube(s, mgl64.Vec3{1, 0, 0})

	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	s.RemoveObject(other.ID)
	if arb.Session() == nil {
		t.Fatal("removing an unrelated object must keep the session")
	}

	s.RemoveObject(obj.ID)
	if arb.Session() != nil {
		t.Fatal("removing the target must end the session")
	}
	if arb.UpdateDrag(mgl64.Vec3{1, 0, 0}) {
		t.Error("UpdateDrag after removal must be ignored")
	}
	if countEvents(*events, EventGestureCancelled) != 1 {
		t.Error("expected GestureCancelled")
	}
	// The cancel is reported before the removal.
	var order []EventType
	for _, e := range *events {
		if e.ObjectID == obj.ID && (e.Type == EventGestureCancelled || e.Type == EventObjectRemoved) {
			order = append(order, e.Type)
		}
	}
	if len(order) != 2 || order[0] != EventGestureCancelled {
		t.Errorf("event order = %v", order)
	}
}

func TestScale_PinchSequence(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	if err := arb.BeginScale(obj.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		factor float64
		want   float64
	}{
		{1.0, 1},
		{2.0, 2},
		{10.0, 5},
		{0.01, 0.05},
	}
	for _, tt := range tests {
		arb.UpdateScale(tt.factor)
		assertVecNear(t, "scale", obj.Root.Scale, mgl64.Vec3{tt.want, tt.want, tt.want}, 1e-12)
	}
	if arb.State() != StateScaling {
		t.Errorf("state = %v, want scaling", arb.State())
	}
}

func TestScale_Monotonic(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	_ = arb.BeginScale(obj.ID)

	prev := 0.0
	for f := 0.0; f <= 8; f += 0.25 {
		arb.UpdateScale(f)
		if obj.Root.Scale.X() < prev {
			t.Fatalf("scale decreased at factor %v", f)
		}
		prev = obj.Root.Scale.X()
	}
}

func TestScale_IgnoresNaN(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	_ = arb.BeginScale(obj.ID)
	arb.UpdateScale(2)

	if arb.UpdateScale(math.NaN()) {
		t.Error("a NaN factor must be rejected")
	}
	assertVecNear(t, "scale", obj.Root.Scale, mgl64.Vec3{2, 2, 2}, 1e-12)

	arb.EndScale()
	_ = arb.BeginRotate(obj.ID)
	before := obj.Root.Orientation
	if arb.UpdateRotate(math.NaN()) || obj.Root.Orientation != before {
		t.Error("a NaN rotate delta must be rejected")
	}
}

func TestScale_BaselinePerRefinement(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	arb.BeginDrag(obj.Root, mgl64.Vec3{})

	_ = arb.BeginScale(obj.ID)
	arb.UpdateScale(2)
	arb.EndScale()

	_ = arb.BeginScale(obj.ID)
	arb.UpdateScale(2)
	assertVecNear(t, "compounded", obj.Root.Scale, mgl64.Vec3{4, 4, 4}, 1e-12)
}

func TestRefinements_RequireDragTarget(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	other := placeCube(s, mgl64.Vec3{1, 0, 0})

	if !errors.Is(arb.BeginScale(obj.ID), ErrNotDragTarget) {
		t.Error("BeginScale while idle must fail")
	}
	if !errors.Is(arb.BeginRotate(obj.ID), ErrNotDragTarget) {
		t.Error("BeginRotate while idle must fail")
	}

	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	if !errors.Is(arb.BeginScale(other.ID), ErrNotDragTarget) {
		t.Error("BeginScale on another object must fail")
	}
	if !errors.Is(arb.BeginRotate(other.ID), ErrNotDragTarget) {
		t.Error("BeginRotate on another object must fail")
	}
	if arb.UpdateScale(2) || arb.UpdateRotate(1) {
		t.Error("updates without a refinement must be ignored")
	}
	if other.Root.Scale != (mgl64.Vec3{1, 1, 1}) {
		t.Error("other object must be untouched")
	}
}

func TestRotate(t *testing.T) {
	s, events := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	if err := arb.BeginRotate(obj.ID); err != nil {
		t.Fatal(err)
	}
	if arb.State() != StateRotating {
		t.Errorf("state = %v, want rotating", arb.State())
	}

	arb.UpdateRotate(0.1)
	want := 0.1 * s.Config().RotateSensitivity
	if got := yawOf(obj.Root.Orientation); math.Abs(got-want) > 1e-9 {
		t.Errorf("yaw = %v, want %v", got, want)
	}

	// Deltas are measured from the baseline, not accumulated.
	arb.UpdateRotate(0)
	if got := yawOf(obj.Root.Orientation); math.Abs(got) > 1e-9 {
		t.Errorf("yaw = %v, want 0", got)
	}
	if countEvents(*events, EventRotate) != 2 {
		t.Error("expected two Rotate events")
	}
}

func TestRefinement_FreezesDrag(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	_ = arb.BeginScale(obj.ID)

	before := obj.Root.WorldPosition()
	if arb.UpdateDrag(mgl64.Vec3{1, 0, 0}) {
		t.Error("UpdateDrag during a refinement must be ignored")
	}
	if obj.Root.WorldPosition() != before {
		t.Error("object moved during a refinement")
	}

	arb.EndScale()
	if arb.State() != StateDragging {
		t.Errorf("state = %v, want dragging", arb.State())
	}
	if !arb.UpdateDrag(mgl64.Vec3{1, 0, 0}) {
		t.Error("drag must resume after the refinement")
	}
}

func TestCancel_KeepsTransform(t *testing.T) {
	s, _ := newTestSpace(t)
	arb := s.Arbiter()
	obj := placeCube(s, mgl64.Vec3{})
	arb.BeginDrag(obj.Root, mgl64.Vec3{})
	arb.UpdateDrag(mgl64.Vec3{1, 0, 0})
	moved := obj.Root.WorldPosition()

	if !arb.Cancel() {
		t.Fatal("Cancel returned false")
	}
	if obj.Root.WorldPosition() != moved {
		t.Error("cancel must leave the object where the gesture put it")
	}
	if arb.Cancel() {
		t.Error("Cancel while idle must return false")
	}
}

func TestGestureState_String(t *testing.T) {
	tests := []struct {
		s    GestureState
		want string
	}{
		{StateIdle, "idle"},
		{StateDragging, "dragging"},
		{StateScaling, "scaling"},
		{StateRotating, "rotating"},
		{GestureState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
