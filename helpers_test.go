package tether

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVecNear(t *testing.T, name string, got, want mgl64.Vec3, eps float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

var errMissingModel = errors.New("model not found")

// testFactory builds a cube of edge 0.2 for every descriptor except the
// primitive "missing", which fails, and "empty", which has no geometry.
type testFactory struct {
	mu    sync.Mutex
	calls []Descriptor
}

func (f *testFactory) CreateEntity(ctx context.Context, d Descriptor) (*Entity, error) {
	f.mu.Lock()
	f.calls = append(f.calls, d)
	f.mu.Unlock()
	switch {
	case d.Kind == ContentPrimitive && d.Primitive == "missing":
		return nil, errMissingModel
	case d.Kind == ContentPrimitive && d.Primitive == "empty":
		return NewEntity("empty"), nil
	}
	return NewModel(d.String(), CubeBounds(0.2)), nil
}

// newAssembly returns a group with two cube parts, so that hits on a part
// must resolve to the group.
func newAssembly() (*Entity, *Entity) {
	root := NewEntity("assembly")
	body := NewModel("body", CubeBounds(0.2))
	lid := NewModel("lid", CubeBounds(0.1))
	lid.Position = mgl64.Vec3{0, 0.15, 0}
	root.AddChild(body)
	root.AddChild(lid)
	return root, lid
}

type testDetector struct {
	ch       chan PlaneEvent
	startErr error
	starts   int
	stops    int
	ctx      context.Context
}

func (d *testDetector) Start(ctx context.Context, align Alignment) (<-chan PlaneEvent, error) {
	d.starts++
	if d.startErr != nil {
		return nil, d.startErr
	}
	d.ctx = ctx
	d.ch = make(chan PlaneEvent, 16)
	return d.ch, nil
}

func (d *testDetector) Stop() {
	d.stops++
}

type testAccess struct {
	closed *int
}

func (a testAccess) Close() error {
	*a.closed++
	return nil
}

type testResolver struct {
	url    string
	err    error
	closed int
}

func (r *testResolver) Resolve(ctx context.Context, bookmark []byte) (string, Access, error) {
	if r.err != nil {
		return "", nil, r.err
	}
	return r.url, testAccess{closed: &r.closed}, nil
}

// newTestSpace returns a space with a cube factory and a recorder of every
// event type.
func newTestSpace(t *testing.T) (*Space, *[]SpaceEvent) {
	t.Helper()
	s := NewSpace(DefaultConfig(), &testFactory{})
	var events []SpaceEvent
	for et := EventType(0); et < eventTypeCount; et++ {
		s.On(et, func(e SpaceEvent) { events = append(events, e) })
	}
	t.Cleanup(s.Close)
	return s, &events
}

func countEvents(events []SpaceEvent, t EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// placeCube inserts a cube directly, bypassing the asynchronous path.
func placeCube(s *Space, at mgl64.Vec3) *PlacedObject {
	return s.Registry().Insert(NewModel("cube", CubeBounds(0.2)), Primitive("cube"), at)
}

func floorPlane(id string, at mgl64.Vec3, w, d float64) PlaneEvent {
	tr := IdentityTransform
	tr.Position = at
	return PlaneEvent{ID: id, Kind: PlaneAdded, Transform: tr, Extent: mgl64.Vec2{w, d}}
}
