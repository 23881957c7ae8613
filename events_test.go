package tether

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type recordingSink struct {
	events []SpaceEvent
	order  *[]string
}

func (r *recordingSink) EmitEvent(e SpaceEvent) {
	r.events = append(r.events, e)
	if r.order != nil {
		*r.order = append(*r.order, "sink")
	}
}

func TestOn_CallbackThenSink(t *testing.T) {
	s := NewSpace(DefaultConfig(), nil)
	defer s.Close()
	var order []string
	s.On(EventObjectPlaced, func(SpaceEvent) { order = append(order, "callback") })
	sink := &recordingSink{order: &order}
	s.SetEventSink(sink)

	obj := placeCube(s, mgl64.Vec3{0, 1, 0})
	if len(order) != 2 || order[0] != "callback" || order[1] != "sink" {
		t.Errorf("order = %v, want [callback sink]", order)
	}
	e := sink.events[0]
	if e.Type != EventObjectPlaced || e.ObjectID != obj.ID || e.EntityID != obj.Root.ID {
		t.Errorf("event = %+v", e)
	}
	assertVecNear(t, "position", e.Position, obj.Root.WorldPosition(), 1e-12)
	if e.Descriptor.Kind != ContentPrimitive || e.Descriptor.Primitive != "cube" {
		t.Errorf("descriptor = %v", e.Descriptor)
	}

	s.SetEventSink(nil)
	placeCube(s, mgl64.Vec3{})
	if len(sink.events) != 1 {
		t.Error("detached sink must receive nothing")
	}
}

func TestCallbackHandle_Remove(t *testing.T) {
	s := NewSpace(DefaultConfig(), nil)
	defer s.Close()
	var a, b int
	ha := s.On(EventObjectRemoved, func(SpaceEvent) { a++ })
	s.On(EventObjectRemoved, func(SpaceEvent) { b++ })

	s.RemoveObject(placeCube(s, mgl64.Vec3{}).ID)
	ha.Remove()
	ha.Remove()
	s.RemoveObject(placeCube(s, mgl64.Vec3{}).ID)

	if a != 1 || b != 2 {
		t.Errorf("a = %d, b = %d; want 1 and 2", a, b)
	}
}

func TestOn_InvalidType(t *testing.T) {
	s := NewSpace(DefaultConfig(), nil)
	defer s.Close()
	h := s.On(eventTypeCount, func(SpaceEvent) {})
	h.Remove()
	h = s.On(EventDrag, nil)
	h.Remove()
}

func TestRemovedEvent_CarriesLastTransform(t *testing.T) {
	s, events := newTestSpace(t)
	obj := placeCube(s, mgl64.Vec3{1, 2, 3})
	pos := obj.Root.WorldPosition()
	rootID := obj.Root.ID
	s.RemoveObject(obj.ID)

	last := (*events)[len(*events)-1]
	if last.Type != EventObjectRemoved || last.EntityID != rootID {
		t.Fatalf("event = %+v", last)
	}
	assertVecNear(t, "position", last.Position, pos, 1e-12)
}

func TestEventType_String(t *testing.T) {
	if got := EventObjectPlaced.String(); got != "object-placed" {
		t.Errorf("got %q", got)
	}
	if got := EventPanelAttached.String(); got != "panel-attached" {
		t.Errorf("got %q", got)
	}
	if got := eventTypeCount.String(); got != "unknown" {
		t.Errorf("got %q", got)
	}
}
