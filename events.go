package tether

import "github.com/go-gl/mathgl/mgl64"

// EventSink receives every space event. Implement this to bridge engine
// events into an ECS or a host message queue; see the ecs subpackage.
type EventSink interface {
	EmitEvent(event SpaceEvent)
}

// SpaceEvent carries the data of one engine event. Fields that do not apply
// to the event type are left zero.
type SpaceEvent struct {
	Type     EventType
	ObjectID ObjectID
	SourceID string
	PlaneID  string
	// EntityID is the ID of the object's root entity, or of the plane quad.
	EntityID uint32

	Position    mgl64.Vec3
	Scale       mgl64.Vec3
	Orientation mgl64.Quat

	Descriptor Descriptor
	Err        error
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(SpaceEvent)
}

type handlerRegistry struct {
	byType [eventTypeCount][]eventHandler
	nextID uint32
}

func (r *handlerRegistry) add(t EventType, fn func(SpaceEvent)) uint32 {
	r.nextID++
	r.byType[t] = append(r.byType[t], eventHandler{id: r.nextID, fn: fn})
	return r.nextID
}

func (r *handlerRegistry) fire(e SpaceEvent) {
	for _, h := range r.byType[e.Type] {
		h.fn(e)
	}
}

// CallbackHandle allows removing a registered space-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= eventTypeCount {
		return
	}
	h.reg.byType[h.event] = removeEventHandler(h.reg.byType[h.event], h.id)
}

func removeEventHandler(s []eventHandler, id uint32) []eventHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Space-level event registration ---

// On registers fn for every event of type t. Callbacks run on the update
// goroutine, after the state change they describe has been applied.
func (s *Space) On(t EventType, fn func(SpaceEvent)) CallbackHandle {
	if t >= eventTypeCount || fn == nil {
		return CallbackHandle{}
	}
	id := s.handlers.add(t, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: t}
}

// SetEventSink attaches a sink that receives every event after the
// callbacks. Pass nil to detach.
func (s *Space) SetEventSink(sink EventSink) {
	s.sink = sink
}

// emit fires callbacks then the sink.
func (s *Space) emit(e SpaceEvent) {
	s.handlers.fire(e)
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}

// objectEvent fills the object fields of an event from a record.
func objectEvent(t EventType, obj *PlacedObject) SpaceEvent {
	e := SpaceEvent{Type: t}
	if obj == nil {
		return e
	}
	e.ObjectID = obj.ID
	e.SourceID = obj.SourceID
	e.Descriptor = obj.Descriptor
	if obj.Root != nil && !obj.Root.IsDisposed() {
		e.EntityID = obj.Root.ID
		e.Position = obj.Root.WorldPosition()
		e.Scale = obj.Root.Scale
		e.Orientation = obj.Root.Orientation
	}
	return e
}
