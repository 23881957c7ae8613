package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/tether"
)

// SpaceEventType is the Donburi event type for tether space events.
// Subscribe to this in your ECS systems to receive placement, gesture and
// plane events.
var SpaceEventType = events.NewEventType[tether.SpaceEvent]()

// PlacedObject is the component mirroring one placed object.
type PlacedObject struct {
	ID          tether.ObjectID
	SourceID    string
	EntityID    uint32
	Position    mgl64.Vec3
	Scale       mgl64.Vec3
	Orientation mgl64.Quat
	Grabbed     bool
}

// PlacedObjectComponent is the Donburi component type of PlacedObject.
var PlacedObjectComponent = donburi.NewComponentType[PlacedObject]()

// DonburiSink is a tether.EventSink backed by a Donburi world.
type DonburiSink struct {
	world    donburi.World
	entities map[tether.ObjectID]donburi.Entity
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Space events are published to SpaceEventType and can be consumed with
// SpaceEventType.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world, entities: make(map[tether.ObjectID]donburi.Entity)}
}

// EmitEvent mirrors object events into components, then publishes the event.
func (s *DonburiSink) EmitEvent(event tether.SpaceEvent) {
	switch event.Type {
	case tether.EventObjectPlaced:
		e := s.world.Create(PlacedObjectComponent)
		s.entities[event.ObjectID] = e
		PlacedObjectComponent.SetValue(s.world.Entry(e), PlacedObject{
			ID:          event.ObjectID,
			SourceID:    event.SourceID,
			EntityID:    event.EntityID,
			Position:    event.Position,
			Scale:       event.Scale,
			Orientation: event.Orientation,
		})
	case tether.EventObjectRemoved:
		if e, ok := s.entities[event.ObjectID]; ok {
			if s.world.Valid(e) {
				s.world.Remove(e)
			}
			delete(s.entities, event.ObjectID)
		}
	case tether.EventDragStart, tether.EventDrag, tether.EventScale, tether.EventRotate:
		held := true
		s.update(event, &held)
	case tether.EventDragEnd, tether.EventGestureCancelled:
		held := false
		s.update(event, &held)
	case tether.EventObjectChanged:
		s.update(event, nil)
	}
	SpaceEventType.Publish(s.world, event)
}

// update copies the transform of event; grabbed is left as is when nil.
func (s *DonburiSink) update(event tether.SpaceEvent, grabbed *bool) {
	e, ok := s.entities[event.ObjectID]
	if !ok || !s.world.Valid(e) {
		return
	}
	obj := PlacedObjectComponent.Get(s.world.Entry(e))
	obj.Position = event.Position
	obj.Scale = event.Scale
	obj.Orientation = event.Orientation
	if grabbed != nil {
		obj.Grabbed = *grabbed
	}
}

// Entity returns the Donburi entity mirroring the placed object id.
func (s *DonburiSink) Entity(id tether.ObjectID) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		return donburi.Null, false
	}
	return e, true
}
