package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/tether"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	require.NotNil(t, sink)

	var _ tether.EventSink = sink
}

func TestDonburiSink_PublishesEvents(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []tether.SpaceEvent
	SpaceEventType.Subscribe(world, func(w donburi.World, e tether.SpaceEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(tether.SpaceEvent{Type: tether.EventPlaneAdded, PlaneID: "floor", EntityID: 42})
	sink.EmitEvent(tether.SpaceEvent{Type: tether.EventScanStopped})

	// Events are queued; process them.
	SpaceEventType.ProcessEvents(world)

	require.Len(t, received, 2)
	assert.Equal(t, tether.EventPlaneAdded, received[0].Type)
	assert.Equal(t, "floor", received[0].PlaneID)
	assert.Equal(t, uint32(42), received[0].EntityID)
	assert.Equal(t, tether.EventScanStopped, received[1].Type)
}

func TestDonburiSink_MirrorsObjectLifecycle(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	sink.EmitEvent(tether.SpaceEvent{
		Type:        tether.EventObjectPlaced,
		ObjectID:    "obj-1",
		SourceID:    "cube-src",
		Position:    mgl64.Vec3{0, 1.2, -1},
		Scale:       mgl64.Vec3{1, 1, 1},
		Orientation: mgl64.QuatIdent(),
	})
	e, ok := sink.Entity("obj-1")
	require.True(t, ok)
	obj := PlacedObjectComponent.Get(world.Entry(e))
	assert.Equal(t, "cube-src", obj.SourceID)
	assert.False(t, obj.Grabbed)

	sink.EmitEvent(tether.SpaceEvent{
		Type:     tether.EventDrag,
		ObjectID: "obj-1",
		Position: mgl64.Vec3{0.5, 1.2, -1},
		Scale:    mgl64.Vec3{2, 2, 2},
	})
	obj = PlacedObjectComponent.Get(world.Entry(e))
	assert.True(t, obj.Grabbed)
	assert.Equal(t, mgl64.Vec3{0.5, 1.2, -1}, obj.Position)
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, obj.Scale)

	sink.EmitEvent(tether.SpaceEvent{Type: tether.EventObjectChanged, ObjectID: "obj-1", Position: obj.Position})
	assert.True(t, PlacedObjectComponent.Get(world.Entry(e)).Grabbed, "changed keeps grab state")

	sink.EmitEvent(tether.SpaceEvent{Type: tether.EventDragEnd, ObjectID: "obj-1"})
	assert.False(t, PlacedObjectComponent.Get(world.Entry(e)).Grabbed)

	sink.EmitEvent(tether.SpaceEvent{Type: tether.EventObjectRemoved, ObjectID: "obj-1"})
	_, ok = sink.Entity("obj-1")
	assert.False(t, ok)
	assert.False(t, world.Valid(e))
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	SpaceEventType.Subscribe(world, func(w donburi.World, e tether.SpaceEvent) {
		count1++
	})
	SpaceEventType.Subscribe(world, func(w donburi.World, e tether.SpaceEvent) {
		count2++
	})

	sink.EmitEvent(tether.SpaceEvent{Type: tether.EventScanStarted})
	events.ProcessAllEvents(world)

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

func TestDonburiSink_WithSpace(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	space := tether.NewSpace(tether.DefaultConfig(), nil)
	space.SetEventSink(sink)

	obj := space.Registry().Insert(tether.NewModel("cube", tether.CubeBounds(0.2)), tether.Primitive("cube"), mgl64.Vec3{0, 1, 0})
	e, ok := sink.Entity(obj.ID)
	require.True(t, ok)
	assert.Equal(t, obj.Root.ID, PlacedObjectComponent.Get(world.Entry(e)).EntityID)

	space.RemoveObject(obj.ID)
	_, ok = sink.Entity(obj.ID)
	assert.False(t, ok)
}
