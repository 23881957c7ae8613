// Package ecs provides ECS adapters for tether's space events.
//
// The primary adapter is [NewDonburiSink], which bridges space events
// (placement, removal, gestures, planes, scanning) into a [Donburi] world as
// typed events. Subscribe to [SpaceEventType] in your ECS systems to receive
// them. The sink also mirrors every placed object as a Donburi entity
// carrying a [PlacedObject] component, kept in sync with the space.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	space.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
