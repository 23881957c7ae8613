// Package tether is a spatial placement and interaction engine for mixed
// reality hosts.
//
// Tether owns the transforms of every object placed into a tracked physical
// space. It arbitrates drag, pinch-scale, two-hand rotate and tap-to-place
// gestures, builds snap grids over detected horizontal surfaces, keeps
// per-object control panels floating above their objects, and accepts
// placement requests from UI surfaces that live outside the 3-D scene (see
// the protocol subpackage).
//
// Rendering, physics simulation and model loading belong to the host. The
// engine consumes them through small interfaces: [EntityFactory],
// [ReferenceResolver], [SurfaceDetector] and [PanelFactory].
//
// # Quick start
//
//	space := tether.NewSpace(tether.DefaultConfig(), factory)
//	space.SetDetector(detector)
//	_ = space.SetScanning(ctx, true)
//	_ = space.RequestPlacement(tether.PlacementRequest{
//		Descriptor: tether.Primitive("cube"),
//	})
//
//	// once per frame, on the host's update goroutine:
//	space.ProcessPointers(samples...)
//	space.Update(dt)
//
// # Entities
//
// Every scene element is an [Entity]. Entities form a tree rooted at
// [Space.Root]. Children inherit their parent's transform. A placed object's
// root entity carries [RoleManipulationRoot]; gestures that hit any part of
// the object move the whole object.
//
// # Threading
//
// A Space is not safe for concurrent use. Factory loads run on goroutines
// started by [Space.RequestPlacement] and are adopted on the next
// [Space.Update]. Only the protocol Bus may be shared between goroutines.
//
// # Events
//
// Register callbacks with [Space.On], or attach an [EventSink] such as the
// [Donburi] adapter in tether/ecs to receive every [SpaceEvent].
//
// [Donburi]: https://github.com/yohamta/donburi
package tether
