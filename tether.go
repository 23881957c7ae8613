package tether

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to an 8-bit premultiplied color for host renderers.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// RGBA returns the color as a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return c.toRGBA()
}

// WorldUp is the world vertical axis. Rotate gestures turn around it.
var WorldUp = mgl64.Vec3{0, 1, 0}

// Bounds is an axis-aligned box. The zero value holds no geometry.
type Bounds struct {
	Min, Max mgl64.Vec3
}

// Valid reports whether the box encloses any geometry. Flat boxes (such as a
// plane quad with zero height) are valid; a single point is not.
func (b Bounds) Valid() bool {
	if b.Max.X() < b.Min.X() || b.Max.Y() < b.Min.Y() || b.Max.Z() < b.Min.Z() {
		return false
	}
	return b.Min != b.Max
}

// Size returns the edge lengths of the box.
func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether p lies inside the box. Points on a face are inside.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Union returns the smallest box enclosing both b and other. An invalid box
// is treated as empty.
func (b Bounds) Union(other Bounds) Bounds {
	if !b.Valid() {
		return other
	}
	if !other.Valid() {
		return b
	}
	return Bounds{
		Min: mgl64.Vec3{min(b.Min.X(), other.Min.X()), min(b.Min.Y(), other.Min.Y()), min(b.Min.Z(), other.Min.Z())},
		Max: mgl64.Vec3{max(b.Max.X(), other.Max.X()), max(b.Max.Y(), other.Max.Y()), max(b.Max.Z(), other.Max.Z())},
	}
}

// expand grows b to include p. b must already be valid or freshly seeded.
func (b Bounds) expand(p mgl64.Vec3) Bounds {
	return Bounds{
		Min: mgl64.Vec3{min(b.Min.X(), p.X()), min(b.Min.Y(), p.Y()), min(b.Min.Z(), p.Z())},
		Max: mgl64.Vec3{max(b.Max.X(), p.X()), max(b.Max.Y(), p.Y()), max(b.Max.Z(), p.Z())},
	}
}

// CubeBounds returns a box of the given edge length centred on the origin.
func CubeBounds(edge float64) Bounds {
	h := edge / 2
	return Bounds{Min: mgl64.Vec3{-h, -h, -h}, Max: mgl64.Vec3{h, h, h}}
}

// PhysicsMode selects how the physics engine treats an entity.
type PhysicsMode uint8

const (
	PhysicsKinematic PhysicsMode = iota // fixed; moved only by the engine
	PhysicsDynamic                      // affected by gravity and collisions
)

func (m PhysicsMode) String() string {
	switch m {
	case PhysicsKinematic:
		return "kinematic"
	case PhysicsDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ColliderType distinguishes how an entity participates in collisions.
type ColliderType uint8

const (
	ColliderNone   ColliderType = iota // no collision shape
	ColliderStatic                     // immovable collider (detected surfaces)
	ColliderBody                       // rigid body driven by PhysicsMode
)

// ContentKind identifies what a Descriptor points at.
type ContentKind uint8

const (
	ContentPrimitive ContentKind = iota // built-in primitive tag ("cube", "sphere")
	ContentFile                         // resolved local file reference
	ContentReference                    // security-scoped reference resolved externally
)

func (k ContentKind) String() string {
	switch k {
	case ContentPrimitive:
		return "primitive"
	case ContentFile:
		return "file"
	case ContentReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Descriptor names the content an object is realized from.
type Descriptor struct {
	Kind      ContentKind
	Primitive string // ContentPrimitive
	Path      string // ContentFile
	Bookmark  []byte // ContentReference; opaque to the engine
}

// Primitive returns a descriptor for a built-in primitive.
func Primitive(name string) Descriptor {
	return Descriptor{Kind: ContentPrimitive, Primitive: name}
}

// File returns a descriptor for a local model file.
func File(path string) Descriptor {
	return Descriptor{Kind: ContentFile, Path: path}
}

// Reference returns a descriptor for a security-scoped bookmark.
func Reference(bookmark []byte) Descriptor {
	return Descriptor{Kind: ContentReference, Bookmark: bookmark}
}

func (d Descriptor) String() string {
	switch d.Kind {
	case ContentPrimitive:
		return "primitive:" + d.Primitive
	case ContentFile:
		return "file:" + d.Path
	case ContentReference:
		return "reference"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of space event.
type EventType uint8

const (
	EventObjectPlaced        EventType = iota // a placement resolved into a registry record
	EventPlacementFailed                      // the factory or resolver failed; nothing was placed
	EventPlacementPending                     // a point-and-place request is waiting for a tap
	EventPlacementMenuOpened                  // an anchor point was tapped
	EventPlacementMenuClosed                  // the menu expired or a choice was made
	EventObjectRemoved                        // a record was discarded
	EventObjectChanged                        // lock, physics, color, sound or animation changed
	EventDragStart                            // a drag session began
	EventDrag                                 // the drag target moved
	EventDragEnd                              // the drag session ended normally
	EventScale                                // a pinch refinement changed the scale
	EventRotate                               // a rotate refinement changed the orientation
	EventGestureCancelled                     // the session was dropped (target removed)
	EventPlaneAdded                           // a surface was detected
	EventPlaneUpdated                         // a surface's geometry changed
	EventPlaneRemoved                         // a surface was lost or scanning stopped
	EventScanStarted                          // surface detection started
	EventScanStopped                          // surface detection stopped
	EventScanFailed                           // surface detection could not start
	EventPanelAttached                        // a control panel was attached to an object
	eventTypeCount
)

var eventTypeNames = [...]string{
	"object-placed", "placement-failed", "placement-pending", "placement-menu-opened",
	"placement-menu-closed", "object-removed", "object-changed", "drag-start", "drag",
	"drag-end", "scale", "rotate", "gesture-cancelled", "plane-added", "plane-updated",
	"plane-removed", "scan-started", "scan-stopped", "scan-failed", "panel-attached",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}
