// Package protocol carries placement requests from UI surfaces into a
// tether.Space whose lifetime is independent of theirs.
//
// UI goroutines publish typed messages on a [Bus] through a [Requester]. The
// space side drains the bus once per tick with a [Pump], on the space's
// update goroutine. A UI that needs the space open asks a [SpaceOpener] and
// then waits for the pump's ready acknowledgement instead of sleeping.
package protocol

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/tether"
)

// Message is one request published on a Bus.
type Message interface {
	isMessage()
}

// PlaceObjectRequested asks the space to instantiate catalog content.
type PlaceObjectRequested struct {
	// ID is the catalog id of the content.
	ID          string
	Name        string
	Descriptor  tether.Descriptor
	AppliedText string
	// Position overrides the default in-front-of-user placement.
	Position *mgl64.Vec3
	// PointAndPlace waits for the user to tap a location.
	PointAndPlace bool
}

// RemoveObjectRequested asks the space to discard a placed object.
type RemoveObjectRequested struct {
	ID tether.ObjectID
	// DeleteFromSource also tells the catalog to forget the object's source.
	DeleteFromSource bool
}

// ScanSurfacesToggled starts or stops surface detection.
type ScanSurfacesToggled struct {
	Enabled bool
}

// ExportObjectRequested is emitted by the space side when a UI asks to
// export a placed object's current appearance.
type ExportObjectRequested struct {
	ObjectID    tether.ObjectID
	ResolvedURL string
	Filename    string
	Appearance  tether.Appearance
}

func (PlaceObjectRequested) isMessage()  {}
func (RemoveObjectRequested) isMessage() {}
func (ScanSurfacesToggled) isMessage()   {}
