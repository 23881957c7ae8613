package tether

import (
	"errors"
	"fmt"
)

var (
	// ErrObjectNotFound is returned by registry mutators for unknown ids.
	ErrObjectNotFound = errors.New("tether: object not found")
	// ErrNotDragTarget is returned when a scale or rotate refinement targets
	// anything other than the current drag target.
	ErrNotDragTarget = errors.New("tether: not the active drag target")
	// ErrNoGeometry is wrapped by LoadError when a factory returns an entity
	// without renderable bounds.
	ErrNoGeometry = errors.New("tether: entity has no geometry")
	// ErrNoDetector is wrapped by SessionError when scanning is enabled on a
	// space without a SurfaceDetector.
	ErrNoDetector = errors.New("tether: no surface detector")
	// ErrNotExportable is returned for objects whose source cannot be re-resolved.
	ErrNotExportable = errors.New("tether: object source is not exportable")
	// ErrSpaceClosed is returned for placement requests made after Close.
	ErrSpaceClosed = errors.New("tether: space closed")
)

// LoadError reports that the entity factory could not produce geometry for a
// descriptor. Nothing is left in the registry.
type LoadError struct {
	Descriptor Descriptor
	Err        error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("tether: load %s: %v", e.Descriptor, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AccessError reports that a security-scoped reference could not be resolved
// or opened.
type AccessError struct {
	Descriptor Descriptor
	Err        error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("tether: access %s: %v", e.Descriptor, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// SessionError reports that the surface-detection session failed to start.
// Scanning is rolled back to disabled.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("tether: start surface detection: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
