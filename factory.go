package tether

import "context"

// EntityFactory realizes a visual entity for a descriptor. Implementations
// may block on I/O; the space calls them off the update goroutine.
// The returned entity must not be attached to any tree.
type EntityFactory interface {
	CreateEntity(ctx context.Context, d Descriptor) (*Entity, error)
}

// EntityFactoryFunc adapts a function to EntityFactory.
type EntityFactoryFunc func(ctx context.Context, d Descriptor) (*Entity, error)

// CreateEntity calls f(ctx, d).
func (f EntityFactoryFunc) CreateEntity(ctx context.Context, d Descriptor) (*Entity, error) {
	return f(ctx, d)
}

// Access is an opened security-scoped reference. Close relinquishes it.
type Access interface {
	Close() error
}

// ReferenceResolver opens security-scoped bookmarks for sandboxed file access.
type ReferenceResolver interface {
	Resolve(ctx context.Context, bookmark []byte) (url string, access Access, err error)
}

// PanelFactory builds the floating control panel for a placed object.
// Returning nil leaves the object without a panel; it is asked again next tick.
type PanelFactory interface {
	NewPanel(obj *PlacedObject) *Entity
}

// PanelFactoryFunc adapts a function to PanelFactory.
type PanelFactoryFunc func(obj *PlacedObject) *Entity

// NewPanel calls f(obj).
func (f PanelFactoryFunc) NewPanel(obj *PlacedObject) *Entity {
	return f(obj)
}
