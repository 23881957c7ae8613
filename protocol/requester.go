package protocol

import (
	"context"

	"github.com/phanxgames/tether"
)

// SpaceOpener asks the host to open the 3-D space. It returns once the
// request has been made, not when the space is ready.
type SpaceOpener interface {
	OpenSpace(ctx context.Context) error
}

// SpaceOpenerFunc adapts a function to SpaceOpener.
type SpaceOpenerFunc func(ctx context.Context) error

// OpenSpace calls f(ctx).
func (f SpaceOpenerFunc) OpenSpace(ctx context.Context) error {
	return f(ctx)
}

// Requester is the UI-side entry point of the protocol.
type Requester struct {
	bus    *Bus
	opener SpaceOpener
}

// NewRequester creates a requester publishing on bus. opener may be nil when
// the UI never opens the space itself.
func NewRequester(bus *Bus, opener SpaceOpener) *Requester {
	return &Requester{bus: bus, opener: opener}
}

// RequestPlacement publishes a placement request. If no space is ready it
// asks the opener to open one and waits for the ready acknowledgement first;
// ctx bounds the whole exchange.
func (r *Requester) RequestPlacement(ctx context.Context, msg PlaceObjectRequested) error {
	if err := r.ensureOpen(ctx); err != nil {
		return err
	}
	return r.bus.Publish(ctx, msg)
}

// RequestRemoval publishes a removal request.
func (r *Requester) RequestRemoval(ctx context.Context, id tether.ObjectID, deleteFromSource bool) error {
	return r.bus.Publish(ctx, RemoveObjectRequested{ID: id, DeleteFromSource: deleteFromSource})
}

// RequestScanToggle publishes a scan toggle.
func (r *Requester) RequestScanToggle(ctx context.Context, enabled bool) error {
	return r.bus.Publish(ctx, ScanSurfacesToggled{Enabled: enabled})
}

func (r *Requester) ensureOpen(ctx context.Context) error {
	if r.bus.Ready() {
		return nil
	}
	if r.opener == nil {
		return ErrNoOpener
	}
	if err := r.opener.OpenSpace(ctx); err != nil {
		return err
	}
	return r.bus.WaitReady(ctx)
}
