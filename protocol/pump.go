package protocol

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/phanxgames/tether"
)

// Catalog is the external object library. Forget drops content the user
// deleted from a placed object's panel.
type Catalog interface {
	Forget(sourceID string) error
}

// Pump is the space-side end of a Bus. Call Start when the space opens,
// Drain once per tick before Space.Update, and Stop when it closes.
type Pump struct {
	bus     *Bus
	space   *tether.Space
	catalog Catalog
	log     zerolog.Logger
}

// NewPump creates a pump dispatching bus requests to space. catalog may be
// nil.
func NewPump(bus *Bus, space *tether.Space, catalog Catalog) *Pump {
	return &Pump{bus: bus, space: space, catalog: catalog, log: zerolog.Nop()}
}

// SetLogger replaces the pump's logger.
func (p *Pump) SetLogger(l zerolog.Logger) {
	p.log = l
}

// Start acknowledges readiness so waiting requesters publish.
func (p *Pump) Start() {
	p.bus.MarkReady()
	p.log.Debug().Msg("space ready")
}

// Stop withdraws the ready acknowledgement.
func (p *Pump) Stop() {
	p.bus.MarkClosed()
	p.log.Debug().Msg("space closed")
}

// Drain dispatches every queued request without blocking and returns how
// many were handled. Failures are logged; they do not stop the drain.
func (p *Pump) Drain(ctx context.Context) int {
	n := 0
	for {
		msg, ok := p.bus.next()
		if !ok {
			return n
		}
		if err := p.dispatch(ctx, msg); err != nil {
			p.log.Warn().Err(err).Str("message", fmt.Sprintf("%T", msg)).Msg("request failed")
		}
		n++
	}
}

func (p *Pump) dispatch(ctx context.Context, msg Message) error {
	switch m := msg.(type) {
	case PlaceObjectRequested:
		return p.space.RequestPlacement(tether.PlacementRequest{
			SourceID:      m.ID,
			Name:          m.Name,
			Descriptor:    m.Descriptor,
			AppliedText:   m.AppliedText,
			Position:      m.Position,
			PointAndPlace: m.PointAndPlace,
		})
	case RemoveObjectRequested:
		var source string
		if obj := p.space.Registry().Get(m.ID); obj != nil {
			source = obj.SourceID
		}
		p.space.RemoveObject(m.ID)
		if m.DeleteFromSource && p.catalog != nil && source != "" {
			if err := p.catalog.Forget(source); err != nil {
				return fmt.Errorf("forget source %s: %w", source, err)
			}
		}
		return nil
	case ScanSurfacesToggled:
		return p.space.SetScanning(ctx, m.Enabled)
	default:
		return fmt.Errorf("unknown message %T", msg)
	}
}

// RequestExport resolves the object's source and remembered appearance and
// publishes an ExportObjectRequested on the bus.
func (p *Pump) RequestExport(ctx context.Context, id tether.ObjectID, filename string) error {
	url, appearance, err := p.space.ExportSource(ctx, id)
	if err != nil {
		return err
	}
	return p.bus.publishExport(ExportObjectRequested{
		ObjectID:    id,
		ResolvedURL: url,
		Filename:    filename,
		Appearance:  appearance,
	})
}
