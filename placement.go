package tether

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
)

// PlacementRequest asks the space to instantiate content.
type PlacementRequest struct {
	// SourceID is the catalog id of the content in the requesting UI.
	SourceID    string
	Name        string
	Descriptor  Descriptor
	AppliedText string
	// Position is the world target. Nil places the object at the configured
	// default in front of the user.
	Position *mgl64.Vec3
	// PointAndPlace defers the placement until the user taps a location.
	PointAndPlace bool
}

// PendingPlacement is a point-and-place request waiting for a tap.
type PendingPlacement struct {
	Request PlacementRequest

	seq  uint64
	root *Entity     // realized entity, nil while loading
	at   *mgl64.Vec3 // tap position received before the load finished
}

// Loaded reports whether the entity has been realized.
func (p *PendingPlacement) Loaded() bool {
	return p.root != nil
}

// PlacementMenu is the short-lived choice menu opened by tapping an anchor
// point.
type PlacementMenu struct {
	Anchor    *Entity
	Position  mgl64.Vec3
	Remaining float64
}

// loadResult is the outcome of one asynchronous Realize.
type loadResult struct {
	seq  uint64
	req  PlacementRequest
	root *Entity
	err  error
}

// RequestPlacement starts realizing req.Descriptor on a load goroutine and
// returns immediately. The object is inserted on the first Update after the
// load completes, or, for point-and-place requests, on the tap that follows.
// A new point-and-place request replaces the pending one.
func (s *Space) RequestPlacement(req PlacementRequest) error {
	if s.closed {
		return ErrSpaceClosed
	}
	s.seq++
	seq := s.seq
	if req.PointAndPlace {
		s.CancelPending()
		s.pending = &PendingPlacement{Request: req, seq: seq}
		s.emit(SpaceEvent{Type: EventPlacementPending, SourceID: req.SourceID, Descriptor: req.Descriptor})
	}

	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		root, err := s.registry.Realize(s.ctx, req.Descriptor)
		s.loadMu.Lock()
		s.completed = append(s.completed, loadResult{seq: seq, req: req, root: root, err: err})
		s.loadMu.Unlock()
	}()
	return nil
}

// AwaitLoads blocks until every started load has completed, then adopts the
// results as Update would.
func (s *Space) AwaitLoads(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.loads.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.adoptLoads()
	return nil
}

// adoptLoads moves completed loads into the registry or the pending slot.
func (s *Space) adoptLoads() {
	s.loadMu.Lock()
	results := s.completed
	s.completed = nil
	s.loadMu.Unlock()

	for _, res := range results {
		s.adopt(res)
	}
}

func (s *Space) adopt(res loadResult) {
	isPending := s.pending != nil && s.pending.seq == res.seq

	if res.err != nil {
		s.log.Warn().Err(res.err).Str("source", res.req.SourceID).
			Stringer("descriptor", res.req.Descriptor).Msg("placement skipped")
		if isPending {
			s.pending = nil
		}
		s.emit(SpaceEvent{Type: EventPlacementFailed, SourceID: res.req.SourceID, Descriptor: res.req.Descriptor, Err: res.err})
		return
	}
	if s.closed {
		res.root.Dispose()
		return
	}

	if !res.req.PointAndPlace {
		pos := s.cfg.DefaultPlacement
		if res.req.Position != nil {
			pos = *res.req.Position
		}
		s.place(res.root, res.req, s.planes.Snap(pos))
		return
	}

	if !isPending {
		// Replaced or cancelled while loading.
		res.root.Dispose()
		return
	}
	if s.pending.at != nil {
		at := *s.pending.at
		s.pending = nil
		s.place(res.root, res.req, at)
		return
	}
	s.pending.root = res.root
}

func (s *Space) place(root *Entity, req PlacementRequest, pos mgl64.Vec3) *PlacedObject {
	return s.registry.insert(root, req.Descriptor, pos, objectMeta{
		SourceID:    req.SourceID,
		Name:        req.Name,
		AppliedText: req.AppliedText,
	})
}

// Pending returns the point-and-place request waiting for a tap, or nil.
func (s *Space) Pending() *PendingPlacement {
	return s.pending
}

// CancelPending drops the pending point-and-place request.
func (s *Space) CancelPending() {
	if s.pending == nil {
		return
	}
	if s.pending.root != nil {
		s.pending.root.Dispose()
	}
	s.pending = nil
}

// --- Tap-to-place ---

// Tap handles a tap at a world position. Tapping an anchor point opens the
// placement menu there; tapping anywhere else resolves the pending
// placement at the snapped position. Returns false when the tap did
// nothing.
func (s *Space) Tap(hit *Entity, world mgl64.Vec3) bool {
	for p := hit; p != nil; p = p.Parent {
		if p.Roles&RoleAnchorPoint != 0 {
			s.openMenu(p)
			return true
		}
	}
	if s.pending == nil {
		return false
	}
	at := s.planes.Snap(world)
	if s.pending.root == nil {
		s.pending.at = &at
		return true
	}
	p := s.pending
	s.pending = nil
	s.place(p.root, p.Request, at)
	return true
}

func (s *Space) openMenu(anchor *Entity) {
	if s.menu != nil {
		s.closeMenu()
	}
	s.menu = &PlacementMenu{
		Anchor:    anchor,
		Position:  anchor.WorldPosition(),
		Remaining: s.cfg.MenuLifetime,
	}
	s.emit(SpaceEvent{Type: EventPlacementMenuOpened, EntityID: anchor.ID, Position: s.menu.Position})
}

// Menu returns the open placement menu, or nil.
func (s *Space) Menu() *PlacementMenu {
	return s.menu
}

// ChooseFromMenu closes the menu and places req at the menu's anchor.
func (s *Space) ChooseFromMenu(req PlacementRequest) error {
	if s.menu == nil {
		return nil
	}
	pos := s.menu.Position
	s.closeMenu()
	req.Position = &pos
	req.PointAndPlace = false
	return s.RequestPlacement(req)
}

// CloseMenu dismisses the placement menu without a choice.
func (s *Space) CloseMenu() {
	if s.menu != nil {
		s.closeMenu()
	}
}

func (s *Space) closeMenu() {
	m := s.menu
	s.menu = nil
	s.emit(SpaceEvent{Type: EventPlacementMenuClosed, EntityID: m.Anchor.ID, Position: m.Position})
}

// expireMenu counts the menu's lifetime down by dt seconds.
func (s *Space) expireMenu(dt float64) {
	if s.menu == nil {
		return
	}
	s.menu.Remaining -= dt
	if s.menu.Remaining <= 0 {
		s.closeMenu()
	}
}
