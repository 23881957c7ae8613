package tether

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

// PlaneEventKind is the kind of a surface-detection update.
type PlaneEventKind uint8

const (
	PlaneAdded PlaneEventKind = iota
	PlaneUpdated
	PlaneRemoved
)

func (k PlaneEventKind) String() string {
	switch k {
	case PlaneAdded:
		return "added"
	case PlaneUpdated:
		return "updated"
	case PlaneRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Alignment selects which surfaces a detector reports.
type Alignment uint8

const (
	AlignHorizontal Alignment = iota
	AlignVertical
)

// PlaneEvent is one update from the surface-detection stream. Transform is
// the anchor of the surface centre; Extent is its width (local X) and depth
// (local Z).
type PlaneEvent struct {
	ID        string
	Kind      PlaneEventKind
	Transform Transform
	Extent    mgl64.Vec2
}

// planeColor is the tint of detected surfaces once faded in.
var planeColor = Color{0.3, 0.6, 1.0, 0.35}

// AnchorPlane is a detected surface with its snap grid.
type AnchorPlane struct {
	ID     string
	Extent mgl64.Vec2
	// Grid holds the cell centres in the plane's local frame (Y = 0), row by
	// row along local Z.
	Grid []mgl64.Vec3
	// Entity is the visual quad. It is a static collider.
	Entity *Entity

	cols, rows int
}

// Transform returns the anchor transform of the plane.
func (p *AnchorPlane) Transform() Transform {
	return p.Entity.Transform()
}

// PlaneManager maps detected surfaces to plane quads and snap grids.
type PlaneManager struct {
	world  *Entity
	cfg    *Config
	planes map[string]*AnchorPlane
	order  []string
	tweens *tweenSet
	log    *zerolog.Logger
	emit   func(SpaceEvent)
}

func newPlaneManager(world *Entity, cfg *Config, tweens *tweenSet, log *zerolog.Logger, emit func(SpaceEvent)) *PlaneManager {
	return &PlaneManager{
		world:  world,
		cfg:    cfg,
		planes: make(map[string]*AnchorPlane),
		tweens: tweens,
		log:    log,
		emit:   emit,
	}
}

// OnPlaneEvent applies one detector update. Add and update rebuild the quad
// and regenerate the grid in full; remove discards both. An update for an
// unknown id is treated as an add, a remove for an unknown id is ignored.
func (m *PlaneManager) OnPlaneEvent(ev PlaneEvent) {
	if ev.Kind == PlaneRemoved {
		m.remove(ev.ID)
		return
	}

	p, exists := m.planes[ev.ID]
	if !exists {
		quad := NewModel("plane:"+ev.ID, Bounds{})
		quad.Roles |= RolePlane
		quad.Collider = ColliderStatic
		quad.Physics = PhysicsKinematic
		quad.Color = planeColor
		quad.Color.A = 0
		m.world.AddChild(quad)
		if m.tweens != nil {
			m.tweens.add(TweenColor(quad, planeColor, float32(m.cfg.PlaneFadeIn), ease.OutQuad))
		}
		p = &AnchorPlane{ID: ev.ID, Entity: quad}
		m.planes[ev.ID] = p
		m.order = append(m.order, ev.ID)
	}

	t := ev.Transform
	if t.Scale == (mgl64.Vec3{}) {
		t.Scale = mgl64.Vec3{1, 1, 1}
	}
	if t.Orientation == (mgl64.Quat{}) {
		t.Orientation = mgl64.QuatIdent()
	}
	p.Entity.SetTransform(t)
	p.Entity.Bounds = Bounds{
		Min: mgl64.Vec3{-ev.Extent.X() / 2, 0, -ev.Extent.Y() / 2},
		Max: mgl64.Vec3{ev.Extent.X() / 2, 0, ev.Extent.Y() / 2},
	}
	p.Extent = ev.Extent
	p.cols, p.rows, p.Grid = buildGrid(ev.Extent, m.cfg.GridCellSize)

	kind := EventPlaneUpdated
	if !exists {
		kind = EventPlaneAdded
	}
	m.log.Debug().Str("plane", ev.ID).Int("cells", len(p.Grid)).Stringer("kind", ev.Kind).Msg("plane grid rebuilt")
	m.emit(SpaceEvent{Type: kind, PlaneID: ev.ID, EntityID: p.Entity.ID, Position: t.Position, Orientation: t.Orientation})
}

// buildGrid returns the column and row counts along local X and Z and the
// cell centres that lie within the extent. A count of n yields n+1 centres
// per axis, spaced by cell and centred on the origin.
func buildGrid(extent mgl64.Vec2, cell float64) (cols, rows int, grid []mgl64.Vec3) {
	cols = cellCount(extent.X(), cell)
	rows = cellCount(extent.Y(), cell)
	halfX := extent.X()/2 + 1e-9
	halfZ := extent.Y()/2 + 1e-9
	grid = make([]mgl64.Vec3, 0, (cols+1)*(rows+1))
	for r := 0; r <= rows; r++ {
		z := (float64(r) - float64(rows)/2) * cell
		if math.Abs(z) > halfZ {
			continue
		}
		for c := 0; c <= cols; c++ {
			x := (float64(c) - float64(cols)/2) * cell
			if math.Abs(x) > halfX {
				continue
			}
			grid = append(grid, mgl64.Vec3{x, 0, z})
		}
	}
	return cols, rows, grid
}

func cellCount(extent, cell float64) int {
	if extent <= 0 || cell <= 0 {
		return 0
	}
	return int(math.Floor(extent/cell + 1e-9))
}

// Snap moves a world position onto the nearest grid cell of the first plane,
// in detection order, whose footprint (grown by one cell) contains it. The
// local height is preserved. Positions near no plane are returned unchanged.
func (m *PlaneManager) Snap(world mgl64.Vec3) mgl64.Vec3 {
	cell := m.cfg.GridCellSize
	for _, id := range m.order {
		p := m.planes[id]
		local := p.Entity.WorldToLocal(world)
		if math.Abs(local.X()) > p.Extent.X()/2+cell || math.Abs(local.Z()) > p.Extent.Y()/2+cell {
			continue
		}
		x := snapAxis(local.X(), cell, p.cols)
		z := snapAxis(local.Z(), cell, p.rows)
		return p.Entity.LocalToWorld(mgl64.Vec3{x, local.Y(), z})
	}
	return world
}

// snapAxis rounds v to the nearest of the n+1 centres along one axis.
func snapAxis(v, cell float64, n int) float64 {
	half := float64(n) / 2
	idx := math.Round(v/cell + half)
	idx = mgl64.Clamp(idx, 0, float64(n))
	return (idx - half) * cell
}

func (m *PlaneManager) remove(id string) bool {
	p, ok := m.planes[id]
	if !ok {
		return false
	}
	entityID := p.Entity.ID
	p.Entity.Dispose()
	delete(m.planes, id)
	for i, oid := range m.order {
		if oid == id {
			copy(m.order[i:], m.order[i+1:])
			m.order[len(m.order)-1] = ""
			m.order = m.order[:len(m.order)-1]
			break
		}
	}
	m.log.Debug().Str("plane", id).Msg("plane removed")
	m.emit(SpaceEvent{Type: EventPlaneRemoved, PlaneID: id, EntityID: entityID})
	return true
}

// Clear discards every plane and grid.
func (m *PlaneManager) Clear() {
	ids := append([]string(nil), m.order...)
	for _, id := range ids {
		m.remove(id)
	}
}

// Plane returns the plane with the given id, or nil.
func (m *PlaneManager) Plane(id string) *AnchorPlane {
	return m.planes[id]
}

// Planes returns the known planes in detection order.
func (m *PlaneManager) Planes() []*AnchorPlane {
	out := make([]*AnchorPlane, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.planes[id])
	}
	return out
}

// Len returns the number of known planes.
func (m *PlaneManager) Len() int {
	return len(m.planes)
}
