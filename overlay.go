package tether

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// minPanelScale bounds each world-scale component before it is inverted.
const minPanelScale = 1e-4

// OverlaySync keeps each placed object's control panel attached once,
// scale-invariant, floating above the object and turned toward the viewer.
type OverlaySync struct {
	registry *Registry
	factory  PanelFactory
	cfg      *Config
	log      *zerolog.Logger
	emit     func(SpaceEvent)
}

func newOverlaySync(registry *Registry, cfg *Config, log *zerolog.Logger, emit func(SpaceEvent)) *OverlaySync {
	return &OverlaySync{registry: registry, cfg: cfg, log: log, emit: emit}
}

// Sync attaches missing panels and lays out every attached panel for a
// viewer at the given world position.
func (o *OverlaySync) Sync(viewer mgl64.Vec3) {
	for _, obj := range o.registry.Objects() {
		if obj.panel != nil && (obj.panel.IsDisposed() || obj.panel.Parent != obj.Root) {
			obj.panel = nil
		}
		if obj.panel == nil {
			o.attach(obj)
		}
		if obj.panel != nil {
			layoutPanel(obj, viewer, o.cfg.PanelClearance)
		}
	}
}

func (o *OverlaySync) attach(obj *PlacedObject) {
	if o.factory == nil {
		return
	}
	panel := o.factory.NewPanel(obj)
	if panel == nil {
		return
	}
	panel.Roles |= RolePanel
	obj.Root.AddChild(panel)
	obj.panel = panel
	o.log.Debug().Str("object", string(obj.ID)).Msg("panel attached")
	o.emit(objectEvent(EventPanelAttached, obj))
}

// layoutPanel places the panel at the object's world X/Z, clearance above
// its top bound, with unit world scale and a yaw facing the viewer.
func layoutPanel(obj *PlacedObject, viewer mgl64.Vec3, clearance float64) {
	root, panel := obj.Root, obj.panel

	ws := root.WorldScale()
	panel.Scale = mgl64.Vec3{
		1 / math.Max(math.Abs(ws.X()), minPanelScale),
		1 / math.Max(math.Abs(ws.Y()), minPanelScale),
		1 / math.Max(math.Abs(ws.Z()), minPanelScale),
	}

	origin := root.WorldPosition()
	top := origin.Y()
	if b, ok := root.VisualBounds(); ok {
		top = b.Max.Y()
	}
	world := mgl64.Vec3{origin.X(), top + clearance, origin.Z()}
	panel.Position = root.WorldToLocal(world)

	var yaw float64
	dx, dz := viewer.X()-world.X(), viewer.Z()-world.Z()
	if dx*dx+dz*dz > 1e-12 {
		yaw = math.Atan2(dx, dz)
	}
	facing := mgl64.QuatRotate(yaw, WorldUp)
	panel.Orientation = root.WorldOrientation().Inverse().Mul(facing).Normalize()
}
