package tether

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// GestureKind is the manipulation a session is currently applying.
type GestureKind uint8

const (
	GestureDrag GestureKind = iota
	GestureScale
	GestureRotate
)

func (k GestureKind) String() string {
	switch k {
	case GestureDrag:
		return "drag"
	case GestureScale:
		return "scale"
	case GestureRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// GestureState is the arbiter's state machine state.
type GestureState uint8

const (
	StateIdle GestureState = iota
	StateDragging
	StateScaling
	StateRotating
)

func (s GestureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateScaling:
		return "scaling"
	case StateRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// GestureSession is the single live manipulation. Scale and rotate are
// two-handed refinements of the drag that created the session.
type GestureSession struct {
	Kind   GestureKind
	Target ObjectID
	// Baseline is the target's transform when the drag began.
	Baseline     Transform
	StartPointer mgl64.Vec3
	// Delta is the pointer travel since StartPointer.
	Delta mgl64.Vec3

	obj  *PlacedObject
	root *Entity

	baselinePosition mgl64.Vec3

	scaling       bool
	baselineScale mgl64.Vec3

	rotating            bool
	baselineOrientation mgl64.Quat
}

// Arbiter resolves drag, scale and rotate gestures against at most one
// target. It runs on the update goroutine only.
type Arbiter struct {
	registry *Registry
	planes   *PlaneManager
	cfg      *Config
	session  *GestureSession
	log      *zerolog.Logger
	emit     func(SpaceEvent)
}

func newArbiter(registry *Registry, planes *PlaneManager, cfg *Config, log *zerolog.Logger, emit func(SpaceEvent)) *Arbiter {
	a := &Arbiter{registry: registry, planes: planes, cfg: cfg, log: log, emit: emit}
	registry.guard = a
	return a
}

// Session returns the live session, or nil when idle.
func (a *Arbiter) Session() *GestureSession {
	return a.session
}

// State returns the current state. A session that is both scaling and
// rotating reports StateScaling.
func (a *Arbiter) State() GestureState {
	switch {
	case a.session == nil:
		return StateIdle
	case a.session.scaling:
		return StateScaling
	case a.session.rotating:
		return StateRotating
	default:
		return StateDragging
	}
}

// --- Drag ---

// BeginDrag starts a drag on the placed object that owns hit. The whole
// object moves as a unit regardless of which part was hit. Planes, locked
// objects and entities outside any object are rejected, as is any call while
// a session is live. The target is forced kinematic until release.
func (a *Arbiter) BeginDrag(hit *Entity, pointer mgl64.Vec3) bool {
	if a.session != nil || hit == nil {
		return false
	}
	for p := hit; p != nil; p = p.Parent {
		if p.Roles&RolePlane != 0 {
			return false
		}
	}
	obj := a.registry.FindByEntity(hit)
	if obj == nil || obj.Locked {
		return false
	}

	root := obj.Root
	a.session = &GestureSession{
		Kind:             GestureDrag,
		Target:           obj.ID,
		Baseline:         root.Transform(),
		StartPointer:     pointer,
		obj:              obj,
		root:             root,
		baselinePosition: root.WorldPosition(),
	}
	obj.grabbed = true
	root.Physics = PhysicsKinematic

	a.log.Debug().Str("object", string(obj.ID)).Msg("drag started")
	a.emit(objectEvent(EventDragStart, obj))
	return true
}

// UpdateDrag moves the target toward baseline plus pointer travel, snapped
// to the nearest plane grid. The live position covers a fixed fraction of
// the remaining distance per call. Updates are ignored while a scale or
// rotate refinement is active.
func (a *Arbiter) UpdateDrag(pointer mgl64.Vec3) bool {
	s := a.session
	if s == nil || s.scaling || s.rotating {
		return false
	}
	s.Delta = pointer.Sub(s.StartPointer)
	target := a.planes.Snap(s.baselinePosition.Add(s.Delta))
	live := s.root.WorldPosition()
	live = live.Add(target.Sub(live).Mul(a.cfg.SmoothingFactor))
	s.root.SetWorldPosition(live)
	a.emit(objectEvent(EventDrag, s.obj))
	return true
}

// EndDrag releases the target. Physics returns to dynamic unless the object
// has physics disabled. Any refinement in flight ends with it.
func (a *Arbiter) EndDrag() bool {
	s := a.session
	if s == nil {
		return false
	}
	a.release()
	a.log.Debug().Str("object", string(s.Target)).Msg("drag ended")
	a.emit(objectEvent(EventDragEnd, s.obj))
	return true
}

// Cancel drops the live session. The target's physics mode is restored; its
// transform stays where the gesture left it.
func (a *Arbiter) Cancel() bool {
	s := a.session
	if s == nil {
		return false
	}
	a.release()
	a.log.Debug().Str("object", string(s.Target)).Msg("gesture cancelled")
	a.emit(objectEvent(EventGestureCancelled, s.obj))
	return true
}

func (a *Arbiter) release() {
	s := a.session
	a.session = nil
	s.obj.grabbed = false
	if !s.root.IsDisposed() {
		s.root.Physics = restingPhysics(s.obj)
	}
}

// cancelFor cancels the session if its target is root or related to it.
func (a *Arbiter) cancelFor(root *Entity) bool {
	if a.session == nil || !IsRelated(a.session.root, root) {
		return false
	}
	return a.Cancel()
}

// holds reports whether e belongs to the live session's target.
func (a *Arbiter) holds(e *Entity) bool {
	return a.session != nil && e.ManipulationRoot() == a.session.root
}

// --- Scale ---

// BeginScale starts a pinch refinement of the current drag target. The
// baseline scale is captured once per refinement.
func (a *Arbiter) BeginScale(id ObjectID) error {
	s := a.session
	if s == nil || s.Target != id {
		return ErrNotDragTarget
	}
	if s.scaling {
		return nil
	}
	s.scaling = true
	s.baselineScale = s.root.Scale
	s.Kind = GestureScale
	return nil
}

// UpdateScale sets the target's scale to baseline times the clamped pinch
// factor. A NaN factor is ignored.
func (a *Arbiter) UpdateScale(factor float64) bool {
	s := a.session
	if s == nil || !s.scaling || math.IsNaN(factor) {
		return false
	}
	f := mgl64.Clamp(factor, a.cfg.MinPinchFactor, a.cfg.MaxPinchFactor)
	s.root.Scale = s.baselineScale.Mul(f)
	a.emit(objectEvent(EventScale, s.obj))
	return true
}

// EndScale ends the pinch refinement. Physics is untouched.
func (a *Arbiter) EndScale() {
	s := a.session
	if s == nil || !s.scaling {
		return
	}
	s.scaling = false
	s.baselineScale = mgl64.Vec3{}
	s.Kind = a.refinementKind()
}

// --- Rotate ---

// BeginRotate starts a two-hand rotate refinement of the current drag target.
func (a *Arbiter) BeginRotate(id ObjectID) error {
	s := a.session
	if s == nil || s.Target != id {
		return ErrNotDragTarget
	}
	if s.rotating {
		return nil
	}
	s.rotating = true
	s.baselineOrientation = s.root.Orientation
	s.Kind = GestureRotate
	return nil
}

// UpdateRotate turns the target around the world vertical axis by the
// horizontal hand travel since the refinement began, scaled by the rotate
// sensitivity.
func (a *Arbiter) UpdateRotate(horizontalDelta float64) bool {
	s := a.session
	if s == nil || !s.rotating || math.IsNaN(horizontalDelta) || math.IsInf(horizontalDelta, 0) {
		return false
	}
	yaw := mgl64.QuatRotate(horizontalDelta*a.cfg.RotateSensitivity, WorldUp)
	s.root.Orientation = yaw.Mul(s.baselineOrientation).Normalize()
	a.emit(objectEvent(EventRotate, s.obj))
	return true
}

// EndRotate ends the rotate refinement.
func (a *Arbiter) EndRotate() {
	s := a.session
	if s == nil || !s.rotating {
		return
	}
	s.rotating = false
	s.baselineOrientation = mgl64.Quat{}
	s.Kind = a.refinementKind()
}

func (a *Arbiter) refinementKind() GestureKind {
	switch {
	case a.session.scaling:
		return GestureScale
	case a.session.rotating:
		return GestureRotate
	default:
		return GestureDrag
	}
}
