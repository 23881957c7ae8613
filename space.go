package tether

import (
	"context"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// defaultViewer is the assumed head position until SetViewer is called.
var defaultViewer = mgl64.Vec3{0, 1.6, 0}

// pickTolerance lets flat boxes such as plane quads be picked.
const pickTolerance = 1e-3

// Space is the top-level object that owns the entity tree, the registry,
// detected planes, gesture state and control panels. All methods except
// RequestPlacement's load goroutines run on the caller's update goroutine.
type Space struct {
	root   *Entity
	cfg    *Config
	log    zerolog.Logger
	debug  bool
	sink   EventSink
	viewer mgl64.Vec3

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	registry *Registry
	planes   *PlaneManager
	scan     *ScanSession
	arbiter  *Arbiter
	overlay  *OverlaySync
	pointer  *PointerInput
	tweens   tweenSet

	handlers handlerRegistry

	// Placement state
	seq       uint64
	pending   *PendingPlacement
	menu      *PlacementMenu
	loads     sync.WaitGroup
	loadMu    sync.Mutex
	completed []loadResult

	// Scripted input
	injectQueue []PointerSample
	script      *InputScript
}

// NewSpace creates a space with an empty world root. factory realizes
// content descriptors; it may be nil for spaces that only insert
// pre-built entities.
func NewSpace(cfg Config, factory EntityFactory) *Space {
	c := cfg.withDefaults()
	s := &Space{
		root:   NewEntity("world"),
		cfg:    &c,
		log:    zerolog.Nop(),
		viewer: defaultViewer,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.registry = newRegistry(s.root, s.cfg, factory, &s.tweens, &s.log, s.emit)
	s.planes = newPlaneManager(s.root, s.cfg, &s.tweens, &s.log, s.emit)
	s.scan = newScanSession(s.ctx, s.planes, s.cfg.MaxPlaneEventsPerTick, &s.log, s.emit)
	s.arbiter = newArbiter(s.registry, s.planes, s.cfg, &s.log, s.emit)
	s.overlay = newOverlaySync(s.registry, s.cfg, &s.log, s.emit)
	s.pointer = newPointerInput(s)
	return s
}

// Root returns the world root entity.
func (s *Space) Root() *Entity {
	return s.root
}

// Config returns the effective configuration.
func (s *Space) Config() Config {
	return *s.cfg
}

// Registry returns the entity registry.
func (s *Space) Registry() *Registry {
	return s.registry
}

// Planes returns the plane and snap-grid manager.
func (s *Space) Planes() *PlaneManager {
	return s.planes
}

// Scan returns the surface-detection session control.
func (s *Space) Scan() *ScanSession {
	return s.scan
}

// Arbiter returns the gesture arbiter.
func (s *Space) Arbiter() *Arbiter {
	return s.arbiter
}

// Pointers returns the pointer input resolver.
func (s *Space) Pointers() *PointerInput {
	return s.pointer
}

// --- Collaborators ---

// SetResolver sets the resolver used for security-scoped references.
// Call before the first placement request.
func (s *Space) SetResolver(r ReferenceResolver) {
	s.registry.resolver = r
}

// SetDetector sets the surface detector. Scanning must be disabled.
func (s *Space) SetDetector(d SurfaceDetector) {
	s.scan.detector = d
}

// SetPanelFactory sets the factory for per-object control panels.
func (s *Space) SetPanelFactory(f PanelFactory) {
	s.overlay.factory = f
}

// SetLogger replaces the space's logger. The default discards everything.
func (s *Space) SetLogger(l zerolog.Logger) {
	s.log = l
	if s.debug {
		debugLogger = l
	}
}

// SetDebugMode enables tree sanity checks and per-tick statistics, logged at
// debug level.
func (s *Space) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled {
		debugLogger = s.log
	}
}

// SetViewer sets the world position panels turn toward.
func (s *Space) SetViewer(p mgl64.Vec3) {
	s.viewer = p
}

// AddTween hands a tween group to the space; it is advanced every Update
// until done.
func (s *Space) AddTween(g *TweenGroup) {
	if g != nil {
		s.tweens.add(g)
	}
}

// --- Tick ---

// Update advances the space by dt seconds: scripted and injected input,
// completed loads, detector updates, menu expiry, tweens, then panels.
func (s *Space) Update(dt float64) {
	if s.closed {
		return
	}
	var start time.Time
	if s.debug {
		start = time.Now()
	}

	if s.script != nil {
		s.script.step(s)
	}
	s.processInjectedInput()
	s.adoptLoads()
	planeEvents := s.scan.drain()
	s.expireMenu(dt)
	s.tweens.update(float32(dt), s.arbiter.holds)
	s.overlay.Sync(s.viewer)

	if s.debug {
		s.debugLog(debugStats{
			tickTime:    time.Since(start),
			objects:     s.registry.Len(),
			planes:      s.planes.Len(),
			planeEvents: planeEvents,
			tweens:      s.tweens.len(),
			state:       s.arbiter.State(),
		})
	}
}

// ProcessPointers feeds host pointer samples through the gesture pipeline.
func (s *Space) ProcessPointers(samples ...PointerSample) {
	if s.closed {
		return
	}
	s.pointer.Process(samples...)
}

// --- Commands ---

// RemoveObject discards a placed object. Unknown ids are ignored.
func (s *Space) RemoveObject(id ObjectID) bool {
	return s.registry.Remove(id)
}

// SetScanning starts or stops surface detection.
func (s *Space) SetScanning(ctx context.Context, enabled bool) error {
	if !enabled {
		s.scan.Disable()
		return nil
	}
	if s.closed {
		return ErrSpaceClosed
	}
	return s.scan.Enable(ctx)
}

// ExportSource re-resolves the content of a placed object for export and
// returns its location together with the remembered appearance. Primitives
// resolve to "primitive:<name>". Reference access is released before return.
func (s *Space) ExportSource(ctx context.Context, id ObjectID) (string, Appearance, error) {
	obj := s.registry.Get(id)
	if obj == nil {
		return "", Appearance{}, ErrObjectNotFound
	}
	a, _ := s.registry.Appearance(id)
	d := obj.Descriptor
	switch d.Kind {
	case ContentPrimitive:
		return d.String(), a, nil
	case ContentFile:
		return d.Path, a, nil
	case ContentReference:
		if s.registry.resolver == nil {
			return "", a, &AccessError{Descriptor: d, Err: ErrNotExportable}
		}
		url, access, err := s.registry.resolver.Resolve(ctx, d.Bookmark)
		if err != nil {
			return "", a, &AccessError{Descriptor: d, Err: err}
		}
		if access != nil {
			_ = access.Close()
		}
		return url, a, nil
	default:
		return "", a, ErrNotExportable
	}
}

// Pick returns the entity whose world bounds contain p. Later and deeper
// entities win, so a panel or anchor point is picked over the object under
// it. Returns nil when nothing is hit.
func (s *Space) Pick(p mgl64.Vec3) *Entity {
	var hit *Entity
	s.root.Walk(func(e *Entity) bool {
		if !e.Visible {
			return false
		}
		if !e.Renderable || !e.Bounds.Valid() {
			return true
		}
		b := transformBounds(e.WorldMatrix(), e.Bounds)
		tol := mgl64.Vec3{pickTolerance, pickTolerance, pickTolerance}
		b = Bounds{Min: b.Min.Sub(tol), Max: b.Max.Add(tol)}
		if b.Contains(p) {
			hit = e
		}
		return true
	})
	return hit
}

// Close cancels in-flight loads, ends any gesture or pending placement and
// stops scanning. Placed objects stay in the registry.
func (s *Space) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.pointer.Reset()
	s.arbiter.Cancel()
	s.CancelPending()
	s.CloseMenu()
	s.scan.Disable()
	s.injectQueue = nil
	s.script = nil
}
