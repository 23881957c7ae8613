package tether

import (
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

// ObjectID identifies a placed object. IDs are random UUIDs and are never
// reused within a process.
type ObjectID string

// NewObjectID returns a fresh object identifier.
func NewObjectID() ObjectID {
	return ObjectID(uuid.NewString())
}

// PlacedObject is the registry record of one object in the space.
type PlacedObject struct {
	ID          ObjectID
	SourceID    string // catalog id the requesting UI used; may be empty
	Name        string
	AppliedText string
	Descriptor  Descriptor

	// Root carries the object's world transform. It is a direct child of the
	// space's world root and is marked RoleManipulationRoot.
	Root *Entity

	Locked          bool
	PhysicsDisabled bool
	Sound           string
	Color           *Color
	Animating       bool

	grabbed bool
	panel   *Entity
	pivot   *Entity // spun by the idle animation; Root is never animated
	spin    *TweenGroup
}

// Physics returns the object's current physics mode.
func (o *PlacedObject) Physics() PhysicsMode {
	return o.Root.Physics
}

// Grabbed reports whether a gesture session currently holds the object.
func (o *PlacedObject) Grabbed() bool {
	return o.grabbed
}

// Panel returns the attached control panel, or nil.
func (o *PlacedObject) Panel() *Entity {
	return o.panel
}

// Appearance is the color and sound last applied to an object. It survives
// for as long as the object is registered.
type Appearance struct {
	Color *Color
	Sound string
}

// objectMeta is the request-side data copied onto a new record.
type objectMeta struct {
	SourceID    string
	Name        string
	AppliedText string
}

// sessionGuard lets the registry cancel a gesture before discarding its
// target.
type sessionGuard interface {
	cancelFor(root *Entity) bool
}

// Registry is the authoritative map from object ids to placed-object records.
// It is owned by a Space and must only be used from the update goroutine,
// except for Realize which is safe to call from load goroutines.
type Registry struct {
	world    *Entity
	cfg      *Config
	factory  EntityFactory
	resolver ReferenceResolver

	objects    map[ObjectID]*PlacedObject
	order      []ObjectID
	byRoot     map[*Entity]ObjectID
	appearance map[ObjectID]Appearance

	guard  sessionGuard
	tweens *tweenSet
	log    *zerolog.Logger
	emit   func(SpaceEvent)
}

func newRegistry(world *Entity, cfg *Config, factory EntityFactory, tweens *tweenSet, log *zerolog.Logger, emit func(SpaceEvent)) *Registry {
	return &Registry{
		world:      world,
		cfg:        cfg,
		factory:    factory,
		objects:    make(map[ObjectID]*PlacedObject),
		byRoot:     make(map[*Entity]ObjectID),
		appearance: make(map[ObjectID]Appearance),
		tweens:     tweens,
		log:        log,
		emit:       emit,
	}
}

// --- Placement ---

// Place realizes d and inserts it at position in one call. It blocks on the
// factory; Space.RequestPlacement is the non-blocking variant.
func (r *Registry) Place(ctx context.Context, d Descriptor, position mgl64.Vec3) (ObjectID, error) {
	root, err := r.Realize(ctx, d)
	if err != nil {
		r.log.Warn().Err(err).Stringer("descriptor", d).Msg("placement skipped")
		return "", err
	}
	return r.insert(root, d, position, objectMeta{}).ID, nil
}

// Realize asks the factory for the visual entity of d. Security-scoped
// references are opened through the resolver for the duration of the load.
// It touches no registry state and may run on any goroutine.
func (r *Registry) Realize(ctx context.Context, d Descriptor) (*Entity, error) {
	load := d
	if d.Kind == ContentReference {
		if r.resolver == nil {
			return nil, &AccessError{Descriptor: d, Err: errors.New("no reference resolver")}
		}
		url, access, err := r.resolver.Resolve(ctx, d.Bookmark)
		if err != nil {
			return nil, &AccessError{Descriptor: d, Err: err}
		}
		if access != nil {
			defer func() { _ = access.Close() }()
		}
		load = File(url)
	}
	if r.factory == nil {
		return nil, &LoadError{Descriptor: d, Err: errors.New("no entity factory")}
	}
	e, err := r.factory.CreateEntity(ctx, load)
	if err != nil {
		return nil, &LoadError{Descriptor: d, Err: err}
	}
	if e == nil {
		return nil, &LoadError{Descriptor: d, Err: ErrNoGeometry}
	}
	if _, ok := e.VisualBounds(); !ok {
		e.Dispose()
		return nil, &LoadError{Descriptor: d, Err: ErrNoGeometry}
	}
	return e, nil
}

// Insert registers an already realized entity at position. The entity's
// lower visual bound is lifted to position.Y plus the drop clearance. An
// entity that is already registered is left where it is and its existing
// record is returned.
func (r *Registry) Insert(root *Entity, d Descriptor, position mgl64.Vec3) *PlacedObject {
	return r.insert(root, d, position, objectMeta{})
}

func (r *Registry) insert(root *Entity, d Descriptor, position mgl64.Vec3, meta objectMeta) *PlacedObject {
	if id, ok := r.byRoot[root]; ok {
		r.log.Warn().Str("object", string(id)).Msg("entity already placed")
		return r.objects[id]
	}
	root.RemoveFromParent()
	root.Roles |= RoleManipulationRoot
	root.Physics = PhysicsKinematic
	root.Collider = ColliderBody
	r.world.AddChild(root)
	root.SetWorldPosition(position)
	if b, ok := root.VisualBounds(); ok {
		lift := position.Y() + r.cfg.DropClearance - b.Min.Y()
		root.SetWorldPosition(root.WorldPosition().Add(mgl64.Vec3{0, lift, 0}))
	}

	obj := &PlacedObject{
		ID:              NewObjectID(),
		SourceID:        meta.SourceID,
		Name:            meta.Name,
		AppliedText:     meta.AppliedText,
		Descriptor:      d,
		Root:            root,
		PhysicsDisabled: true,
	}
	r.objects[obj.ID] = obj
	r.order = append(r.order, obj.ID)
	r.byRoot[root] = obj.ID
	root.UserData = obj

	p := root.WorldPosition()
	r.log.Debug().Str("object", string(obj.ID)).Stringer("descriptor", d).
		Floats64("position", p[:]).Msg("object placed")
	r.emit(objectEvent(EventObjectPlaced, obj))
	return obj
}

// Remove detaches and discards the object. Any gesture session holding the
// object, or an entity related to it, is cancelled first. Returns false when
// the id is unknown.
func (r *Registry) Remove(id ObjectID) bool {
	obj, ok := r.objects[id]
	if !ok {
		return false
	}
	if r.guard != nil {
		r.guard.cancelFor(obj.Root)
	}
	if obj.spin != nil {
		obj.spin.Stop()
		obj.spin = nil
	}
	ev := objectEvent(EventObjectRemoved, obj)

	delete(r.objects, id)
	delete(r.byRoot, obj.Root)
	delete(r.appearance, id)
	for i, oid := range r.order {
		if oid == id {
			copy(r.order[i:], r.order[i+1:])
			r.order[len(r.order)-1] = ""
			r.order = r.order[:len(r.order)-1]
			break
		}
	}
	obj.Root.Dispose()
	obj.panel = nil

	r.log.Debug().Str("object", string(id)).Msg("object removed")
	r.emit(ev)
	return true
}

// --- Queries ---

// Get returns the record for id, or nil.
func (r *Registry) Get(id ObjectID) *PlacedObject {
	return r.objects[id]
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Objects returns the records in placement order.
func (r *Registry) Objects() []*PlacedObject {
	out := make([]*PlacedObject, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.objects[id])
	}
	return out
}

// FindByEntity returns the record owning e or any of its ancestors.
func (r *Registry) FindByEntity(e *Entity) *PlacedObject {
	if e == nil {
		return nil
	}
	root := e.ManipulationRoot()
	if root == nil {
		return nil
	}
	id, ok := r.byRoot[root]
	if !ok {
		return nil
	}
	return r.objects[id]
}

// --- Attribute mutators ---

// SetLocked enables or disables manipulation of the object.
func (r *Registry) SetLocked(id ObjectID, locked bool) error {
	obj, ok := r.objects[id]
	if !ok {
		return ErrObjectNotFound
	}
	if obj.Locked == locked {
		return nil
	}
	obj.Locked = locked
	r.changed(obj)
	return nil
}

// SetPhysicsEnabled switches the object between dynamic and kinematic. While
// the object is grabbed the mode stays kinematic; the new setting takes
// effect on release.
func (r *Registry) SetPhysicsEnabled(id ObjectID, enabled bool) error {
	obj, ok := r.objects[id]
	if !ok {
		return ErrObjectNotFound
	}
	if obj.PhysicsDisabled == !enabled {
		return nil
	}
	obj.PhysicsDisabled = !enabled
	if !obj.grabbed {
		obj.Root.Physics = restingPhysics(obj)
	}
	r.changed(obj)
	return nil
}

// restingPhysics is the mode an object has when no gesture holds it.
func restingPhysics(obj *PlacedObject) PhysicsMode {
	if obj.PhysicsDisabled {
		return PhysicsKinematic
	}
	return PhysicsDynamic
}

// SetColor recolors every renderable part of the object and remembers the
// color for ApplyAppearance.
func (r *Registry) SetColor(id ObjectID, c Color) error {
	obj, ok := r.objects[id]
	if !ok {
		return ErrObjectNotFound
	}
	recolor(obj.Root, c)
	if obj.Color != nil && *obj.Color == c {
		return nil
	}
	obj.Color = &c
	a := r.appearance[id]
	a.Color = &c
	r.appearance[id] = a
	r.changed(obj)
	return nil
}

// SetSound attaches a sound reference and remembers it for ApplyAppearance.
// An empty ref detaches the sound.
func (r *Registry) SetSound(id ObjectID, ref string) error {
	obj, ok := r.objects[id]
	if !ok {
		return ErrObjectNotFound
	}
	if obj.Sound == ref {
		return nil
	}
	obj.Sound = ref
	a := r.appearance[id]
	a.Sound = ref
	r.appearance[id] = a
	r.changed(obj)
	return nil
}

// SetAnimating starts or stops the idle spin of the object. The spin turns
// a pivot entity between Root and the object's geometry, so the object's
// transform itself never changes. The spin is paused while the object is
// grabbed.
func (r *Registry) SetAnimating(id ObjectID, on bool) error {
	obj, ok := r.objects[id]
	if !ok {
		return ErrObjectNotFound
	}
	if obj.Animating == on {
		return nil
	}
	obj.Animating = on
	if on {
		obj.spin = TweenYaw(spinPivot(obj), 2*math.Pi, float32(r.cfg.SpinPeriod), ease.Linear)
		obj.spin.Loop = true
		r.tweens.add(obj.spin)
	} else if obj.spin != nil {
		obj.spin.Stop()
		obj.spin = nil
	}
	r.changed(obj)
	return nil
}

// Appearance returns the remembered color and sound of the object.
func (r *Registry) Appearance(id ObjectID) (Appearance, bool) {
	a, ok := r.appearance[id]
	return a, ok
}

// ApplyAppearance recolors e with the remembered color of id. It is used on
// freshly re-resolved copies of an object's source.
func (r *Registry) ApplyAppearance(id ObjectID, e *Entity) bool {
	a, ok := r.appearance[id]
	if !ok || e == nil {
		return false
	}
	if a.Color != nil {
		recolor(e, *a.Color)
	}
	return true
}

// spinPivot returns the object's pivot, creating it on first use. Root's own
// geometry and every child except the control panel move beneath it.
func spinPivot(obj *PlacedObject) *Entity {
	if obj.pivot != nil && !obj.pivot.IsDisposed() {
		return obj.pivot
	}
	root := obj.Root
	pivot := NewEntity(obj.Name + ":pivot")
	if root.Renderable {
		pivot.Renderable, pivot.Bounds, pivot.Color = true, root.Bounds, root.Color
		root.Renderable, root.Bounds = false, Bounds{}
	}
	children := append([]*Entity(nil), root.Children()...)
	for _, c := range children {
		if c.Roles&RolePanel == 0 {
			pivot.AddChild(c)
		}
	}
	root.AddChild(pivot)
	obj.pivot = pivot
	return pivot
}

func (r *Registry) changed(obj *PlacedObject) {
	r.emit(objectEvent(EventObjectChanged, obj))
}

// recolor tints every renderable entity under e, skipping control panels.
func recolor(e *Entity, c Color) {
	e.Walk(func(n *Entity) bool {
		if n.Roles&RolePanel != 0 {
			return false
		}
		if n.Renderable {
			n.Color = c
		}
		return true
	})
}
