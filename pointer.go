package tether

import "github.com/go-gl/mathgl/mgl64"

// --- Constants ---

const maxPointers = 10 // pointer 0 = primary hand or mouse, 1-9 = extra hands/touches

// PointerSample is the state of one pointer for one tick: a hand, a touch or
// a mouse ray already resolved to a world position and the entity it hits.
type PointerSample struct {
	ID       int
	Position mgl64.Vec3
	Pressed  bool
	Hit      *Entity
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	start    mgl64.Vec3
	last     mgl64.Vec3
	hit      *Entity
	dragging bool
	pinched  bool   // took part in a two-pointer gesture; release is not a tap
	pressSeq uint64 // press order across pointers
}

// --- Pinch state ---

type pinchState struct {
	active           bool
	pointer0         int
	pointer1         int
	initialDist      float64
	initialCentroidX float64
	refining         bool // scale and rotate refinements have begun
}

// PointerInput turns raw pointer samples into arbiter calls and taps. A
// press that travels beyond the dead zone begins a drag on the hit object;
// a press released without travel is a tap. While a drag is live, a second
// pointer going down starts scale and rotate refinements: the distance ratio
// of the two pointers is the pinch factor and the horizontal travel of
// their centroid is the rotate delta.
type PointerInput struct {
	space       *Space
	pointers    [maxPointers]pointerState
	pinch       pinchState
	dragPointer int
	presses     uint64
}

func newPointerInput(s *Space) *PointerInput {
	return &PointerInput{space: s, dragPointer: -1}
}

// Process feeds samples through the pointer state machine in order.
// Samples with an out-of-range ID are ignored.
func (in *PointerInput) Process(samples ...PointerSample) {
	for _, smp := range samples {
		if smp.ID < 0 || smp.ID >= maxPointers {
			continue
		}
		in.processPointer(smp)
		in.detectPinch()
	}
}

// processPointer runs the pointer state machine for a single pointer.
func (in *PointerInput) processPointer(smp PointerSample) {
	ps := &in.pointers[smp.ID]
	arb := in.space.arbiter

	switch {
	case smp.Pressed && !ps.down:
		// Just pressed.
		in.presses++
		*ps = pointerState{down: true, start: smp.Position, last: smp.Position, hit: smp.Hit, pressSeq: in.presses}

	case !smp.Pressed && ps.down:
		// Just released.
		if in.dragPointer == smp.ID {
			arb.EndDrag()
			in.dragPointer = -1
		} else if !ps.dragging && !ps.pinched {
			in.space.Tap(ps.hit, smp.Position)
		}
		*ps = pointerState{last: smp.Position}

	case smp.Pressed && ps.down:
		// Held down, possibly moved.
		if smp.Position != ps.last {
			if !ps.dragging && !ps.pinched &&
				smp.Position.Sub(ps.start).Len() > in.space.cfg.DragDeadZone {
				ps.dragging = true
				if in.dragPointer < 0 && arb.BeginDrag(ps.hit, ps.start) {
					in.dragPointer = smp.ID
				}
			}
			if in.dragPointer == smp.ID {
				arb.UpdateDrag(smp.Position)
			}
		}
		ps.last = smp.Position

	default:
		ps.last = smp.Position
	}

	// The session may have ended without this pointer (cancelled by removal).
	if in.dragPointer >= 0 && arb.Session() == nil {
		in.dragPointer = -1
	}
}

// --- Pinch detection ---

func (in *PointerInput) detectPinch() {
	var p0, p1, count int
	for i := 0; i < maxPointers; i++ {
		if !in.pointers[i].down {
			continue
		}
		switch count {
		case 0:
			p0 = i
		case 1:
			p1 = i
		}
		count++
	}

	arb := in.space.arbiter
	if count != 2 {
		if in.pinch.active {
			in.pinch.active = false
			arb.EndScale()
			arb.EndRotate()
		}
		return
	}

	ps0 := &in.pointers[p0]
	ps1 := &in.pointers[p1]
	dist := ps1.last.Sub(ps0.last).Len()
	centroidX := (ps0.last.X() + ps1.last.X()) / 2

	if !in.pinch.active {
		in.pinch = pinchState{
			active:           true,
			pointer0:         p0,
			pointer1:         p1,
			initialDist:      dist,
			initialCentroidX: centroidX,
		}
		// The second hand never starts its own drag or tap. Without a live
		// drag the first hand may still leave the dead zone and grab.
		switch {
		case in.dragPointer == p0:
			ps1.pinched = true
		case in.dragPointer == p1:
			ps0.pinched = true
		case ps0.pressSeq > ps1.pressSeq:
			ps0.pinched = true
		default:
			ps1.pinched = true
		}
		in.beginRefinement()
		return
	}

	if !in.pinch.refining {
		// The drag started after the second hand went down.
		if in.beginRefinement() {
			in.pinch.initialDist = dist
			in.pinch.initialCentroidX = centroidX
		}
		return
	}

	if in.pinch.initialDist > 0 {
		arb.UpdateScale(dist / in.pinch.initialDist)
	}
	arb.UpdateRotate(centroidX - in.pinch.initialCentroidX)
}

// beginRefinement starts scale and rotate on the live drag, if any.
func (in *PointerInput) beginRefinement() bool {
	arb := in.space.arbiter
	s := arb.Session()
	if s == nil {
		return false
	}
	_ = arb.BeginScale(s.Target)
	_ = arb.BeginRotate(s.Target)
	in.pinch.refining = true
	return true
}

// Reset forgets every pointer and pinch. A live drag is ended.
func (in *PointerInput) Reset() {
	if in.dragPointer >= 0 {
		in.space.arbiter.EndDrag()
	}
	in.pointers = [maxPointers]pointerState{}
	in.pinch = pinchState{}
	in.dragPointer = -1
}
