package tether

import "github.com/go-gl/mathgl/mgl64"

// InjectPress queues a press of the primary pointer at a world position.
// The hit entity is picked when the sample is consumed, so an object placed
// in between is seen. One queued sample is consumed per Update.
func (s *Space) InjectPress(p mgl64.Vec3) {
	s.inject(0, p, true)
}

// InjectMove queues a move of the primary pointer with the pointer held.
// Use this between InjectPress and InjectRelease to simulate a drag.
func (s *Space) InjectMove(p mgl64.Vec3) {
	s.inject(0, p, true)
}

// InjectRelease queues a release of the primary pointer.
func (s *Space) InjectRelease(p mgl64.Vec3) {
	s.inject(0, p, false)
}

// InjectPointer queues a sample for any pointer id, for two-hand sequences.
func (s *Space) InjectPointer(id int, p mgl64.Vec3, pressed bool) {
	s.inject(id, p, pressed)
}

func (s *Space) inject(id int, p mgl64.Vec3, pressed bool) {
	s.injectQueue = append(s.injectQueue, PointerSample{ID: id, Position: p, Pressed: pressed})
}

// InjectTap is a convenience that queues a press followed by a release at
// the same position. Consumes two ticks.
func (s *Space) InjectTap(p mgl64.Vec3) {
	s.InjectPress(p)
	s.InjectRelease(p)
}

// InjectDrag queues a full drag sequence: press at from, linearly
// interpolated moves over ticks-2 intermediate ticks, and release at to.
// The total sequence consumes `ticks` ticks. Minimum ticks is 2.
func (s *Space) InjectDrag(from, to mgl64.Vec3, ticks int) {
	if ticks < 2 {
		ticks = 2
	}
	s.InjectPress(from)
	steps := ticks - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(from.Add(to.Sub(from).Mul(t)))
	}
	s.InjectRelease(to)
}

// Injected returns the number of queued samples not yet consumed.
func (s *Space) Injected() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one sample from the inject queue, picks the
// entity under it on press and feeds it through the pointer input.
// Returns true if a sample was consumed.
func (s *Space) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	smp := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if smp.Pressed && smp.Hit == nil {
		smp.Hit = s.Pick(smp.Position)
	}
	s.pointer.Process(smp)
	return true
}
