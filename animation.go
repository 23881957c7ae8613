package tether

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of an Entity simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenColor, TweenYaw) and call Update(dt) each tick, or hand it to a Space
// with Space.AddTween. If the target entity is disposed, the group stops
// immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Entity
	apply  func()

	// Loop restarts the group from the beginning instead of finishing.
	Loop bool
	Done bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target entity has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if g.apply != nil {
		g.apply()
	}
	if !allDone {
		return
	}
	if g.Loop {
		for i := 0; i < g.count; i++ {
			g.tweens[i].Reset()
		}
		if g.apply != nil {
			g.apply()
		}
		return
	}
	g.Done = true
}

// Stop ends the group without writing further values.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// Target returns the animated entity.
func (g *TweenGroup) Target() *Entity {
	return g.target
}

// TweenPosition animates the entity's local position toward to.
func TweenPosition(e *Entity, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: e}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(e.Position[i]), float32(to[i]), duration, fn)
		g.fields[i] = &e.Position[i]
	}
	return g
}

// TweenScale animates the entity's local scale toward to.
func TweenScale(e *Entity, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: e}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(e.Scale[i]), float32(to[i]), duration, fn)
		g.fields[i] = &e.Scale[i]
	}
	return g
}

// TweenColor animates all four components of the entity's Color.
func TweenColor(e *Entity, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4, target: e}
	g.tweens[0] = gween.New(float32(e.Color.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(e.Color.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(e.Color.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(e.Color.A), float32(to.A), duration, fn)
	g.fields[0] = &e.Color.R
	g.fields[1] = &e.Color.G
	g.fields[2] = &e.Color.B
	g.fields[3] = &e.Color.A
	return g
}

// TweenYaw turns the entity by radians around the world vertical axis over
// duration. The turn is applied incrementally on top of whatever orientation
// the entity has, so other writers between updates are preserved.
func TweenYaw(e *Entity, radians float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	var angle, applied float64
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(0, float32(radians), duration, fn)
	g.fields[0] = &angle
	g.apply = func() {
		step := angle - applied
		if step != 0 {
			e.Orientation = mgl64.QuatRotate(step, WorldUp).Mul(e.Orientation).Normalize()
		}
		applied = angle
	}
	return g
}

// tweenSet owns the tween groups a space advances each tick.
type tweenSet struct {
	groups []*TweenGroup
}

func (ts *tweenSet) add(g *TweenGroup) {
	ts.groups = append(ts.groups, g)
}

// update advances every group whose target is not held, then drops finished
// groups.
func (ts *tweenSet) update(dt float32, held func(*Entity) bool) {
	n := 0
	for _, g := range ts.groups {
		if !g.Done && (held == nil || g.target == nil || !held(g.target)) {
			g.Update(dt)
		}
		if !g.Done {
			ts.groups[n] = g
			n++
		}
	}
	for i := n; i < len(ts.groups); i++ {
		ts.groups[i] = nil
	}
	ts.groups = ts.groups[:n]
}

func (ts *tweenSet) len() int {
	return len(ts.groups)
}
