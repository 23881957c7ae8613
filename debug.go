package tether

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// globalDebug enables tree sanity checks in Entity.AddChild. It is set by
// Space.SetDebugMode.
var globalDebug bool

// debugLogger receives the warnings of the tree checks.
var debugLogger = zerolog.Nop()

// debugStats holds per-tick metrics. Only populated when Space.debug is true.
type debugStats struct {
	tickTime    time.Duration
	objects     int
	planes      int
	planeEvents int
	tweens      int
	state       GestureState
}

// debugLog logs the tick statistics at debug level.
func (s *Space) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.log.Debug().
		Dur("tick", stats.tickTime).
		Int("objects", stats.objects).
		Int("planes", stats.planes).
		Int("plane_events", stats.planeEvents).
		Int("tweens", stats.tweens).
		Stringer("gesture", stats.state).
		Msg("tick")
}

// debugCheckDisposed panics with a descriptive message when a disposed entity
// is used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(e *Entity, op string) {
	if e.disposed {
		panic(fmt.Sprintf("tether debug: %s on disposed entity %q", op, e.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Entity) {
	depth := 0
	for p := e; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn().Int("depth", depth).Int("threshold", debugMaxTreeDepth).
			Str("entity", e.Name).Msg("tree depth exceeds threshold")
	}
}

// debugCheckChildCount warns if an entity has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Entity) {
	if len(e.children) > debugMaxChildCount {
		debugLogger.Warn().Int("children", len(e.children)).Int("threshold", debugMaxChildCount).
			Str("entity", e.Name).Msg("child count exceeds threshold")
	}
}
