package tether

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action        string      `json:"action"`
	Pointer       int         `json:"pointer,omitempty"`
	At            *[3]float64 `json:"at,omitempty"`
	From          [3]float64  `json:"from,omitempty"`
	To            [3]float64  `json:"to,omitempty"`
	Ticks         int         `json:"ticks,omitempty"`
	Primitive     string      `json:"primitive,omitempty"`
	Path          string      `json:"path,omitempty"`
	Source        string      `json:"source,omitempty"`
	PointAndPlace bool        `json:"pointAndPlace,omitempty"`
	Enabled       bool        `json:"enabled,omitempty"`
}

// inputScript is the top-level JSON structure for an input script.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"press": true, "move": true, "release": true, "tap": true, "drag": true,
	"wait": true, "place": true, "scan": true,
}

// InputScript sequences injected pointer samples, placements and scan
// toggles across ticks for automated interaction testing. Attach to a Space
// via SetScript.
type InputScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	err       error
}

// LoadInputScript parses a JSON input script and returns a runner ready to
// be attached to a Space via SetScript.
func LoadInputScript(jsonData []byte) (*InputScript, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
		switch st.Action {
		case "press", "move", "release", "tap":
			if st.At == nil {
				return nil, fmt.Errorf("parse input script: step %d: %s needs \"at\"", i, st.Action)
			}
		case "place":
			if st.Primitive == "" && st.Path == "" {
				return nil, fmt.Errorf("parse input script: step %d: place needs a primitive or path", i)
			}
		}
	}
	return &InputScript{steps: script.Steps}, nil
}

// SetScript attaches a script to the space. The script's step method is
// called from Space.Update before injected input is consumed each tick.
func (s *Space) SetScript(script *InputScript) {
	s.script = script
}

// Done reports whether all steps in the script have been executed.
func (r *InputScript) Done() bool {
	return r.done
}

// Err returns the first error a step produced, if any. Failing steps do not
// stop the script.
func (r *InputScript) Err() error {
	return r.err
}

// step advances the script by one tick. Called from Space.Update.
func (r *InputScript) step(s *Space) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	// Count down wait ticks.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		s.InjectPointer(st.Pointer, vec3(*st.At), true)
	case "move":
		s.InjectPointer(st.Pointer, vec3(*st.At), true)
	case "release":
		s.InjectPointer(st.Pointer, vec3(*st.At), false)
	case "tap":
		s.InjectTap(vec3(*st.At))
	case "drag":
		s.InjectDrag(vec3(st.From), vec3(st.To), st.Ticks)
	case "wait":
		if st.Ticks > 0 {
			r.waitCount = st.Ticks - 1 // this tick counts as one
		}
	case "place":
		req := PlacementRequest{SourceID: st.Source, PointAndPlace: st.PointAndPlace}
		if st.Primitive != "" {
			req.Descriptor = Primitive(st.Primitive)
			req.Name = st.Primitive
		} else {
			req.Descriptor = File(st.Path)
			req.Name = st.Path
		}
		if st.At != nil {
			at := vec3(*st.At)
			req.Position = &at
		}
		r.record(s.RequestPlacement(req))
	case "scan":
		r.record(s.SetScanning(context.Background(), st.Enabled))
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

func (r *InputScript) record(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}

func vec3(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}
