package tether

import "github.com/go-gl/mathgl/mgl64"

// Config holds the engine tunables. Distances are in metres, durations in
// seconds, angles in radians.
type Config struct {
	// GridCellSize is the spacing of snap-grid cell centres on detected planes.
	GridCellSize float64
	// DropClearance lifts a freshly placed object's lower bound above the
	// target height.
	DropClearance float64
	// SmoothingFactor is the fraction of the remaining distance the live
	// position covers on each drag update.
	SmoothingFactor float64
	// MinPinchFactor and MaxPinchFactor clamp the pinch multiplier applied to
	// the baseline scale.
	MinPinchFactor float64
	MaxPinchFactor float64
	// RotateSensitivity converts horizontal hand travel to yaw.
	RotateSensitivity float64
	// DefaultPlacement is where requests without a position land, in front of
	// the user.
	DefaultPlacement mgl64.Vec3
	// PanelClearance is the gap between an object's top bound and its panel.
	PanelClearance float64
	// MenuLifetime is how long a placement menu stays open without a choice.
	MenuLifetime float64
	// DragDeadZone is the pointer travel needed before a press becomes a drag.
	DragDeadZone float64
	// SpinPeriod is the duration of one turn of the idle animation.
	SpinPeriod float64
	// PlaneFadeIn is the duration of the alpha ramp on new plane quads.
	PlaneFadeIn float64
	// MaxPlaneEventsPerTick bounds how many detector events one tick applies.
	MaxPlaneEventsPerTick int
}

// DefaultConfig returns the tunables the engine ships with.
func DefaultConfig() Config {
	return Config{
		GridCellSize:          0.10,
		DropClearance:         0.01,
		SmoothingFactor:       0.2,
		MinPinchFactor:        0.05,
		MaxPinchFactor:        5.0,
		RotateSensitivity:     3.0,
		DefaultPlacement:      mgl64.Vec3{0, 1.2, -1.0},
		PanelClearance:        0.05,
		MenuLifetime:          5,
		DragDeadZone:          0.01,
		SpinPeriod:            4,
		PlaneFadeIn:           0.3,
		MaxPlaneEventsPerTick: 256,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.GridCellSize <= 0 {
		c.GridCellSize = d.GridCellSize
	}
	if c.DropClearance < 0 {
		c.DropClearance = d.DropClearance
	}
	if c.SmoothingFactor <= 0 || c.SmoothingFactor > 1 {
		c.SmoothingFactor = d.SmoothingFactor
	}
	if c.MinPinchFactor <= 0 {
		c.MinPinchFactor = d.MinPinchFactor
	}
	if c.MaxPinchFactor < c.MinPinchFactor {
		c.MaxPinchFactor = d.MaxPinchFactor
	}
	if c.RotateSensitivity == 0 {
		c.RotateSensitivity = d.RotateSensitivity
	}
	if c.PanelClearance < 0 {
		c.PanelClearance = d.PanelClearance
	}
	if c.MenuLifetime <= 0 {
		c.MenuLifetime = d.MenuLifetime
	}
	if c.DragDeadZone < 0 {
		c.DragDeadZone = d.DragDeadZone
	}
	if c.SpinPeriod <= 0 {
		c.SpinPeriod = d.SpinPeriod
	}
	if c.PlaneFadeIn < 0 {
		c.PlaneFadeIn = d.PlaneFadeIn
	}
	if c.MaxPlaneEventsPerTick <= 0 {
		c.MaxPlaneEventsPerTick = d.MaxPlaneEventsPerTick
	}
	return c
}
