// Package config loads tether's engine tunables from a JSON file through
// viper.
package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/phanxgames/tether"
)

// FileName is the config file looked up in the config directory.
const FileName = "tether.json"

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers the default value of every key. Load calls it; hosts
// without a config file can call it directly.
func SetDefaults() {
	d := tether.DefaultConfig()

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("debug", false)

	viper.SetDefault("grid.cellSize", d.GridCellSize)

	viper.SetDefault("placement.dropClearance", d.DropClearance)
	viper.SetDefault("placement.default.x", d.DefaultPlacement.X())
	viper.SetDefault("placement.default.y", d.DefaultPlacement.Y())
	viper.SetDefault("placement.default.z", d.DefaultPlacement.Z())
	viper.SetDefault("placement.menuLifetime", "5s")

	viper.SetDefault("gesture.smoothing", d.SmoothingFactor)
	viper.SetDefault("gesture.deadZone", d.DragDeadZone)
	viper.SetDefault("gesture.minPinch", d.MinPinchFactor)
	viper.SetDefault("gesture.maxPinch", d.MaxPinchFactor)
	viper.SetDefault("gesture.rotateSensitivity", d.RotateSensitivity)

	viper.SetDefault("panel.clearance", d.PanelClearance)

	viper.SetDefault("animation.spinPeriod", "4s")
	viper.SetDefault("animation.planeFadeIn", "300ms")

	viper.SetDefault("scan.maxEventsPerTick", d.MaxPlaneEventsPerTick)

	viper.SetDefault("protocol.capacity", 64)
}

// Engine returns the engine tunables from the loaded configuration.
func Engine() tether.Config {
	return tether.Config{
		GridCellSize:      viper.GetFloat64("grid.cellSize"),
		DropClearance:     viper.GetFloat64("placement.dropClearance"),
		SmoothingFactor:   viper.GetFloat64("gesture.smoothing"),
		MinPinchFactor:    viper.GetFloat64("gesture.minPinch"),
		MaxPinchFactor:    viper.GetFloat64("gesture.maxPinch"),
		RotateSensitivity: viper.GetFloat64("gesture.rotateSensitivity"),
		DefaultPlacement: mgl64.Vec3{
			viper.GetFloat64("placement.default.x"),
			viper.GetFloat64("placement.default.y"),
			viper.GetFloat64("placement.default.z"),
		},
		PanelClearance:        viper.GetFloat64("panel.clearance"),
		MenuLifetime:          viper.GetDuration("placement.menuLifetime").Seconds(),
		DragDeadZone:          viper.GetFloat64("gesture.deadZone"),
		SpinPeriod:            viper.GetDuration("animation.spinPeriod").Seconds(),
		PlaneFadeIn:           viper.GetDuration("animation.planeFadeIn").Seconds(),
		MaxPlaneEventsPerTick: viper.GetInt("scan.maxEventsPerTick"),
	}
}

// LogLevel returns the configured log level, or info when it does not parse.
func LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(viper.GetString("logLevel"))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Debug reports whether debug mode is enabled.
func Debug() bool {
	return viper.GetBool("debug")
}

// ProtocolCapacity returns the queue size for the protocol bus.
func ProtocolCapacity() int {
	return viper.GetInt("protocol.capacity")
}
