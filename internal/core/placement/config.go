package placement

import (
	"errors"
	"math"
)

// Default tuning values.
const (
	DefaultWalkSpeed      = 0.2
	DefaultYawCorrection  = 80.0
	DefaultArrivalEpsilon = 1e-3
)

// Config is set once at startup.
type Config struct {
	// PlacedPrefab names the asset spawned on the first hit. Required.
	PlacedPrefab string `json:"placed_prefab" yaml:"placed_prefab"`
	// WalkSpeed is the travel speed in world units per second.
	WalkSpeed float64 `json:"walk_speed" yaml:"walk_speed"`
	// YawCorrection is added about the agent's up axis at spawn, in degrees,
	// to align the asset's intrinsic forward with world forward.
	YawCorrection float64 `json:"yaw_correction" yaml:"yaw_correction"`
	// ArrivalEpsilon is the remaining distance under which the agent snaps
	// onto its target and arrives.
	ArrivalEpsilon float64 `json:"arrival_epsilon" yaml:"arrival_epsilon"`
	// AudioClip is played on spawn and on every accepted retarget.
	AudioClip int `json:"audio_clip" yaml:"audio_clip"`
}

// DefaultConfig returns the tuning defaults. PlacedPrefab is left empty and
// must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		WalkSpeed:      DefaultWalkSpeed,
		YawCorrection:  DefaultYawCorrection,
		ArrivalEpsilon: DefaultArrivalEpsilon,
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.PlacedPrefab == "" {
		errs = append(errs, ErrPrefabRequired)
	}
	if !positiveFinite(c.WalkSpeed) {
		errs = append(errs, ErrInvalidWalkSpeed)
	}
	if !positiveFinite(c.ArrivalEpsilon) {
		errs = append(errs, ErrInvalidEpsilon)
	}
	if c.AudioClip < 0 {
		errs = append(errs, ErrInvalidClip)
	}
	return errors.Join(errs...)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
