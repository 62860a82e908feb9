package host

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("host: fps and max delta must be positive")

type Config struct {
	FPS int `yaml:"fps"`
	// MaxDelta caps the frame delta so a stall does not teleport the agent.
	MaxDelta time.Duration `yaml:"max_delta"`
	// Shade draws the tracked surfaces under the agent.
	Shade bool `yaml:"shade"`
}

func DefaultConfig() Config {
	return Config{FPS: 60, MaxDelta: 100 * time.Millisecond, Shade: true}
}

func (c Config) Validate() error {
	if c.FPS <= 0 || c.MaxDelta <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

func (c Config) interval() time.Duration { return time.Second / time.Duration(c.FPS) }
