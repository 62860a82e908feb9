package viewer

import (
	"time"

	"github.com/pkg/errors"
)

// Config controls the debug stream. The viewer is off unless Enabled.
type Config struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Path         string        `yaml:"path"`
	ClientBuffer int           `yaml:"client_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:7070",
		Path:         "/ws",
		ClientBuffer: 64,
		WriteTimeout: 2 * time.Second,
	}
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return errors.New("viewer: addr is required")
	}
	if c.Path == "" || c.Path[0] != '/' {
		return errors.Errorf("viewer: path %q must start with /", c.Path)
	}
	if c.ClientBuffer <= 0 {
		return errors.Errorf("viewer: client buffer must be positive, got %d", c.ClientBuffer)
	}
	return nil
}
