// Package config loads the application configuration from YAML. Every
// section starts from its package defaults, so a file only needs the keys it
// changes.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/tapwalk/internal/audio"
	"github.com/zeusync/tapwalk/internal/core/observability/log"
	"github.com/zeusync/tapwalk/internal/core/placement"
	"github.com/zeusync/tapwalk/internal/core/scene"
	"github.com/zeusync/tapwalk/internal/host"
	"github.com/zeusync/tapwalk/internal/viewer"
)

// DefaultPrefab is the prefab placed when the file does not name one.
const DefaultPrefab = "robot"

type Config struct {
	Log       LogConfig        `yaml:"log"`
	Placement placement.Config `yaml:"placement"`
	Scene     scene.Config     `yaml:"scene"`
	Audio     audio.Config     `yaml:"audio"`
	Viewer    viewer.Config    `yaml:"viewer"`
	Host      host.Config      `yaml:"host"`
}

// LogConfig selects the log level, encoding and sink. The terminal belongs
// to the host, so logs go to a file by default.
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	Output   string `yaml:"output"`
}

func (c LogConfig) Options() log.Options {
	return log.Options{
		Level:    log.ParseLevel(c.Level),
		Encoding: c.Encoding,
		Output:   c.Output,
	}
}

func Default() Config {
	p := placement.DefaultConfig()
	p.PlacedPrefab = DefaultPrefab
	return Config{
		Log:       LogConfig{Level: "info", Encoding: "json", Output: "tapwalk.log"},
		Placement: p,
		Scene:     scene.DefaultConfig(),
		Audio:     audio.DefaultConfig(),
		Viewer:    viewer.DefaultConfig(),
		Host:      host.DefaultConfig(),
	}
}

// Load decodes r over the defaults. Unknown keys are rejected. An empty
// document yields the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile loads path. A missing file is not an error and yields the defaults.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section and reports all problems at once. A placed
// prefab missing from the scene catalog is reported here rather than on the
// first tap.
func (c Config) Validate() error {
	errs := []error{
		section("placement", c.Placement.Validate()),
		section("scene", c.Scene.Validate()),
		section("audio", c.Audio.Validate()),
		section("viewer", c.Viewer.Validate()),
		section("host", c.Host.Validate()),
	}
	if c.Placement.PlacedPrefab != "" && !c.hasPrefab(c.Placement.PlacedPrefab) {
		errs = append(errs, fmt.Errorf("placement: %w: %q", scene.ErrUnknownPrefab, c.Placement.PlacedPrefab))
	}
	if c.Audio.Enabled && c.Placement.AudioClip >= len(c.Audio.Clips) {
		errs = append(errs, fmt.Errorf("placement: %w: %d", audio.ErrUnknownClip, c.Placement.AudioClip))
	}
	return errors.Join(errs...)
}

func (c Config) hasPrefab(name string) bool {
	for _, p := range c.Scene.Prefabs {
		if p.Name == name {
			return true
		}
	}
	return false
}

func section(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
