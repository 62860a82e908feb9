package scene

import (
	"errors"
	"fmt"

	"github.com/zeusync/tapwalk/internal/core/placement"
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Config describes the world loaded at startup.
type Config struct {
	Camera   Camera    `json:"camera" yaml:"camera"`
	Surfaces []Surface `json:"surfaces" yaml:"surfaces"`
	Prefabs  []Prefab  `json:"prefabs" yaml:"prefabs"`
}

// DefaultConfig is a floor with a table on it, seen from above, and a single
// walking prefab.
func DefaultConfig() Config {
	return Config{
		Camera: TopDown(10, 60, 80, 24),
		Surfaces: []Surface{
			{ID: "floor", HalfX: 4, HalfZ: 3},
			{ID: "table", Center: physics.V3(1.5, 0.8, 0.5), HalfX: 0.8, HalfZ: 0.5, Yaw: 15},
		},
		Prefabs: []Prefab{
			{Name: "robot", Glyph: "@", Animations: []string{placement.AnimWalk, placement.AnimIdle}},
		},
	}
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Camera.Validate(); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]struct{}, len(c.Surfaces))
	for _, s := range c.Surfaces {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", err, s.ID))
			continue
		}
		if _, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateSurface, s.ID))
		}
		seen[s.ID] = struct{}{}
	}
	for _, p := range c.Prefabs {
		if p.Name == "" {
			errs = append(errs, ErrInvalidPrefab)
		}
	}
	return errors.Join(errs...)
}

// Build creates the world and prefab catalog described by c.
func (c Config) Build() (*World, Catalog, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	w, err := NewWorld(c.Camera, c.Surfaces...)
	if err != nil {
		return nil, nil, err
	}
	cat, err := NewCatalog(c.Prefabs...)
	if err != nil {
		return nil, nil, err
	}
	return w, cat, nil
}
