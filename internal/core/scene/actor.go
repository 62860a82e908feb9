package scene

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/zeusync/tapwalk/internal/audio"
	"github.com/zeusync/tapwalk/internal/core/observability/log"
	"github.com/zeusync/tapwalk/internal/core/placement"
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Prefab describes a spawnable asset.
type Prefab struct {
	Name  string `json:"name" yaml:"name"`
	Glyph string `json:"glyph" yaml:"glyph"`
	// Animations lists the states the asset can play. Empty accepts any.
	Animations []string `json:"animations" yaml:"animations"`
}

// Catalog is the set of registered prefabs, keyed by name.
type Catalog map[string]Prefab

func NewCatalog(prefabs ...Prefab) (Catalog, error) {
	c := make(Catalog, len(prefabs))
	for _, p := range prefabs {
		if p.Name == "" {
			return nil, ErrInvalidPrefab
		}
		c[p.Name] = p
	}
	return c, nil
}

// Animator records the animation state of one actor.
type Animator struct {
	allowed []string

	mu      sync.Mutex
	current string
	history []string
}

func NewAnimator(allowed []string) *Animator {
	return &Animator{allowed: slices.Clone(allowed)}
}

func (a *Animator) Play(name string) error {
	if len(a.allowed) > 0 && !slices.Contains(a.allowed, name) {
		return fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = name
	a.history = append(a.history, name)
	return nil
}

// Current returns the last state played, or "" before any.
func (a *Animator) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *Animator) History() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.history)
}

// Actor is a spawned prefab instance.
type Actor struct {
	id       string
	prefab   Prefab
	pose     physics.Pose
	animator *Animator
	audio    placement.AudioCue
}

func (a *Actor) ID() string                        { return a.id }
func (a *Actor) Prefab() Prefab                    { return a.prefab }
func (a *Actor) Position() physics.Vec3            { return a.pose.Position }
func (a *Actor) SetPosition(p physics.Vec3)        { a.pose.Position = p }
func (a *Actor) Rotation() physics.Quat            { return a.pose.Rotation }
func (a *Actor) SetRotation(r physics.Quat)        { a.pose.Rotation = r }
func (a *Actor) Animator() *Animator               { return a.animator }
func (a *Actor) Animation() placement.AnimationCue { return a.animator }
func (a *Actor) Audio() placement.AudioCue         { return a.audio }

// Spawner instantiates catalog prefabs as actors sharing one audio cue.
type Spawner struct {
	catalog Catalog
	audio   placement.AudioCue
	log     log.Log

	mu     sync.Mutex
	actors []*Actor
}

// NewSpawner builds a spawner. A nil cue is replaced with audio.Silent so
// every actor has an audio capability.
func NewSpawner(catalog Catalog, cue placement.AudioCue, logger log.Log) *Spawner {
	if cue == nil {
		cue = audio.Silent{}
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Spawner{catalog: catalog, audio: cue, log: logger.Named("spawner")}
}

func (s *Spawner) Spawn(prefab string, pose physics.Pose) (placement.Agent, error) {
	p, ok := s.catalog[prefab]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrefab, prefab)
	}
	a := &Actor{
		id:       uuid.NewString(),
		prefab:   p,
		pose:     pose,
		animator: NewAnimator(p.Animations),
		audio:    s.audio,
	}

	s.mu.Lock()
	s.actors = append(s.actors, a)
	s.mu.Unlock()

	s.log.Debug("actor created", log.String("actor", a.id), log.String("prefab", prefab))
	return a, nil
}

// Actors returns every actor spawned so far.
func (s *Spawner) Actors() []*Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.actors)
}
