package placement

import (
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Animation state names understood by AnimationCue implementations.
const (
	AnimWalk = "walk"
	AnimIdle = "idle-A"
)

// Hit is one intersection of a screen ray with a tracked surface.
type Hit struct {
	Pose      physics.Pose `json:"pose"`
	Distance  float64      `json:"distance"`
	SurfaceID string       `json:"surface_id"`
}

// SurfaceRaycaster casts a ray from a screen point against tracked surfaces.
// Hits are ordered nearest first; a miss returns an empty slice.
type SurfaceRaycaster interface {
	Raycast(screen physics.Vec2) []Hit
}

// AgentSpawner instantiates a renderable agent from a prefab at pose.
type AgentSpawner interface {
	Spawn(prefab string, pose physics.Pose) (Agent, error)
}

// Agent is the handle to a spawned agent. Its capabilities are resolved once,
// at spawn time, and held by the controller for the agent's lifetime.
type Agent interface {
	physics.Transform

	ID() string
	Animation() AnimationCue
	Audio() AudioCue
}

// AnimationCue triggers an animation state by name. Fire and forget.
type AnimationCue interface {
	Play(name string) error
}

// AudioCue triggers an audio clip by index. Fire and forget.
type AudioCue interface {
	Play(clip int) error
}

// PointerSource reports the per-frame press state and the pointer position.
type PointerSource interface {
	IsPressed() bool
	Position() (physics.Vec2, bool)
}
