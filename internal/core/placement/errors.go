package placement

import "errors"

// Configuration errors, reported by Config.Validate and NewController.
var (
	ErrPrefabRequired   = errors.New("placement: placed prefab is required")
	ErrInvalidWalkSpeed = errors.New("placement: walk speed must be a positive finite number")
	ErrInvalidEpsilon   = errors.New("placement: arrival epsilon must be a positive finite number")
	ErrInvalidClip      = errors.New("placement: audio clip index must not be negative")
	ErrNilCollaborator  = errors.New("placement: nil collaborator")
)

// Per-frame errors, returned from Controller.Tick.
var (
	ErrNegativeDelta     = errors.New("placement: frame delta must not be negative")
	ErrSpawnFailed       = errors.New("placement: spawn failed")
	ErrMissingCapability = errors.New("placement: spawned agent lacks animation or audio capability")
	ErrCueFailed         = errors.New("placement: cue playback failed")
)
