package placement

import (
	"fmt"

	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// MotionState is the locomotion state of the owned agent.
type MotionState uint8

const (
	MotionIdle MotionState = iota
	MotionMoving
)

func (m MotionState) String() string {
	switch m {
	case MotionIdle:
		return "idle"
	case MotionMoving:
		return "moving"
	default:
		return "unknown"
	}
}

func (m MotionState) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses the names written by MarshalText.
func (m *MotionState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*m = MotionIdle
	case "moving":
		*m = MotionMoving
	default:
		return fmt.Errorf("placement: unknown motion state %q", text)
	}
	return nil
}

// Target is the destination of the current leg. Facing is computed once, when
// the target is issued, and stays fixed until the next target.
type Target struct {
	Position physics.Vec3 `json:"position"`
	Facing   physics.Vec3 `json:"facing"`
	Arrived  bool         `json:"arrived"`
	Leg      uint64       `json:"leg"`
}

// State is shared by the controller and the stepper. The controller writes
// Agent and Target; the stepper writes Motion and the agent transform.
type State struct {
	Agent  Agent
	Target Target
	Motion MotionState

	animation AnimationCue
	audio     AudioCue
}

// HasAgent reports whether an agent has been spawned.
func (s *State) HasAgent() bool { return s.Agent != nil }

// Snapshot is a read-only copy of the frame state for renderers and observers.
type Snapshot struct {
	Frame    uint64       `json:"frame"`
	Pressed  bool         `json:"pressed"`
	HasAgent bool         `json:"has_agent"`
	AgentID  string       `json:"agent_id,omitempty"`
	Position physics.Vec3 `json:"position"`
	Rotation physics.Quat `json:"rotation"`
	Motion   MotionState  `json:"motion"`
	Target   *Target      `json:"target,omitempty"`
}
