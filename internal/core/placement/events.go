package placement

import (
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Event types published on the controller's bus.
const (
	EventSpawned    = "agent.spawned"
	EventRetargeted = "agent.retargeted"
	EventArrived    = "agent.arrived"
)

// EventSource is the Source of every event published by the controller.
const EventSource = "placement"

type SpawnedEvent struct {
	AgentID   string       `json:"agent_id"`
	Pose      physics.Pose `json:"pose"`
	SurfaceID string       `json:"surface_id"`
	Frame     uint64       `json:"frame"`
}

type RetargetedEvent struct {
	AgentID string `json:"agent_id"`
	Target  Target `json:"target"`
	Frame   uint64 `json:"frame"`
}

type ArrivedEvent struct {
	AgentID  string       `json:"agent_id"`
	Position physics.Vec3 `json:"position"`
	Leg      uint64       `json:"leg"`
	Frame    uint64       `json:"frame"`
}
