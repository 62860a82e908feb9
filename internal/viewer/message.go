package viewer

import (
	"time"

	"github.com/zeusync/tapwalk/internal/core/placement"
)

// Message kinds on the wire.
const (
	KindSnapshot = "snapshot"
	KindEvent    = "event"
)

// Message is one JSON text frame sent to viewers.
type Message struct {
	Kind     string              `json:"kind"`
	Snapshot *placement.Snapshot `json:"snapshot,omitempty"`
	Event    *EventMessage       `json:"event,omitempty"`
}

type EventMessage struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}
