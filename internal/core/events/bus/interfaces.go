package bus

import "time"

// EventBus is an in-process pub/sub bus used to observe agent lifecycle events.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type() string, or to every
//   type through AnyType.
// - Synchronous delivery: Publish calls handlers in the caller goroutine, in
//   subscription order.
// - Error aggregation: handler errors are joined and returned from Publish.
// - All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type() and
	// of AnyType. If one or more handlers fail, a joined error is returned.
	Publish(event Event) error
	// Subscribe registers a handler for a specific event type and returns a
	// Subscription handle that can be used to cancel later.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error
	// Subscribers returns the number of active handlers for eventType, not
	// counting AnyType subscribers.
	Subscribers(eventType string) int
}

// AnyType subscribes a handler to every published event.
const AnyType = "*"

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is a callback invoked per delivered event.
type EventHandler func(event Event) error

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// EventType returns the event type this subscription listens to.
	EventType() string
	// IsActive reports whether this subscription is still registered.
	IsActive() bool
	// Cancel de-registers the handler from the bus. Multiple calls are safe.
	Cancel() error
}
