package cache

// Action tags an Event with the change that happened in the engine.
type Action uint8

const (
	ActionNone     Action = iota // Zero value; engines never emit it.
	ActionAdded                  // A key was inserted or overwritten.
	ActionEvicted                // A key was removed to make room for a new one.
	ActionAccessed               // A key was read by Get.
)

func (a Action) String() string {
	switch a {
	case ActionAdded:
		return "added"
	case ActionEvicted:
		return "evicted"
	case ActionAccessed:
		return "accessed"
	default:
		return "none"
	}
}

// Event describes one change of an engine. Value is the stored value for added and accessed events, and the value of
// the victim for evicted events.
type Event[K comparable, V any] struct {
	Action Action
	Key    K
	Value  V
}

// Observer receives engine events synchronously, in the order they happen. An observer must not call back into the
// engine that emitted the event.
type Observer[K comparable, V any] func(Event[K, V])
