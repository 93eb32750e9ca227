package container

import "time"

// Event describes one node of a resolution. The resolver emits an event for
// every class it hands out, including dependencies, and one failure event per
// failed top-level Resolve call.
type Event struct {
	Class  string
	Forced bool

	// Cached is true when the instance came from the singleton cache and no
	// constructor ran.
	Cached bool

	Duration time.Duration
	Err      error
}

// Observer receives resolution events. Implementations must be safe for
// concurrent use.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(e Event)

func (f ObserverFunc) Observe(e Event) { f(e) }
