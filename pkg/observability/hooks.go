// Package observability provides hooks for tracing and metrics of gestures.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Hosts register hooks at
// startup to receive events about drags, releases and settle animations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define a hook interface for gesture events
//   - Provide a no-op default implementation
//   - Allow registration of a custom implementation at startup
//
// The swipe controller calls hooks synchronously on the host's event
// context, so implementations must not block.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGestureHooks(&myGestureHooks{})
//	    // ... run application
//	}
//
// The controller emits events:
//
//	observability.Gesture().OnDragStart(top)
//	// ... pointer moves ...
//	observability.Gesture().OnRelease(top, offset, velocity, outcome)
package observability

import (
	"sync"
	"time"
)

// GestureHooks receives events from swipe controllers.
// Outcomes are passed as their string form ("cancel", "commit(forward)")
// so this package stays free of engine imports.
type GestureHooks interface {
	// OnDragStart records a pointer-down accepted on the top item.
	OnDragStart(top int)

	// OnRelease records a pointer-up and the outcome it produced.
	OnRelease(top int, offset, velocity float64, outcome string)

	// OnSettle records a settle animation running to completion.
	// newTop equals top for cancelled gestures.
	OnSettle(top, newTop int, outcome string, duration time.Duration)

	// OnInterrupt records a settle animation superseded before completion.
	OnInterrupt(top int, outcome string, elapsed time.Duration)
}

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnDragStart(int)                          {}
func (NoopGestureHooks) OnRelease(int, float64, float64, string)  {}
func (NoopGestureHooks) OnSettle(int, int, string, time.Duration) {}
func (NoopGestureHooks) OnInterrupt(int, string, time.Duration)   {}

var (
	gestureHooks GestureHooks = NoopGestureHooks{}
	hooksMu      sync.RWMutex
)

// SetGestureHooks registers custom gesture hooks.
// This should be called once at application startup before any controller is built.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	gestureHooks = NoopGestureHooks{}
}
