// Package swipe implements the gesture engine of a swipeable card stack.
//
// # Overview
//
// A [Controller] owns a [deck.Deck] and the single in-progress drag. Hosts
// feed it already-routed pointer events and a frame tick; it decides whether
// a released drag commits (the top item leaves and the ring rotates) or
// cancels (the item springs back), and animates the offset accordingly.
//
// # State Machine
//
//	Idle ──DragStart──▶ Dragging ──DragEnd──▶ Settling ──Tick…──▶ Idle
//	                        ▲                     │
//	                        └──────DragStart──────┘  (interrupts the settle)
//
// [Controller.DragEnd] evaluates an [Outcome] with [Evaluate]: the drag
// commits when the offset exceeds DistanceThreshold × ItemWidth or the
// release velocity exceeds VelocityThreshold. On a non-circular deck a
// commit that would move past either end is forced to cancel.
//
// # Animation
//
// Settling is a sequence of discrete [Controller.Tick] calls, never a
// blocking wait. A cancel interpolates the offset back to exactly 0. A commit
// interpolates to direction × ItemWidth × Overshoot, then rotates the deck,
// resets the offset to 0 and only then calls OnSwipe, so observers never
// see a rotated-but-offset state.
//
// Only one animation exists per controller. Starting a drag or a
// programmatic swipe while Settling supersedes it and bumps
// [Controller.Generation]; the superseded completion never runs.
//
// # Hosts
//
// Immediate-mode hosts call Tick from their frame loop. Hosts with events on
// several goroutines wrap the controller in a [Driver], which serializes
// access and ticks from its own goroutine.
//
//	ctrl, err := swipe.New(swipe.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	ctrl.DragStartTop(swipe.Point{X: 10})
//	ctrl.DragUpdate(swipe.Point{X: 210})
//	ctrl.DragEnd(40)
//	for ctrl.Tick(16 * time.Millisecond) {
//	    // repaint
//	}
//
// [deck.Deck]: github.com/matzehuels/swipestack/pkg/deck
package swipe
