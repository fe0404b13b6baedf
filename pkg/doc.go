// Package pkg provides the libraries behind swipestack, a swipeable card
// stack engine.
//
// # Overview
//
// A card stack shows a few items piled on top of each other. The user drags
// the top item sideways; past a distance or velocity threshold it flies
// off, the stack rotates and the next item comes to the top. Released early,
// it springs back. The engine is headless: hosts feed it pointer events and
// clock ticks, and read back per-item transforms to paint.
//
//  1. [deck] - the ring of item ids and its rotation
//  2. [swipe] - gesture state machine, thresholds and settle animation
//  3. [stack] - pure per-item transforms and ordered frames
//  4. [playback] - scripted gestures played at a fixed frame rate
//  5. [sink] - JSON, SVG, PNG and PDF export of frames
//
// # Architecture
//
//	pointer events ──▶ swipe.Controller ──▶ deck.Deck (rotate on commit)
//	clock ticks    ──▶        │
//	                          ▼
//	                  stack.Frame / stack.Render ──▶ host paints layers
//
// # Quick Start
//
//	cfg := swipe.DefaultConfig()
//	cfg.OnSwipe = func(top int) { fmt.Println("now on top:", top) }
//	c, _ := swipe.New(cfg)
//
//	c.DragStartTop(swipe.Point{X: 0})
//	c.DragUpdate(swipe.Point{X: 200})
//	c.DragEnd(0)
//	for c.Tick(16 * time.Millisecond) {
//	}
//
//	for _, p := range stack.Frame(c, stack.ParamsFor(cfg)) {
//	    draw(p.Index, p.Transform)
//	}
//
// # Errors
//
// All packages return [errors.Error] values carrying a machine-readable
// code, so hosts can tell configuration mistakes from out-of-range lookups.
//
// # Observability
//
// Register [observability.GestureHooks] at startup to receive drag,
// release, settle and interrupt events.
package pkg
