// Package deck models the stack order of a swipeable card pile.
//
// # Overview
//
// A [Deck] is a fixed-size ring of logical item ids. Position 0 is the top
// (the only item that receives drag input); positions 1..N-1 sit behind it,
// front to back. The set of ids is always a permutation of 0..N-1 and the
// length never changes after [New].
//
// # Rotation
//
// [Deck.Rotate] is the sole mutator. Rotating [Forward] sends the top id to
// the back; rotating [Backward] brings the back id to the front. Because the
// ring only ever rotates, the deck stores a single head offset, so rotation
// and [Deck.PositionOf] are O(1):
//
//	d, _ := deck.New(4)      // [0 1 2 3]
//	d.Rotate(deck.Forward)   // [1 2 3 0], returns 1
//	d.PositionOf(0)          // 3
//
// # Ids vs Positions
//
// Two integer spaces are involved and are never mixed: an id names a logical
// item (what the host renders), a position is the distance from the top in
// the current stack order. [Deck.ItemAt] maps position → id and
// [Deck.PositionOf] maps id → position.
//
// # Concurrency
//
// A Deck is safe for concurrent use. Rotate takes a write lock, so no reader
// observes a partially rotated ring.
//
// # Visualization
//
// [Deck.ToDOT] and [Deck.RenderSVG] draw the current ring order with
// Graphviz, which is handy when debugging rotation sequences.
package deck
