// Package stack computes the per-item visual transform of a card stack.
//
// # Overview
//
// [Params.Compute] is a pure function from an item's position in the stack
// (0 = top) and the live drag to a [Transform]: translation, rotation,
// scale and opacity. It has no state, so hosts call it every frame without
// accumulating drift.
//
//   - Top item: follows the drag. TranslateX is the live offset and the
//     rotation tilts proportionally to drag progress.
//   - Items behind: a fixed stagger per position. Each step back shifts by
//     Spacing, drops by StaggerY, tilts by StaggerAngle and shrinks by
//     ScaleStep down to MinScale. Opacity fades by OpacityStep down to
//     MinOpacity as a depth cue only; it never affects hit-testing.
//
// # Frames
//
// [Frame] evaluates every visible position of a [Source] (typically a
// *swipe.Controller) and returns placements ordered back to front, ready to
// paint. [Render] additionally resolves content through a host
// [ContentFunc], skipping positions whose index the host does not have.
//
//	ctrl, _ := swipe.New(cfg)
//	params := stack.ParamsFor(cfg)
//	for _, pl := range stack.Frame(ctrl, params) {
//	    paint(pl.Index, pl.Transform)
//	}
package stack
