package swipe

import (
	"fmt"
	"math"

	"github.com/matzehuels/swipestack/pkg/deck"
)

// Outcome is the result of evaluating a released drag.
type Outcome struct {
	Commit    bool
	Direction deck.Direction // set only when Commit is true
}

// Cancel is the outcome that returns the item to rest.
var Cancel = Outcome{}

// CommitTo returns a committing outcome in dir.
func CommitTo(dir deck.Direction) Outcome {
	return Outcome{Commit: true, Direction: dir}
}

func (o Outcome) String() string {
	if !o.Commit {
		return "cancel"
	}
	return fmt.Sprintf("commit(%s)", o.Direction)
}

// Evaluate decides between commit and cancel for a drag released at offset
// with the given signed velocity. Exceeding either threshold on its own
// commits.
// Distance wins when both are exceeded in opposite senses, since the item
// is already visibly on that side.
//
// top is the id currently at position 0 and n the ring size; they only
// matter when cfg.Circular is false, where a commit that would move past
// id 0 (backward) or id n-1 (forward) is downgraded to [Cancel].
func Evaluate(cfg Config, offset, velocity float64, top, n int) Outcome {
	var dir deck.Direction
	switch {
	case math.Abs(offset) > cfg.DistancePx():
		dir = sign(offset)
	case math.Abs(velocity) > cfg.VelocityThreshold:
		dir = sign(velocity)
	default:
		return Cancel
	}
	if !cfg.Circular && crossesBoundary(dir, top, n) {
		return Cancel
	}
	return CommitTo(dir)
}

func crossesBoundary(dir deck.Direction, top, n int) bool {
	return (dir == deck.Backward && top == 0) || (dir == deck.Forward && top == n-1)
}

func sign(v float64) deck.Direction {
	if v < 0 {
		return deck.Backward
	}
	return deck.Forward
}
