package swipe

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swipestack/pkg/deck"
	"github.com/matzehuels/swipestack/pkg/observability"
)

// State is the gesture state of a [Controller].
type State int

const (
	Idle State = iota
	Dragging
	Settling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Settling:
		return "settling"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Point is a pointer position in host coordinates.
type Point struct {
	X, Y float64
}

// Controller owns a [deck.Deck] and the single active drag session.
//
// A Controller is not safe for concurrent use: all calls must come from the
// host's event context. Wrap it in a [Driver] when events and frame ticks
// arrive on different goroutines.
type Controller struct {
	cfg    Config
	deck   *deck.Deck
	logger *log.Logger

	state  State
	start  Point
	offset float64
	anim   *animation
	gen    uint64
}

// New validates cfg and builds a controller over a fresh identity deck of
// cfg.Items() ids.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Curve == nil {
		cfg.Curve = Linear
	}
	d, err := deck.New(cfg.Items())
	if err != nil {
		return nil, err
	}
	return &Controller{cfg: cfg, deck: d, logger: cfg.logger()}, nil
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config { return c.cfg }

// Deck returns the underlying deck. Callers must not rotate it directly.
func (c *Controller) Deck() *deck.Deck { return c.deck }

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Top returns the id at position 0.
func (c *Controller) Top() int { return c.deck.Top() }

// Order returns the stack order, top first.
func (c *Controller) Order() []int { return c.deck.Order() }

// Offset returns the live horizontal offset of the top item.
func (c *Controller) Offset() float64 { return c.offset }

// Progress returns Offset normalized by item width, clamped to [-1, 1].
func (c *Controller) Progress() float64 {
	return math.Max(-1, math.Min(1, c.offset/c.cfg.ItemWidth))
}

// Animating reports whether a settle animation is in flight.
func (c *Controller) Animating() bool { return c.anim != nil }

// Generation identifies the current animation. It changes every time an
// animation starts or is superseded, so schedulers can tag their ticks and
// drop ones that arrive for an older generation.
func (c *Controller) Generation() uint64 { return c.gen }

// DragStart begins a gesture at p on the item with logical id target.
// Only the top item accepts drags; the call is ignored and returns false
// for any other target.
//
// A drag that starts while Settling interrupts the animation: the pending
// completion is dropped (an interrupted commit never rotates the deck nor
// fires OnSwipe) and dragging resumes from the live interpolated offset.
func (c *Controller) DragStart(p Point, target int) bool {
	top := c.deck.Top()
	if target != top {
		c.logger.Debug("drag ignored: not top", "target", target, "top", top)
		return false
	}
	if c.state == Settling {
		c.interrupt()
	}
	c.state = Dragging
	c.start = Point{X: p.X - c.offset, Y: p.Y}
	observability.Gesture().OnDragStart(top)
	c.logger.Debug("drag start", "top", top, "x", p.X, "offset", c.offset)
	return true
}

// DragStartTop begins a gesture on whichever item is on top.
func (c *Controller) DragStartTop(p Point) bool {
	return c.DragStart(p, c.deck.Top())
}

// DragUpdate moves the active drag to p. Outside Dragging it is a no-op.
func (c *Controller) DragUpdate(p Point) {
	if c.state != Dragging {
		return
	}
	c.offset = p.X - c.start.X
}

// DragEnd releases the active drag with the given horizontal velocity
// (units per second, averaged by the pointer source over a short trailing
// window) and starts the settle animation. Outside Dragging it returns
// [Cancel] without side effects.
func (c *Controller) DragEnd(velocity float64) Outcome {
	if c.state != Dragging {
		return Cancel
	}
	top := c.deck.Top()
	out := Evaluate(c.cfg, c.offset, velocity, top, c.deck.Len())
	observability.Gesture().OnRelease(top, c.offset, velocity, out.String())
	c.logger.Debug("drag end", "top", top, "offset", c.offset, "velocity", velocity, "outcome", out)
	c.settle(out)
	return out
}

// SwipeForward runs a committed forward swipe without a pointer, as a
// keyboard host would. It honors the boundary rule of non-circular decks
// and returns the resulting outcome.
func (c *Controller) SwipeForward() Outcome { return c.swipe(deck.Forward) }

// SwipeBackward is the backward counterpart of [Controller.SwipeForward].
func (c *Controller) SwipeBackward() Outcome { return c.swipe(deck.Backward) }

func (c *Controller) swipe(dir deck.Direction) Outcome {
	if c.state == Dragging {
		return Cancel
	}
	top := c.deck.Top()
	if !c.cfg.Circular && crossesBoundary(dir, top, c.deck.Len()) {
		return Cancel
	}
	if c.state == Settling {
		c.interrupt()
	}
	out := CommitTo(dir)
	c.settle(out)
	return out
}

// Tick advances the settle animation by dt and reports whether it is still
// running. On completion of a commit the deck rotates, the offset resets to
// 0 and only then is OnSwipe called.
func (c *Controller) Tick(dt time.Duration) bool {
	if c.state != Settling || c.anim == nil {
		return false
	}
	done := c.anim.advance(dt)
	c.offset = c.anim.value()
	if done {
		c.finish()
	}
	return c.state == Settling
}

// Reset drops any gesture, restores the identity order and returns to Idle.
// No callback fires.
func (c *Controller) Reset() {
	if c.anim != nil {
		c.gen++
		c.anim = nil
	}
	c.offset = 0
	c.state = Idle
	c.deck.Reset()
}

func (c *Controller) settle(out Outcome) {
	to := 0.0
	if out.Commit {
		to = float64(out.Direction) * c.cfg.ItemWidth * c.cfg.Overshoot
	}
	c.gen++
	if to == c.offset && !out.Commit {
		c.anim = nil
		c.offset = 0
		c.state = Idle
		return
	}
	c.anim = &animation{
		from:     c.offset,
		to:       to,
		duration: c.cfg.SettleDuration,
		curve:    c.cfg.Curve,
		outcome:  out,
	}
	c.state = Settling
}

func (c *Controller) interrupt() {
	a := c.anim
	c.gen++
	c.anim = nil
	if a == nil {
		return
	}
	observability.Gesture().OnInterrupt(c.deck.Top(), a.outcome.String(), a.elapsed)
	c.logger.Debug("settle superseded", "outcome", a.outcome, "offset", c.offset)
}

func (c *Controller) finish() {
	a := c.anim
	c.anim = nil
	top := c.deck.Top()
	newTop := top

	if a.outcome.Commit {
		rotated, err := c.deck.Rotate(a.outcome.Direction)
		if err != nil {
			// Settles only carry Forward or Backward; treat anything else as a cancel.
			c.logger.Error("commit dropped", "top", top, "err", err)
			a.outcome = Cancel
		} else {
			newTop = rotated
		}
	}
	c.offset = 0
	observability.Gesture().OnSettle(top, newTop, a.outcome.String(), a.elapsed)

	gen := c.gen
	if a.outcome.Commit {
		c.logger.Debug("swipe committed", "from", top, "to", newTop, "direction", a.outcome.Direction)
		if c.cfg.OnSwipe != nil {
			c.cfg.OnSwipe(newTop)
		}
	}
	// OnSwipe may have started a new gesture; leave its state alone.
	if c.gen == gen && c.anim == nil {
		c.state = Idle
	}
}
