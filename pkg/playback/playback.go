// Package playback drives a swipe controller from a scripted gesture list
// at a fixed frame rate and records every frame.
//
// It is the headless host behind `swipestack simulate`: scripts come from
// TOML config files, recordings go to the JSON and SVG sinks.
package playback

import (
	"time"

	serrors "github.com/matzehuels/swipestack/pkg/errors"
	"github.com/matzehuels/swipestack/pkg/stack"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

// Kind selects what a gesture step does.
type Kind string

const (
	// KindDrag presses on the top item, moves DX over Duration and releases.
	KindDrag Kind = "drag"
	// KindSwipeForward and KindSwipeBackward run programmatic swipes.
	KindSwipeForward  Kind = "swipe-forward"
	KindSwipeBackward Kind = "swipe-backward"
	// KindWait only ticks. A zero Duration waits until the controller is idle.
	KindWait Kind = "wait"
)

// DefaultInterval is the frame period used when none is given.
const DefaultInterval = 16 * time.Millisecond

// Gesture is one scripted step. The next step starts right after this one,
// so a drag that follows a release lands mid-settle and interrupts it.
type Gesture struct {
	Kind     Kind          `toml:"kind" json:"kind"`
	DX       float64       `toml:"dx" json:"dx,omitempty"`
	Duration time.Duration `toml:"duration" json:"duration,omitempty"`
	// Velocity overrides the tracked release velocity when non-zero.
	Velocity float64 `toml:"velocity" json:"velocity,omitempty"`
	// Target routes the press to a logical id instead of the top.
	Target *int `toml:"target" json:"target,omitempty"`
}

// Validate checks the step for unknown kinds or negative durations.
func (g Gesture) Validate() error {
	switch g.Kind {
	case KindDrag, KindSwipeForward, KindSwipeBackward, KindWait:
	default:
		return serrors.New(serrors.ErrCodeInvalidInput, "unknown gesture kind %q", g.Kind)
	}
	if g.Duration < 0 {
		return serrors.New(serrors.ErrCodeInvalidInput, "gesture duration must be >= 0, got %v", g.Duration)
	}
	return nil
}

// Snapshot is the controller state at one frame.
type Snapshot struct {
	At         time.Duration     `json:"at_ms"`
	State      string            `json:"state"`
	Top        int               `json:"top"`
	Offset     float64           `json:"offset"`
	Placements []stack.Placement `json:"placements"`
}

// Step is what one gesture did. Outcome is empty for waits and for drags
// the controller ignored.
type Step struct {
	Gesture Gesture `json:"gesture"`
	Outcome string  `json:"outcome,omitempty"`
	Frames  int     `json:"frames"`
}

// Recording is the result of a playback.
type Recording struct {
	Interval time.Duration `json:"interval_ms"`
	Frames   []Snapshot    `json:"frames"`
	Outcomes []string      `json:"outcomes"`
	Steps    []Step        `json:"steps"`
	Final    []int         `json:"final_order"`
}

// Player runs scripts against one controller.
type Player struct {
	ctrl     *swipe.Controller
	params   stack.Params
	interval time.Duration

	now      time.Duration
	rec      Recording
	velocity swipe.VelocityTracker
}

// NewPlayer prepares a player. A non-positive interval selects DefaultInterval.
func NewPlayer(ctrl *swipe.Controller, params stack.Params, interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Player{ctrl: ctrl, params: params, interval: interval}
}

// Play runs every step, then waits for the last settle, and returns the
// recording. The first frame is captured before any step runs.
func (p *Player) Play(script []Gesture) (Recording, error) {
	for i, g := range script {
		if err := g.Validate(); err != nil {
			return Recording{}, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "gesture %d", i)
		}
	}

	p.rec = Recording{Interval: p.interval}
	p.snapshot()
	for _, g := range script {
		start := len(p.rec.Frames)
		p.rec.Steps = append(p.rec.Steps, Step{Gesture: g})
		p.step(g)
		p.rec.Steps[len(p.rec.Steps)-1].Frames = len(p.rec.Frames) - start
	}
	p.waitIdle()
	p.rec.Final = p.ctrl.Order()
	return p.rec, nil
}

func (p *Player) step(g Gesture) {
	switch g.Kind {
	case KindDrag:
		p.drag(g)
	case KindSwipeForward:
		p.outcome(p.ctrl.SwipeForward())
		p.frame()
	case KindSwipeBackward:
		p.outcome(p.ctrl.SwipeBackward())
		p.frame()
	case KindWait:
		if g.Duration == 0 {
			p.waitIdle()
			return
		}
		for end := p.now + g.Duration; p.now < end; {
			p.frame()
		}
	}
}

func (p *Player) drag(g Gesture) {
	target := p.ctrl.Top()
	if g.Target != nil {
		target = *g.Target
	}
	// The pointer lands where the item currently is.
	x := p.ctrl.Offset()
	if !p.ctrl.DragStart(swipe.Point{X: x}, target) {
		return
	}
	p.velocity.Reset()
	p.velocity.Add(p.now, x)

	steps := max(1, int(g.Duration/p.interval))
	for i := 1; i <= steps; i++ {
		pos := x + g.DX*float64(i)/float64(steps)
		p.ctrl.DragUpdate(swipe.Point{X: pos})
		p.frame()
		p.velocity.Add(p.now, pos)
	}

	v := g.Velocity
	if v == 0 {
		v = p.velocity.Velocity()
	}
	p.outcome(p.ctrl.DragEnd(v))
}

func (p *Player) waitIdle() {
	for guard := 0; p.ctrl.State() == swipe.Settling && guard < 100000; guard++ {
		p.frame()
	}
}

func (p *Player) outcome(o swipe.Outcome) {
	p.rec.Outcomes = append(p.rec.Outcomes, o.String())
	if n := len(p.rec.Steps); n > 0 {
		p.rec.Steps[n-1].Outcome = o.String()
	}
}

// frame advances time by one interval, ticks and captures.
func (p *Player) frame() {
	p.now += p.interval
	p.ctrl.Tick(p.interval)
	p.snapshot()
}

func (p *Player) snapshot() {
	p.rec.Frames = append(p.rec.Frames, Snapshot{
		At:         p.now,
		State:      p.ctrl.State().String(),
		Top:        p.ctrl.Top(),
		Offset:     p.ctrl.Offset(),
		Placements: stack.Frame(p.ctrl, p.params),
	})
}
