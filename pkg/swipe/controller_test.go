package swipe

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/swipestack/pkg/deck"
	"github.com/matzehuels/swipestack/pkg/observability"
)

const frame = 16 * time.Millisecond

type swipeRecorder struct {
	tops []int
}

func (r *swipeRecorder) record(top int) { r.tops = append(r.tops, top) }

func newTestController(t *testing.T, mutate func(*Config)) (*Controller, *swipeRecorder) {
	t.Helper()
	rec := &swipeRecorder{}
	cfg := DefaultConfig()
	cfg.ItemWidth = 300
	cfg.VisibleCount = 4
	cfg.DistanceThreshold = 0.5
	cfg.SettleDuration = 300 * time.Millisecond
	cfg.OnSwipe = rec.record
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c, rec
}

func drag(c *Controller, dx float64) {
	c.DragStartTop(Point{X: 100, Y: 50})
	c.DragUpdate(Point{X: 100 + dx/2, Y: 52})
	c.DragUpdate(Point{X: 100 + dx, Y: 55})
}

func settle(c *Controller) int {
	frames := 0
	for c.Tick(frame) {
		frames++
		if frames > 1000 {
			panic("settle did not terminate")
		}
	}
	return frames
}

func TestScenarioCommitForward(t *testing.T) {
	c, rec := newTestController(t, nil)

	drag(c, 200)
	assert.Equal(t, Dragging, c.State())
	assert.Equal(t, 200.0, c.Offset())

	out := c.DragEnd(20)
	assert.Equal(t, CommitTo(deck.Forward), out)
	assert.Equal(t, Settling, c.State())

	settle(c)
	assert.Equal(t, []int{1}, rec.tops)
	assert.Equal(t, []int{1, 2, 3, 0}, c.Order())
	assert.Equal(t, 0.0, c.Offset())
	assert.Equal(t, Idle, c.State())
}

func TestScenarioCancel(t *testing.T) {
	c, rec := newTestController(t, nil)

	drag(c, 50)
	out := c.DragEnd(50)
	assert.Equal(t, Cancel, out)

	c.Tick(150 * time.Millisecond)
	assert.InDelta(t, 25.0, c.Offset(), 1e-9)
	assert.Equal(t, Settling, c.State())

	assert.False(t, c.Tick(150*time.Millisecond))
	assert.Equal(t, 0.0, c.Offset())
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, c.Top())
	assert.Empty(t, rec.tops)
}

func TestScenarioBoundedStart(t *testing.T) {
	c, rec := newTestController(t, func(cfg *Config) {
		cfg.VisibleCount = 2
		cfg.Circular = false
	})

	drag(c, -400)
	out := c.DragEnd(-5000)
	assert.Equal(t, Cancel, out)

	settle(c)
	assert.Equal(t, 0, c.Top())
	assert.Equal(t, []int{0, 1}, c.Order())
	assert.Empty(t, rec.tops)
}

func TestScenarioInterruptedCommit(t *testing.T) {
	c, rec := newTestController(t, nil)

	drag(c, 200)
	require.Equal(t, CommitTo(deck.Forward), c.DragEnd(0))
	gen := c.Generation()

	c.Tick(100 * time.Millisecond)
	live := c.Offset()
	assert.InDelta(t, 200+(360-200)/3.0, live, 1e-9)

	require.True(t, c.DragStartTop(Point{X: 500}))
	assert.Equal(t, Dragging, c.State())
	assert.NotEqual(t, gen, c.Generation())
	assert.False(t, c.Animating())
	assert.Equal(t, live, c.Offset())

	// Ticks for the superseded animation are dropped.
	assert.False(t, c.Tick(time.Second))
	assert.Empty(t, rec.tops)
	assert.Equal(t, 0, c.Top())

	// Dragging resumes from the interpolated offset.
	c.DragUpdate(Point{X: 500})
	assert.InDelta(t, live, c.Offset(), 1e-9)
	c.DragUpdate(Point{X: 450})
	assert.InDelta(t, live-50, c.Offset(), 1e-9)

	c.DragEnd(0)
	settle(c)
	assert.Equal(t, []int{1}, rec.tops)
	assert.Equal(t, 1, c.Top())
}

func TestInterruptedCancelResumesFromLiveOffset(t *testing.T) {
	c, rec := newTestController(t, nil)

	drag(c, 100)
	require.Equal(t, Cancel, c.DragEnd(0))
	c.Tick(150 * time.Millisecond)
	require.InDelta(t, 50.0, c.Offset(), 1e-9)

	c.DragStartTop(Point{X: 0})
	c.DragUpdate(Point{X: 120})
	assert.InDelta(t, 170.0, c.Offset(), 1e-9)
	assert.Equal(t, CommitTo(deck.Forward), c.DragEnd(0))
	settle(c)
	assert.Equal(t, []int{1}, rec.tops)
}

func TestCommitSettleDuration(t *testing.T) {
	c, _ := newTestController(t, nil)

	drag(c, 200)
	c.DragEnd(0)

	assert.True(t, c.Tick(299*time.Millisecond))
	assert.InDelta(t, 360.0, c.Offset(), 1.0)
	assert.False(t, c.Tick(time.Millisecond))
	assert.Equal(t, 0.0, c.Offset())
	assert.Equal(t, 1, c.Top())
}

func TestOvershootTarget(t *testing.T) {
	c, _ := newTestController(t, func(cfg *Config) { cfg.Overshoot = 1.5 })

	drag(c, -200)
	require.Equal(t, CommitTo(deck.Backward), c.DragEnd(0))
	c.Tick(299 * time.Millisecond)
	assert.InDelta(t, -450.0, c.Offset(), 1.0)
	settle(c)
	assert.Equal(t, 3, c.Top())
}

func TestSwipeCallbackSeesConsistentState(t *testing.T) {
	var c *Controller
	var seenOffset float64
	var seenTop int
	calls := 0

	c, _ = newTestController(t, func(cfg *Config) {
		cfg.OnSwipe = func(top int) {
			calls++
			seenOffset = c.Offset()
			seenTop = c.Top()
			assert.Equal(t, top, seenTop)
		}
	})

	drag(c, 250)
	c.DragEnd(0)
	settle(c)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0.0, seenOffset)
	assert.Equal(t, 1, seenTop)
}

func TestSwipeCallbackMayStartNextSwipe(t *testing.T) {
	var c *Controller
	var tops []int
	c, _ = newTestController(t, func(cfg *Config) {
		cfg.OnSwipe = func(top int) {
			tops = append(tops, top)
			if len(tops) == 1 {
				c.SwipeForward()
			}
		}
	})

	c.SwipeForward()
	settle(c)
	assert.Equal(t, []int{1, 2}, tops)
	assert.Equal(t, Idle, c.State())
}

func TestDragOnNonTopIgnored(t *testing.T) {
	c, _ := newTestController(t, nil)

	assert.False(t, c.DragStart(Point{X: 10}, 2))
	assert.Equal(t, Idle, c.State())

	c.DragUpdate(Point{X: 400})
	assert.Equal(t, 0.0, c.Offset())
	assert.Equal(t, Cancel, c.DragEnd(5000))
	assert.False(t, c.Animating())

	assert.True(t, c.DragStart(Point{X: 10}, 0))
	assert.Equal(t, Dragging, c.State())
}

func TestReleaseAtRestFinishesImmediately(t *testing.T) {
	c, rec := newTestController(t, nil)

	c.DragStartTop(Point{X: 10})
	assert.Equal(t, Cancel, c.DragEnd(0))
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Tick(frame))
	assert.Empty(t, rec.tops)
}

func TestProgressClamped(t *testing.T) {
	c, _ := newTestController(t, nil)

	c.DragStartTop(Point{})
	c.DragUpdate(Point{X: 150})
	assert.Equal(t, 0.5, c.Progress())
	c.DragUpdate(Point{X: 900})
	assert.Equal(t, 1.0, c.Progress())
	assert.Equal(t, 900.0, c.Offset())
	c.DragUpdate(Point{X: -900})
	assert.Equal(t, -1.0, c.Progress())
}

func TestProgrammaticSwipe(t *testing.T) {
	tests := []struct {
		name     string
		circular bool
		dir      deck.Direction
		want     Outcome
		wantTop  int
	}{
		{"circular forward", true, deck.Forward, CommitTo(deck.Forward), 1},
		{"circular backward", true, deck.Backward, CommitTo(deck.Backward), 3},
		{"bounded forward", false, deck.Forward, CommitTo(deck.Forward), 1},
		{"bounded backward", false, deck.Backward, Cancel, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestController(t, func(cfg *Config) { cfg.Circular = tt.circular })
			var got Outcome
			if tt.dir == deck.Forward {
				got = c.SwipeForward()
			} else {
				got = c.SwipeBackward()
			}
			assert.Equal(t, tt.want, got)
			settle(c)
			assert.Equal(t, tt.wantTop, c.Top())
			if tt.want.Commit {
				assert.Equal(t, []int{tt.wantTop}, rec.tops)
			} else {
				assert.Empty(t, rec.tops)
			}
		})
	}
}

func TestBoundedDeckWalk(t *testing.T) {
	c, rec := newTestController(t, func(cfg *Config) { cfg.Circular = false })

	for range 5 {
		c.SwipeForward()
		settle(c)
	}
	assert.Equal(t, []int{1, 2, 3}, rec.tops)
	assert.Equal(t, 3, c.Top())

	drag(c, 400)
	assert.Equal(t, Cancel, c.DragEnd(0))
	settle(c)
	assert.Equal(t, 3, c.Top())
}

func TestShortDeckBounded(t *testing.T) {
	c, rec := newTestController(t, func(cfg *Config) {
		cfg.ItemCount = 2
		cfg.Circular = false
	})
	require.Equal(t, []int{0, 1}, c.Order())

	outcomes := make([]Outcome, 0, 3)
	for range 3 {
		outcomes = append(outcomes, c.SwipeForward())
		settle(c)
	}
	assert.Equal(t, []Outcome{CommitTo(deck.Forward), Cancel, Cancel}, outcomes)
	assert.Equal(t, []int{1}, rec.tops)
	assert.Equal(t, 1, c.Top(), "the last item is the boundary")

	drag(c, 400)
	assert.Equal(t, Cancel, c.DragEnd(0))
	settle(c)
	assert.Equal(t, 1, c.Top())
}

func TestShortDeckCircular(t *testing.T) {
	c, rec := newTestController(t, func(cfg *Config) { cfg.ItemCount = 2 })

	for range 3 {
		c.SwipeForward()
		settle(c)
	}
	assert.Equal(t, []int{1, 0, 1}, rec.tops, "wraps without blank tops")

	c.SwipeBackward()
	settle(c)
	assert.Equal(t, 0, c.Top())
	assert.Len(t, c.Order(), 2)
}

func TestCommitWithInvalidDirectionSettlesAsCancel(t *testing.T) {
	c, rec := newTestController(t, nil)
	c.state = Settling
	c.anim = &animation{duration: frame, curve: Linear, outcome: Outcome{Commit: true}}

	assert.False(t, c.Tick(frame))
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []int{0, 1, 2, 3}, c.Order())
	assert.Empty(t, rec.tops)
}

func TestSwipeIgnoredWhileDragging(t *testing.T) {
	c, _ := newTestController(t, nil)
	drag(c, 20)
	assert.Equal(t, Cancel, c.SwipeForward())
	assert.Equal(t, Dragging, c.State())
}

func TestRapidSwipesSupersede(t *testing.T) {
	c, rec := newTestController(t, nil)

	c.SwipeForward()
	c.Tick(frame)
	c.SwipeForward()
	settle(c)

	// The first animation was superseded before rotating.
	assert.Equal(t, []int{1}, rec.tops)
}

func TestReset(t *testing.T) {
	c, rec := newTestController(t, nil)
	c.SwipeForward()
	settle(c)
	drag(c, 200)
	c.DragEnd(0)
	c.Tick(frame)

	c.Reset()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0.0, c.Offset())
	assert.Equal(t, 0, c.Top())
	assert.False(t, c.Tick(time.Second))
	assert.Equal(t, []int{1}, rec.tops)
}

func TestPolicyGrid(t *testing.T) {
	for name, p := range policies {
		for _, circular := range []bool{true, false} {
			t.Run(fmt.Sprintf("%s/circular=%v", name, circular), func(t *testing.T) {
				c, rec := newTestController(t, func(cfg *Config) {
					*cfg = cfg.WithPolicy(p)
					cfg.Circular = circular
				})
				limit := c.Config().DistancePx()

				drag(c, limit*0.9)
				assert.Equal(t, Cancel, c.DragEnd(p.Velocity*0.9))
				settle(c)
				assert.Equal(t, 0.0, c.Offset())
				assert.Equal(t, 0, c.Top())

				drag(c, limit*0.2)
				assert.Equal(t, CommitTo(deck.Forward), c.DragEnd(p.Velocity*1.1))
				settle(c)
				assert.Equal(t, 1, c.Top())

				c.Reset()
				drag(c, -limit*1.1)
				want := CommitTo(deck.Backward)
				if !circular {
					want = Cancel
				}
				assert.Equal(t, want, c.DragEnd(0))
				settle(c)
				if circular {
					assert.Equal(t, []int{1, 3}, rec.tops)
				} else {
					assert.Equal(t, []int{1}, rec.tops)
				}
			})
		}
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "settling", Settling.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestHooksReceiveGestureEvents(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetGestureHooks(hooks)
	t.Cleanup(observability.Reset)

	c, _ := newTestController(t, nil)
	drag(c, 200)
	c.DragEnd(0)
	c.Tick(frame)
	c.DragStartTop(Point{}) // interrupt
	c.DragEnd(0)
	settle(c)

	assert.Equal(t, 2, hooks.starts)
	assert.Equal(t, []string{"commit(forward)", "commit(forward)"}, hooks.releases)
	assert.Equal(t, []string{"commit(forward)"}, hooks.interrupts)
	assert.Equal(t, []string{"commit(forward)"}, hooks.settles)
}

type recordingHooks struct {
	observability.NoopGestureHooks
	starts     int
	releases   []string
	settles    []string
	interrupts []string
}

func (h *recordingHooks) OnDragStart(int) { h.starts++ }
func (h *recordingHooks) OnRelease(_ int, _, _ float64, outcome string) {
	h.releases = append(h.releases, outcome)
}
func (h *recordingHooks) OnSettle(_, _ int, outcome string, _ time.Duration) {
	h.settles = append(h.settles, outcome)
}
func (h *recordingHooks) OnInterrupt(_ int, outcome string, _ time.Duration) {
	h.interrupts = append(h.interrupts, outcome)
}
