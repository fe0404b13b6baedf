package swipe

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval is the tick period of a [Driver] (about 60 Hz).
const DefaultFrameInterval = 16 * time.Millisecond

// Driver confines a [Controller] behind a mutex and advances its settle
// animation from a ticker goroutine. Use it when pointer events and frame
// reads arrive on goroutines other than the one that owns the controller,
// for example from HTTP handlers.
//
// OnSwipe runs on the ticker goroutine with the driver lock held, so it
// must not call [Driver.Do].
type Driver struct {
	ctrl     *Controller
	interval time.Duration

	mu      sync.Mutex
	last    time.Time
	gen     uint64
	now     func() time.Time
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewDriver wraps c. A non-positive interval selects [DefaultFrameInterval].
func NewDriver(c *Controller, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Driver{ctrl: c, interval: interval, now: time.Now, gen: c.Generation()}
}

// Do runs fn with exclusive access to the controller.
func (d *Driver) Do(fn func(c *Controller)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.ctrl)
	if g := d.ctrl.Generation(); g != d.gen {
		// A new animation starts its clock now, not at the previous tick.
		d.gen = g
		d.last = d.now()
	}
}

// Start begins ticking until ctx is cancelled or Stop is called.
// Calling Start on a running driver is a no-op.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.stopped = make(chan struct{})
	d.last = d.now()
	stopped := d.stopped
	d.mu.Unlock()

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.tick()
			}
		}
	}()
}

// Stop halts the ticker goroutine and waits for it to exit.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel, stopped := d.cancel, d.stopped
	d.cancel, d.stopped = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

func (d *Driver) tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	dt := now.Sub(d.last)
	d.last = now
	if !d.ctrl.Animating() {
		return
	}
	d.ctrl.Tick(dt)
	d.gen = d.ctrl.Generation()
}
