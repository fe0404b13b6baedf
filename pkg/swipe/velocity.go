package swipe

import "time"

// DefaultVelocityWindow is the trailing window a [VelocityTracker] averages over.
const DefaultVelocityWindow = 100 * time.Millisecond

// VelocityTracker estimates release velocity for a pointer source as the
// average horizontal displacement over a short trailing window. The
// controller never computes velocity itself; hosts feed it the tracker's
// estimate at DragEnd.
type VelocityTracker struct {
	Window  time.Duration
	samples []sample
}

type sample struct {
	at time.Duration
	x  float64
}

// Reset drops all samples.
func (v *VelocityTracker) Reset() { v.samples = v.samples[:0] }

// Add records the pointer x position at time at (any monotonic origin).
func (v *VelocityTracker) Add(at time.Duration, x float64) {
	v.samples = append(v.samples, sample{at: at, x: x})
	window := v.window()
	cut := 0
	for cut < len(v.samples)-2 && at-v.samples[cut+1].at >= window {
		cut++
	}
	if cut > 0 {
		v.samples = append(v.samples[:0], v.samples[cut:]...)
	}
}

// Velocity returns units per second over the retained window, or 0 with
// fewer than two samples.
func (v *VelocityTracker) Velocity() float64 {
	if len(v.samples) < 2 {
		return 0
	}
	first, last := v.samples[0], v.samples[len(v.samples)-1]
	dt := (last.at - first.at).Seconds()
	if dt <= 0 {
		return 0
	}
	return (last.x - first.x) / dt
}

func (v *VelocityTracker) window() time.Duration {
	if v.Window > 0 {
		return v.Window
	}
	return DefaultVelocityWindow
}
