package swipe

import "time"

// Curve maps linear time t in [0, 1] to interpolation progress.
// Curves must satisfy f(0) = 0 and f(1) = 1.
type Curve func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// EaseOut decelerates towards the end (cubic).
func EaseOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// animation interpolates the live offset from one value to another over a
// fixed duration. It is advanced by discrete ticks, never by a blocking wait.
type animation struct {
	from, to float64
	duration time.Duration
	elapsed  time.Duration
	curve    Curve
	outcome  Outcome
}

func (a *animation) value() float64 {
	t := float64(a.elapsed) / float64(a.duration)
	if t >= 1 {
		return a.to
	}
	return a.from + (a.to-a.from)*a.curve(t)
}

func (a *animation) advance(dt time.Duration) (done bool) {
	if dt > 0 {
		a.elapsed += dt
	}
	return a.elapsed >= a.duration
}
