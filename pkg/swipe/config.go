package swipe

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	serrors "github.com/matzehuels/swipestack/pkg/errors"
)

// Policy is a pair of commit thresholds.
type Policy struct {
	// Distance is the fraction of ItemWidth the drag must travel.
	Distance float64
	// Velocity is the release speed (length units per second) that commits
	// regardless of distance.
	Velocity float64
}

// Threshold presets. Both are in common use; neither is more correct.
var (
	// PolicyHalf commits at half the item width or 1000 units/s.
	PolicyHalf = Policy{Distance: 0.5, Velocity: 1000}
	// PolicyQuarter commits at a quarter of the item width or 300 units/s.
	PolicyQuarter = Policy{Distance: 0.25, Velocity: 300}
)

// Default construction parameters.
const (
	DefaultItemWidth      = 300.0
	DefaultItemHeight     = 420.0
	DefaultStackSpacing   = 8.0
	DefaultVisibleCount   = 4
	DefaultSettleDuration = 300 * time.Millisecond
	DefaultOvershoot      = 1.2
)

// SwipeFunc is notified with the new top id after a committed swipe.
type SwipeFunc func(newTop int)

// Config holds the construction parameters of a [Controller].
type Config struct {
	ItemWidth    float64 // > 0
	ItemHeight   float64 // > 0
	StackSpacing float64 // >= 0
	VisibleCount int     // visible window, >= 1

	// ItemCount is the number of logical items when the host has fewer than
	// VisibleCount. Zero means VisibleCount. The ring holds exactly Items()
	// ids, so a short deck never rotates onto an id with no item.
	ItemCount int // 0 <= ItemCount <= VisibleCount

	SettleDuration time.Duration // > 0

	DistanceThreshold float64 // fraction of ItemWidth in (0, 1]
	VelocityThreshold float64 // units per second, > 0

	// Overshoot scales the exit target of a committed swipe so the item
	// leaves the visible bounds: target = direction * ItemWidth * Overshoot.
	Overshoot float64

	// Circular lets the ring wrap. When false, swiping backward from id 0
	// or forward from the last id is forced to cancel.
	Circular bool

	// Curve eases the settle animation. Nil means Linear.
	Curve Curve

	// OnSwipe is called after every committed rotation. Optional.
	OnSwipe SwipeFunc

	// Logger receives debug events. Nil discards them.
	Logger *log.Logger
}

// DefaultConfig returns the documented defaults with [PolicyHalf].
func DefaultConfig() Config {
	return Config{
		ItemWidth:         DefaultItemWidth,
		ItemHeight:        DefaultItemHeight,
		StackSpacing:      DefaultStackSpacing,
		VisibleCount:      DefaultVisibleCount,
		SettleDuration:    DefaultSettleDuration,
		DistanceThreshold: PolicyHalf.Distance,
		VelocityThreshold: PolicyHalf.Velocity,
		Overshoot:         DefaultOvershoot,
		Circular:          true,
		Curve:             Linear,
	}
}

// WithPolicy returns a copy of c using the thresholds of p.
func (c Config) WithPolicy(p Policy) Config {
	c.DistanceThreshold = p.Distance
	c.VelocityThreshold = p.Velocity
	return c
}

// Items returns the effective logical item count, which is also the ring
// length of the controller's deck.
func (c Config) Items() int {
	if c.ItemCount > 0 {
		return c.ItemCount
	}
	return c.VisibleCount
}

// DistancePx returns the commit distance in length units.
func (c Config) DistancePx() float64 {
	return c.DistanceThreshold * c.ItemWidth
}

// Validate checks every field and returns the first INVALID_CONFIG error.
func (c Config) Validate() error {
	checks := []error{
		serrors.ValidatePositive("item width", c.ItemWidth),
		serrors.ValidatePositive("item height", c.ItemHeight),
		serrors.ValidateNonNegative("stack spacing", c.StackSpacing),
		serrors.ValidateCount("visible count", c.VisibleCount, 1),
		serrors.ValidateCount("item count", c.ItemCount, 0),
		serrors.ValidateFraction("distance threshold", c.DistanceThreshold),
		serrors.ValidatePositive("velocity threshold", c.VelocityThreshold),
		serrors.ValidatePositive("overshoot", c.Overshoot),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.ItemCount > c.VisibleCount {
		return serrors.New(serrors.ErrCodeInvalidConfig, "item count must be <= visible count %d, got %d", c.VisibleCount, c.ItemCount)
	}
	if c.SettleDuration <= 0 {
		return serrors.New(serrors.ErrCodeInvalidConfig, "settle duration must be > 0, got %v", c.SettleDuration)
	}
	return nil
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
