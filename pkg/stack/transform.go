package stack

import (
	"math"

	"github.com/matzehuels/swipestack/pkg/swipe"
)

// Transform is the render transform of one item for one frame.
type Transform struct {
	TranslateX float64 `json:"tx"`
	TranslateY float64 `json:"ty"`
	Rotation   float64 `json:"rot"` // radians, clockwise positive
	Scale      float64 `json:"scale"`
	Opacity    float64 `json:"opacity"`
}

// Drag is the live state of the top item.
type Drag struct {
	Offset   float64 // horizontal offset in length units
	Progress float64 // Offset / item width, clamped to [-1, 1]
}

// Params tunes the stacked look.
type Params struct {
	Spacing      float64 // horizontal shift per position
	StaggerY     float64 // vertical shift per position
	StaggerAngle float64 // radians per position
	ScaleStep    float64
	MinScale     float64
	MaxTilt      float64 // top item rotation at |progress| = 1
	OpacityStep  float64
	MinOpacity   float64

	// Fan signs the stagger of each item by which half of the ring it sits
	// in: items in the front half lean one way, items about to come back
	// from a backward swipe lean the other.
	Fan bool

	// Visible is the ring size. Items is the logical item count; positions
	// holding an id >= Items are left out of frames, which only matters for
	// sources whose ring is longer than their item list. Zero means Visible.
	Visible int
	Items   int
}

// DefaultParams returns the stock look for a ring of visible items.
func DefaultParams(visible int) Params {
	return Params{
		Spacing:      swipe.DefaultStackSpacing,
		StaggerY:     6,
		StaggerAngle: 0.03,
		ScaleStep:    0.05,
		MinScale:     0.6,
		MaxTilt:      0.3,
		OpacityStep:  0.15,
		MinOpacity:   0.2,
		Visible:      visible,
	}
}

// ParamsFor derives params from a controller configuration.
func ParamsFor(cfg swipe.Config) Params {
	p := DefaultParams(cfg.Items())
	p.Spacing = cfg.StackSpacing
	p.Items = cfg.Items()
	return p
}

// Compute returns the transform of the item at position given the live drag.
// Drag only affects the top item. Compute is deterministic and has no side
// effects.
func (p Params) Compute(position int, d Drag, isTop bool) Transform {
	depth := float64(max(position, 0))
	t := Transform{
		Scale:   math.Max(p.MinScale, 1-depth*p.ScaleStep),
		Opacity: math.Max(p.MinOpacity, 1-depth*p.OpacityStep),
	}
	if isTop {
		t.TranslateX = d.Offset
		t.Rotation = clamp(d.Progress, -1, 1) * p.MaxTilt
		return t
	}

	side := p.side(position)
	t.TranslateX = side * depth * p.Spacing
	t.TranslateY = depth * p.StaggerY
	t.Rotation = side * depth * p.StaggerAngle
	return t
}

// side is +1 for items behind the top and, when fanning, -1 for items in
// the back half of the ring (ahead of the top when walking backwards).
func (p Params) side(position int) float64 {
	if p.Fan && p.Visible > 2 && 2*position > p.Visible {
		return -1
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
