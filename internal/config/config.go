// Package config loads swipestack settings from TOML files.
//
// A file has four optional parts:
//
//	[deck]        width, height, spacing, visible, items, circular, labels
//	[thresholds]  policy ("half" | "quarter"), distance, velocity,
//	              settle, overshoot, curve ("linear" | "ease-out")
//	[stack]       stagger_y, stagger_angle, scale_step, min_scale,
//	              max_tilt, opacity_step, min_opacity, fan
//	[[gesture]]   kind, dx, duration, velocity, target
//
// Missing keys keep their defaults. Unknown keys are an error so typos do
// not go unnoticed.
package config

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	serrors "github.com/matzehuels/swipestack/pkg/errors"
	"github.com/matzehuels/swipestack/pkg/playback"
	"github.com/matzehuels/swipestack/pkg/stack"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

// Settings is everything a host needs to build a controller and draw it.
type Settings struct {
	Swipe  swipe.Config
	Stack  stack.Params
	Script []playback.Gesture
	Labels []string
}

// Default returns the built-in settings with an empty script.
func Default() Settings {
	cfg := swipe.DefaultConfig()
	return Settings{Swipe: cfg, Stack: stack.ParamsFor(cfg)}
}

type file struct {
	Deck       deckTable          `toml:"deck"`
	Thresholds thresholdTable     `toml:"thresholds"`
	Stack      stackTable         `toml:"stack"`
	Gestures   []playback.Gesture `toml:"gesture"`
}

type deckTable struct {
	Width    float64  `toml:"width"`
	Height   float64  `toml:"height"`
	Spacing  float64  `toml:"spacing"`
	Visible  int      `toml:"visible"`
	Items    int      `toml:"items"`
	Circular bool     `toml:"circular"`
	Labels   []string `toml:"labels"`
}

type thresholdTable struct {
	Policy    string        `toml:"policy"`
	Distance  float64       `toml:"distance"`
	Velocity  float64       `toml:"velocity"`
	Settle    time.Duration `toml:"settle"`
	Overshoot float64       `toml:"overshoot"`
	Curve     string        `toml:"curve"`
}

type stackTable struct {
	StaggerY     float64 `toml:"stagger_y"`
	StaggerAngle float64 `toml:"stagger_angle"`
	ScaleStep    float64 `toml:"scale_step"`
	MinScale     float64 `toml:"min_scale"`
	MaxTilt      float64 `toml:"max_tilt"`
	OpacityStep  float64 `toml:"opacity_step"`
	MinOpacity   float64 `toml:"min_opacity"`
	Fan          bool    `toml:"fan"`
}

var policies = map[string]swipe.Policy{
	"half":    swipe.PolicyHalf,
	"quarter": swipe.PolicyQuarter,
}

var curves = map[string]swipe.Curve{
	"linear":   swipe.Linear,
	"ease-out": swipe.EaseOut,
}

// Load reads and parses the file at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return s, nil
}

// Parse decodes TOML data on top of [Default] and validates the result.
func Parse(data []byte) (Settings, error) {
	def := Default()
	f := fromSettings(def)

	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return Settings{}, serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "parse toml")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		slices.Sort(names)
		return Settings{}, serrors.New(serrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(names, ", "))
	}

	s := def
	s.Labels = f.Deck.Labels
	s.Script = f.Gestures

	cfg := &s.Swipe
	cfg.ItemWidth = f.Deck.Width
	cfg.ItemHeight = f.Deck.Height
	cfg.StackSpacing = f.Deck.Spacing
	cfg.VisibleCount = f.Deck.Visible
	cfg.ItemCount = f.Deck.Items
	cfg.Circular = f.Deck.Circular

	// A preset applies first so explicit distance/velocity keys refine it.
	if md.IsDefined("thresholds", "policy") {
		p, ok := policies[f.Thresholds.Policy]
		if !ok {
			return Settings{}, serrors.New(serrors.ErrCodeInvalidConfig, "unknown policy %q", f.Thresholds.Policy)
		}
		*cfg = cfg.WithPolicy(p)
	}
	if md.IsDefined("thresholds", "distance") {
		cfg.DistanceThreshold = f.Thresholds.Distance
	}
	if md.IsDefined("thresholds", "velocity") {
		cfg.VelocityThreshold = f.Thresholds.Velocity
	}
	cfg.SettleDuration = f.Thresholds.Settle
	cfg.Overshoot = f.Thresholds.Overshoot
	curve, ok := curves[f.Thresholds.Curve]
	if !ok {
		return Settings{}, serrors.New(serrors.ErrCodeInvalidConfig, "unknown curve %q", f.Thresholds.Curve)
	}
	cfg.Curve = curve

	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}

	s.Stack = stack.ParamsFor(*cfg)
	s.Stack.StaggerY = f.Stack.StaggerY
	s.Stack.StaggerAngle = f.Stack.StaggerAngle
	s.Stack.ScaleStep = f.Stack.ScaleStep
	s.Stack.MinScale = f.Stack.MinScale
	s.Stack.MaxTilt = f.Stack.MaxTilt
	s.Stack.OpacityStep = f.Stack.OpacityStep
	s.Stack.MinOpacity = f.Stack.MinOpacity
	s.Stack.Fan = f.Stack.Fan

	for i, g := range s.Script {
		if err := g.Validate(); err != nil {
			return Settings{}, serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "gesture %d", i)
		}
	}
	return s, nil
}

// fromSettings seeds the decode target so untouched keys keep s's values.
func fromSettings(s Settings) file {
	c, p := s.Swipe, s.Stack
	return file{
		Deck: deckTable{
			Width:    c.ItemWidth,
			Height:   c.ItemHeight,
			Spacing:  c.StackSpacing,
			Visible:  c.VisibleCount,
			Items:    c.ItemCount,
			Circular: c.Circular,
		},
		Thresholds: thresholdTable{
			Distance:  c.DistanceThreshold,
			Velocity:  c.VelocityThreshold,
			Settle:    c.SettleDuration,
			Overshoot: c.Overshoot,
			Curve:     "linear",
		},
		Stack: stackTable{
			StaggerY:     p.StaggerY,
			StaggerAngle: p.StaggerAngle,
			ScaleStep:    p.ScaleStep,
			MinScale:     p.MinScale,
			MaxTilt:      p.MaxTilt,
			OpacityStep:  p.OpacityStep,
			MinOpacity:   p.MinOpacity,
			Fan:          p.Fan,
		},
	}
}
