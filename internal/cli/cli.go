// Package cli implements the swipestack command-line interface.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swipestack/internal/config"
	"github.com/matzehuels/swipestack/internal/telemetry"
	"github.com/matzehuels/swipestack/pkg/buildinfo"
	serrors "github.com/matzehuels/swipestack/pkg/errors"
	"github.com/matzehuels/swipestack/pkg/stack"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "swipestack"

	// telemetryShutdownTimeout bounds the final span flush.
	telemetryShutdownTimeout = 5 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	exporter *telemetry.Exporter
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Swipestack drives swipeable card stacks",
		Long:         `Swipestack is a headless engine for swipeable card stacks. Drag the top card past a threshold and the stack rotates; release early and it springs back. The CLI hosts the engine in a terminal UI, a scripted simulator and an HTTP server.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.startTelemetry(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.stopTelemetry()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.demoCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.ringCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Telemetry
// =============================================================================

func (c *CLI) startTelemetry(cmd *cobra.Command) error {
	exp, err := telemetry.NewExporter(cmd.Context())
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if exp != nil {
		c.Logger.Debug("exporting gesture spans over OTLP")
	}
	exp.Install()
	c.exporter = exp
	return nil
}

func (c *CLI) stopTelemetry() error {
	if c.exporter == nil {
		return nil
	}
	ctx, cancel := contextWithTimeout(telemetryShutdownTimeout)
	defer cancel()
	err := c.exporter.Shutdown(ctx)
	c.exporter = nil
	return err
}

// =============================================================================
// Settings Flags
// =============================================================================

// settingsFlags are the config overrides shared by demo, simulate and serve.
// Flags win over the config file.
type settingsFlags struct {
	path     string
	policy   string
	curve    string
	visible  int
	items    int
	circular bool
	fan      bool
	settle   time.Duration
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.path, "config", "c", "", "TOML config file")
	fl.StringVar(&f.policy, "policy", "", "threshold preset: half or quarter")
	fl.StringVar(&f.curve, "curve", "", "settle curve: linear or ease-out")
	fl.IntVar(&f.visible, "visible", swipe.DefaultVisibleCount, "ring size")
	fl.IntVar(&f.items, "items", 0, "logical item count (0 = ring size)")
	fl.BoolVar(&f.circular, "circular", true, "let the ring wrap around")
	fl.BoolVar(&f.fan, "fan", false, "lean back-half items the other way")
	fl.DurationVar(&f.settle, "settle", swipe.DefaultSettleDuration, "settle animation duration")
}

// load reads the config file, if any, and applies changed flags on top.
func (f *settingsFlags) load(cmd *cobra.Command) (config.Settings, error) {
	s := config.Default()
	if f.path != "" {
		var err error
		if s, err = config.Load(f.path); err != nil {
			return s, err
		}
	}

	changed := cmd.Flags().Changed
	cfg := &s.Swipe
	if changed("policy") {
		p, err := parsePolicy(f.policy)
		if err != nil {
			return s, err
		}
		*cfg = cfg.WithPolicy(p)
	}
	if changed("curve") {
		curve, err := parseCurve(f.curve)
		if err != nil {
			return s, err
		}
		cfg.Curve = curve
	}
	if changed("visible") {
		cfg.VisibleCount = f.visible
	}
	if changed("items") {
		cfg.ItemCount = f.items
	}
	if changed("circular") {
		cfg.Circular = f.circular
	}
	if changed("settle") {
		cfg.SettleDuration = f.settle
	}
	if err := cfg.Validate(); err != nil {
		return s, err
	}

	look := s.Stack
	s.Stack = stack.ParamsFor(*cfg)
	s.Stack.StaggerY, s.Stack.StaggerAngle = look.StaggerY, look.StaggerAngle
	s.Stack.ScaleStep, s.Stack.MinScale = look.ScaleStep, look.MinScale
	s.Stack.MaxTilt = look.MaxTilt
	s.Stack.OpacityStep, s.Stack.MinOpacity = look.OpacityStep, look.MinOpacity
	s.Stack.Fan = look.Fan || f.fan
	return s, nil
}

func parsePolicy(name string) (swipe.Policy, error) {
	switch name {
	case "half":
		return swipe.PolicyHalf, nil
	case "quarter":
		return swipe.PolicyQuarter, nil
	}
	return swipe.Policy{}, serrors.New(serrors.ErrCodeInvalidInput, "unknown policy %q (want half or quarter)", name)
}

func parseCurve(name string) (swipe.Curve, error) {
	switch name {
	case "linear":
		return swipe.Linear, nil
	case "ease-out":
		return swipe.EaseOut, nil
	}
	return nil, serrors.New(serrors.ErrCodeInvalidInput, "unknown curve %q (want linear or ease-out)", name)
}

// labelsFor pads labels up to n with "#id" defaults.
func labelsFor(labels []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(labels) && labels[i] != "" {
			out[i] = labels[i]
		} else {
			out[i] = fmt.Sprintf("#%d", i)
		}
	}
	return out
}
