package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swipestack/internal/config"
	"github.com/matzehuels/swipestack/pkg/playback"
	"github.com/matzehuels/swipestack/pkg/sink"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

// defaultScript runs when the config has no [[gesture]] entries: a commit,
// a drag released short, a commit interrupted by a new drag, then keyboard
// swipes in both directions.
var defaultScript = []playback.Gesture{
	{Kind: playback.KindDrag, DX: 200, Duration: 160 * time.Millisecond},
	{Kind: playback.KindWait},
	{Kind: playback.KindDrag, DX: 90, Duration: 400 * time.Millisecond},
	{Kind: playback.KindWait},
	{Kind: playback.KindDrag, DX: 200, Duration: 160 * time.Millisecond},
	{Kind: playback.KindDrag, DX: -200, Duration: 400 * time.Millisecond},
	{Kind: playback.KindSwipeForward},
	{Kind: playback.KindWait},
	{Kind: playback.KindSwipeBackward},
}

type simulateOptions struct {
	settings settingsFlags
	interval time.Duration
	jsonOut  string
	svgOut   string
	pngOut   string
	frame    int
	last     bool
}

func (c *CLI) simulateCommand() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a gesture script and export the frames",
		Long: `Play the [[gesture]] entries of the config file (or a built-in script)
against a card stack at a fixed frame rate. Frames can be written as JSON,
and a single frame as SVG or PNG.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.settings.load(cmd)
			if err != nil {
				return err
			}
			return c.runSimulate(cmd, s, opts)
		},
	}

	opts.settings.register(cmd)
	fl := cmd.Flags()
	fl.DurationVar(&opts.interval, "interval", playback.DefaultInterval, "frame period")
	fl.StringVar(&opts.jsonOut, "json", "", "write frames as JSON to this file")
	fl.BoolVar(&opts.last, "last-only", false, "keep only the final frame in the JSON output")
	fl.StringVar(&opts.svgOut, "svg", "", "write one frame as SVG to this file")
	fl.StringVar(&opts.pngOut, "png", "", "write one frame as PNG to this file (needs rsvg-convert)")
	fl.IntVar(&opts.frame, "frame", -1, "frame to draw for --svg/--png (negative counts from the end)")
	return cmd
}

func (c *CLI) runSimulate(cmd *cobra.Command, s config.Settings, opts simulateOptions) error {
	logger := loggerFromContext(cmd.Context())

	script := s.Script
	if len(script) == 0 {
		logger.Debug("no gestures configured, using the built-in script")
		script = scaleScript(defaultScript, s.Swipe.ItemWidth/swipe.DefaultItemWidth)
	}

	cfg := s.Swipe
	cfg.Logger = logger
	ctrl, err := swipe.New(cfg)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	rec, err := playback.NewPlayer(ctrl, s.Stack, opts.interval).Play(script)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	prog.done(fmt.Sprintf("Played %d gestures over %d frames", len(script), len(rec.Frames)))

	labels := labelsFor(s.Labels, cfg.Items())
	if err := writeSimulation(rec, labels, cfg, opts); err != nil {
		return err
	}

	fmt.Fprintln(out, summaryTable(rec))
	printKeyValue("final order", formatOrder(rec.Final, labels))
	printKeyValue("frames", fmt.Sprint(len(rec.Frames)))
	return nil
}

func writeSimulation(rec playback.Recording, labels []string, cfg swipe.Config, opts simulateOptions) error {
	if opts.jsonOut != "" {
		jopts := []sink.JSONOption{sink.WithJSONLabels(labels)}
		if opts.last {
			jopts = append(jopts, sink.WithJSONLastFrame())
		}
		data, err := sink.RenderJSON(rec, jopts...)
		if err != nil {
			return fmt.Errorf("encode frames: %w", err)
		}
		if err := writeFile(opts.jsonOut, data); err != nil {
			return err
		}
	}
	if opts.svgOut == "" && opts.pngOut == "" {
		return nil
	}

	snap, err := pickFrame(rec, opts.frame)
	if err != nil {
		return err
	}
	svgOpts := []sink.SVGOption{sink.WithCard(cfg.ItemWidth, cfg.ItemHeight), sink.WithLabels(labels)}
	if opts.svgOut != "" {
		if err := writeFile(opts.svgOut, sink.RenderSVG(snap.Placements, svgOpts...)); err != nil {
			return err
		}
	}
	if opts.pngOut != "" {
		data, err := sink.RenderPNG(snap.Placements, 2, svgOpts...)
		if err != nil {
			return err
		}
		if err := writeFile(opts.pngOut, data); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

func pickFrame(rec playback.Recording, i int) (playback.Snapshot, error) {
	n := len(rec.Frames)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return playback.Snapshot{}, fmt.Errorf("frame %d out of range [0, %d)", i, n)
	}
	return rec.Frames[i], nil
}

// scaleScript stretches drag distances to the configured item width.
func scaleScript(script []playback.Gesture, f float64) []playback.Gesture {
	out := make([]playback.Gesture, len(script))
	for i, g := range script {
		g.DX *= f
		g.Velocity *= f
		out[i] = g
	}
	return out
}

func summaryTable(rec playback.Recording) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(rec.Steps))
	for i, st := range rec.Steps {
		outcome := st.Outcome
		if outcome == "" {
			outcome = "-"
		}
		rows[i] = []string{fmt.Sprint(i + 1), string(st.Gesture.Kind), describeGesture(st.Gesture), fmt.Sprint(st.Frames), outcome}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Gesture", "Detail", "Frames", "Outcome").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 && row < len(rows) {
				return outcomeStyle(rows[row][4])
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func describeGesture(g playback.Gesture) string {
	switch g.Kind {
	case playback.KindDrag:
		d := fmt.Sprintf("dx %+.0f over %s", g.DX, g.Duration)
		if g.Velocity != 0 {
			d += fmt.Sprintf(", release %.0f/s", g.Velocity)
		}
		if g.Target != nil {
			d += fmt.Sprintf(", on #%d", *g.Target)
		}
		return d
	case playback.KindWait:
		if g.Duration == 0 {
			return "until idle"
		}
		return g.Duration.String()
	}
	return ""
}

// formatOrder lists labels top first.
func formatOrder(order []int, labels []string) string {
	names := make([]string, len(order))
	for i, id := range order {
		if id < len(labels) {
			names[i] = labels[id]
		} else {
			names[i] = fmt.Sprintf("(#%d)", id)
		}
	}
	return strings.Join(names, " "+iconArrow+" ")
}
