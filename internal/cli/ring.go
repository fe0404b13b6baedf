package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swipestack/pkg/deck"
)

type ringOptions struct {
	visible int
	rotate  int
	labels  []string
	output  string
	dot     bool
}

func (c *CLI) ringCommand() *cobra.Command {
	opts := ringOptions{visible: 4}

	cmd := &cobra.Command{
		Use:   "ring",
		Short: "Draw the ring order of a deck",
		Long: `Rotate a deck and draw its ring order with Graphviz. Positive --rotate
values swipe forward, negative values swipe backward. The top item is
drawn with a bold border.`,
		Example: `  swipestack ring --visible 5 --rotate 2 -o ring.svg
  swipestack ring --rotate -1 --labels a,b,c,d --dot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRing(cmd, opts)
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&opts.visible, "visible", opts.visible, "ring size")
	fl.IntVar(&opts.rotate, "rotate", 0, "rotations to apply (sign is the direction)")
	fl.StringSliceVar(&opts.labels, "labels", nil, "item labels, by id")
	fl.StringVarP(&opts.output, "output", "o", "ring.svg", "output file")
	fl.BoolVar(&opts.dot, "dot", false, "print DOT source to stdout instead of rendering")
	return cmd
}

func (c *CLI) runRing(cmd *cobra.Command, opts ringOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	d, err := deck.New(opts.visible)
	if err != nil {
		return err
	}
	dir := deck.Forward
	if opts.rotate < 0 {
		dir = deck.Backward
	}
	for range abs(opts.rotate) {
		if _, err := d.Rotate(dir); err != nil {
			return err
		}
	}
	logger.Debug("deck rotated", "order", d.String())

	labels := labelsFor(opts.labels, opts.visible)
	if opts.dot {
		_, err := fmt.Fprint(cmd.OutOrStdout(), d.ToDOT(labels))
		return err
	}

	sp := newSpinner(ctx, ringSpinnerLabel(opts.visible, opts.rotate))
	sp.Start()
	svg, err := d.RenderSVG(ctx, labels)
	if err != nil {
		if sp.Cancelled() {
			sp.Stop()
			return ctx.Err()
		}
		sp.StopWithError("render failed")
		return fmt.Errorf("render ring: %w", err)
	}
	sp.Stop()

	if err := writeFile(opts.output, svg); err != nil {
		return err
	}
	printInfo("top is %s, order %s", StyleValue.Render(labels[d.Top()]), formatOrder(d.Order(), labels))
	printNextStep("Swipe it yourself", fmt.Sprintf("%s demo --visible %d", appName, opts.visible))
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
