package deck

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the current ring order.
//
// Each id becomes a node labelled with its position and label; edges follow
// the stack from top to back and close the ring. The top node is drawn bold.
// If labels[i] exists, id i is shown as labels[i], otherwise as its number.
// The labels slice is not modified.
func (d *Deck) ToDOT(labels []string) string {
	order := d.Order()

	var buf bytes.Buffer
	buf.WriteString("digraph Deck {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, shape=box, style=\"filled,rounded\", fillcolor=white];\n\n")

	for pos, id := range order {
		label := strconv.Itoa(id)
		if id < len(labels) && labels[id] != "" {
			label = labels[id]
		}
		attrs := fmt.Sprintf("label=%q", label+"\n#"+strconv.Itoa(pos))
		if pos == 0 {
			attrs += ", penwidth=3, fillcolor=\"#e0f2f1\""
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, attrs)
	}

	if len(order) > 1 {
		buf.WriteString("\n")
		for pos, id := range order {
			next := order[(pos+1)%len(order)]
			style := ""
			if pos == len(order)-1 {
				style = " [style=dashed]"
			}
			fmt.Fprintf(&buf, "  n%d -> n%d%s;\n", id, next, style)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders [Deck.ToDOT] to an SVG document using Graphviz.
// Errors are returned if Graphviz cannot initialize, the DOT is malformed,
// or rendering fails.
func (d *Deck) RenderSVG(ctx context.Context, labels []string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(d.ToDOT(labels)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
