package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/swipestack/pkg/stack"
)

const (
	defaultCardWidth  = 300.0
	defaultCardHeight = 420.0
	defaultMargin     = 60.0
)

var palette = []string{"#26a69a", "#5c6bc0", "#ef5350", "#ffa726", "#8d6e63", "#78909c"}

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	cardW, cardH  float64
	labels        []string
}

// WithSize sets the canvas size. Zero picks a size that fits the card.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithCard sets the card size before transforms.
func WithCard(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.cardW, r.cardH = w, h }
}

// WithLabels names cards by logical id. Missing labels fall back to "#id".
func WithLabels(labels []string) SVGOption {
	return func(r *svgRenderer) { r.labels = labels }
}

// RenderSVG paints placements in the order given, which [stack.Frame]
// returns back to front. Each card is centered on the canvas, then moved,
// rotated and scaled by its transform.
func RenderSVG(placements []stack.Placement, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="#fafafa"/>`+"\n")
	for _, p := range placements {
		r.renderCard(&buf, p)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{cardW: defaultCardWidth, cardH: defaultCardHeight}
	for _, opt := range opts {
		opt(&r)
	}
	// Leave room for a full commit overshoot on either side.
	if r.width <= 0 {
		r.width = r.cardW*3 + 2*defaultMargin
	}
	if r.height <= 0 {
		r.height = r.cardH + 2*defaultMargin
	}
	return r
}

func (r svgRenderer) renderCard(buf *bytes.Buffer, p stack.Placement) {
	t := p.Transform
	cx := r.width/2 + t.TranslateX
	cy := r.height/2 + t.TranslateY
	deg := t.Rotation * 180 / math.Pi

	fmt.Fprintf(buf, `  <g id="card-%d" transform="translate(%.2f %.2f) rotate(%.2f) scale(%.3f)" opacity="%.3f">`+"\n",
		p.Index, cx, cy, deg, t.Scale, t.Opacity)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="16" fill="%s" stroke="#263238" stroke-width="2"/>`+"\n",
		-r.cardW/2, -r.cardH/2, r.cardW, r.cardH, palette[p.Index%len(palette)])
	fmt.Fprintf(buf, `    <text x="0" y="0" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="28" fill="#ffffff">%s</text>`+"\n",
		html.EscapeString(r.label(p.Index)))
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) label(id int) string {
	if id >= 0 && id < len(r.labels) && r.labels[id] != "" {
		return r.labels[id]
	}
	return fmt.Sprintf("#%d", id)
}
