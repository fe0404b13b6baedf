package sink

import (
	"bytes"
	"fmt"
	"os/exec"

	serrors "github.com/matzehuels/swipestack/pkg/errors"
	"github.com/matzehuels/swipestack/pkg/stack"
)

// ConverterAvailable reports whether rsvg-convert can be found on PATH.
func ConverterAvailable() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// RenderPNG renders placements as PNG via SVG conversion. Scale of 2.0
// produces a 2x resolution image.
func RenderPNG(placements []stack.Placement, scale float64, opts ...SVGOption) ([]byte, error) {
	if scale <= 0 {
		scale = 2.0
	}
	return rsvgConvert(RenderSVG(placements, opts...), "png", "-z", fmt.Sprintf("%.2f", scale))
}

// RenderPDF renders placements as a single-page PDF via SVG conversion.
func RenderPDF(placements []stack.Placement, opts ...SVGOption) ([]byte, error) {
	return rsvgConvert(RenderSVG(placements, opts...), "pdf")
}

func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !ConverterAvailable() {
		return nil, serrors.New(serrors.ErrCodeInternal,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInternal, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
