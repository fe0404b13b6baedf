// Package sink exports stack frames to files.
//
// [RenderSVG] paints one frame as rotated, faded cards. [RenderJSON] dumps a
// whole playback recording for external tooling. [RenderPNG] and
// [RenderPDF] convert the SVG through rsvg-convert, which must be on PATH:
//
//	brew install librsvg         # macOS
//	apt install librsvg2-bin     # Debian/Ubuntu
//
// All renderers are pure functions of their input and safe for concurrent use.
package sink
