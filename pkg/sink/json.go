package sink

import (
	"encoding/json"

	"github.com/matzehuels/swipestack/pkg/playback"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	lastOnly bool
	labels   []string
}

// WithJSONLastFrame keeps only the final frame of the recording.
func WithJSONLastFrame() JSONOption { return func(r *jsonRenderer) { r.lastOnly = true } }

// WithJSONLabels attaches item labels, indexed by logical id.
func WithJSONLabels(labels []string) JSONOption {
	return func(r *jsonRenderer) { r.labels = labels }
}

type jsonOutput struct {
	IntervalMS float64     `json:"interval_ms"`
	Outcomes   []string    `json:"outcomes"`
	FinalOrder []int       `json:"final_order"`
	Labels     []string    `json:"labels,omitempty"`
	Frames     []jsonFrame `json:"frames"`
}

type jsonFrame struct {
	AtMS   float64    `json:"at_ms"`
	State  string     `json:"state"`
	Top    int        `json:"top"`
	Offset float64    `json:"offset"`
	Items  []jsonItem `json:"items"`
}

type jsonItem struct {
	ID       int     `json:"id"`
	Position int     `json:"position"`
	TX       float64 `json:"tx"`
	TY       float64 `json:"ty"`
	Rot      float64 `json:"rot"`
	Scale    float64 `json:"scale"`
	Opacity  float64 `json:"opacity"`
}

// RenderJSON exports a recording as pretty-printed JSON. Times are in
// milliseconds and items are listed back to front, the order they paint in.
func RenderJSON(rec playback.Recording, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	frames := rec.Frames
	if r.lastOnly && len(frames) > 0 {
		frames = frames[len(frames)-1:]
	}

	out := jsonOutput{
		IntervalMS: millis(rec.Interval.Seconds()),
		Outcomes:   rec.Outcomes,
		FinalOrder: rec.Final,
		Labels:     r.labels,
		Frames:     make([]jsonFrame, 0, len(frames)),
	}
	if out.Outcomes == nil {
		out.Outcomes = []string{}
	}
	for _, f := range frames {
		jf := jsonFrame{
			AtMS:   millis(f.At.Seconds()),
			State:  f.State,
			Top:    f.Top,
			Offset: f.Offset,
			Items:  make([]jsonItem, 0, len(f.Placements)),
		}
		for _, p := range f.Placements {
			t := p.Transform
			jf.Items = append(jf.Items, jsonItem{
				ID: p.Index, Position: p.Position,
				TX: t.TranslateX, TY: t.TranslateY, Rot: t.Rotation,
				Scale: t.Scale, Opacity: t.Opacity,
			})
		}
		out.Frames = append(out.Frames, jf)
	}
	return json.MarshalIndent(out, "", "  ")
}

func millis(sec float64) float64 { return sec * 1000 }
