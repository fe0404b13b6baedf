package stack

import (
	serrors "github.com/matzehuels/swipestack/pkg/errors"
)

// Source is the live view a frame is computed from.
// *swipe.Controller satisfies it.
type Source interface {
	Order() []int // ids, top first
	Offset() float64
	Progress() float64
}

// Placement is one paintable item of a frame.
type Placement struct {
	Index     int       `json:"index"`    // logical item id
	Position  int       `json:"position"` // distance from the top
	Transform Transform `json:"transform"`
}

// Frame returns the placements of every visible item, back to front.
func Frame(src Source, p Params) []Placement {
	order := src.Order()
	d := Drag{Offset: src.Offset(), Progress: src.Progress()}
	items := p.Items
	if items <= 0 {
		items = len(order)
	}

	out := make([]Placement, 0, len(order))
	for pos := len(order) - 1; pos >= 0; pos-- {
		id := order[pos]
		if id >= items {
			continue
		}
		out = append(out, Placement{
			Index:     id,
			Position:  pos,
			Transform: p.Compute(pos, d, pos == 0),
		})
	}
	return out
}

// ContentFunc resolves a logical index to host content. It should return an
// INDEX_OUT_OF_RANGE error for indexes it cannot serve.
type ContentFunc[T any] func(index int) (T, error)

// Layer is a placement with its content attached.
type Layer[T any] struct {
	Placement
	Content T
}

// Render is [Frame] with content resolved once per visible position.
// Positions whose lookup fails with INDEX_OUT_OF_RANGE are skipped; any
// other error aborts the frame.
func Render[T any](src Source, p Params, content ContentFunc[T]) ([]Layer[T], error) {
	placements := Frame(src, p)
	out := make([]Layer[T], 0, len(placements))
	for _, pl := range placements {
		c, err := content(pl.Index)
		if err != nil {
			if serrors.Is(err, serrors.ErrCodeOutOfRange) {
				continue
			}
			return nil, serrors.Wrap(serrors.ErrCodeInternal, err, "content for item %d", pl.Index)
		}
		out = append(out, Layer[T]{Placement: pl, Content: c})
	}
	return out, nil
}

// SliceContent serves content from a slice, reporting INDEX_OUT_OF_RANGE
// past its end.
func SliceContent[T any](items []T) ContentFunc[T] {
	return func(i int) (T, error) {
		if i < 0 || i >= len(items) {
			var zero T
			return zero, serrors.OutOfRange(i, len(items))
		}
		return items[i], nil
	}
}
