package deck

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-graphviz"

	serrors "github.com/matzehuels/swipestack/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		count   int
		wantErr bool
	}{
		{1, false},
		{4, false},
		{0, true},
		{-3, true},
	}

	for _, tt := range tests {
		d, err := New(tt.count)
		if (err != nil) != tt.wantErr {
			t.Fatalf("New(%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
		}
		if err != nil {
			if !serrors.Is(err, serrors.ErrCodeInvalidConfig) {
				t.Errorf("New(%d) code = %v, want %v", tt.count, serrors.GetCode(err), serrors.ErrCodeInvalidConfig)
			}
			continue
		}
		want := make([]int, tt.count)
		for i := range want {
			want[i] = i
		}
		if got := d.Order(); !slices.Equal(got, want) {
			t.Errorf("New(%d).Order() = %v, want %v", tt.count, got, want)
		}
	}
}

func TestRotate(t *testing.T) {
	d, _ := New(4)

	top, err := d.Rotate(Forward)
	if err != nil {
		t.Fatalf("Rotate(Forward) error = %v", err)
	}
	if top != 1 {
		t.Errorf("Rotate(Forward) = %d, want 1", top)
	}
	if got, want := d.Order(), []int{1, 2, 3, 0}; !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}

	top, _ = d.Rotate(Backward)
	top, _ = d.Rotate(Backward)
	if top != 3 {
		t.Errorf("Rotate(Backward) x2 = %d, want 3", top)
	}
	if got, want := d.Order(), []int{3, 0, 1, 2}; !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestRotateInvalidDirection(t *testing.T) {
	d, _ := New(3)
	if _, err := d.Rotate(Direction(0)); !serrors.Is(err, serrors.ErrCodeInvalidInput) {
		t.Errorf("Rotate(0) error = %v, want INVALID_INPUT", err)
	}
	if d.Top() != 0 {
		t.Errorf("Top() = %d after rejected rotation, want 0", d.Top())
	}
}

func TestRotateClosure(t *testing.T) {
	for n := 1; n <= 12; n++ {
		d, _ := New(n)
		for range n {
			d.Rotate(Forward)
		}
		for i, id := range d.Order() {
			if id != i {
				t.Fatalf("n=%d: Order() = %v after %d forward rotations, want identity", n, d.Order(), n)
			}
		}
		for range n {
			d.Rotate(Backward)
		}
		if d.Top() != 0 {
			t.Errorf("n=%d: Top() = %d after %d backward rotations, want 0", n, d.Top(), n)
		}
	}
}

func TestPermutationInvariant(t *testing.T) {
	d, _ := New(7)
	dirs := []Direction{Forward, Forward, Backward, Forward, Backward, Backward, Backward, Forward}
	for _, dir := range dirs {
		d.Rotate(dir)
		order := d.Order()
		sorted := slices.Clone(order)
		slices.Sort(sorted)
		for i, id := range sorted {
			if id != i {
				t.Fatalf("Order() = %v is not a permutation", order)
			}
		}
		for pos, id := range order {
			if got := d.PositionOf(id); got != pos {
				t.Errorf("PositionOf(%d) = %d, want %d", id, got, pos)
			}
			if got, _ := d.ItemAt(pos); got != id {
				t.Errorf("ItemAt(%d) = %d, want %d", pos, got, id)
			}
		}
	}
}

func TestPositionOfUnknown(t *testing.T) {
	d, _ := New(3)
	for _, id := range []int{-1, 3, 100} {
		if got := d.PositionOf(id); got != -1 {
			t.Errorf("PositionOf(%d) = %d, want -1", id, got)
		}
	}
}

func TestItemAtOutOfRange(t *testing.T) {
	d, _ := New(3)
	if _, err := d.ItemAt(3); !serrors.Is(err, serrors.ErrCodeOutOfRange) {
		t.Errorf("ItemAt(3) error = %v, want INDEX_OUT_OF_RANGE", err)
	}
}

func TestReset(t *testing.T) {
	d, _ := New(5)
	d.Rotate(Forward)
	d.Rotate(Forward)
	d.Reset()
	if d.Top() != 0 {
		t.Errorf("Top() = %d after Reset, want 0", d.Top())
	}
	if d.String() != "[0 1 2 3 4]" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestConcurrentReaders(t *testing.T) {
	d, _ := New(6)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 500 {
			d.Rotate(Forward)
		}
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				order := d.Order()
				seen := make(map[int]bool, len(order))
				for _, id := range order {
					seen[id] = true
				}
				if len(seen) != 6 {
					t.Errorf("observed torn order %v", order)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{Forward, "forward"},
		{Backward, "backward"},
		{Direction(7), "Direction(7)"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestToDOT(t *testing.T) {
	d, _ := New(3)
	d.Rotate(Forward)
	dot := d.ToDOT([]string{"A", "B"})

	for _, want := range []string{
		"digraph Deck {",
		`n1 [label="B\n#0", penwidth=3`,
		`n2 [label="2\n#1"]`,
		`n0 [label="A\n#2"]`,
		"n1 -> n2;",
		"n2 -> n0;",
		"n0 -> n1 [style=dashed];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTEscapesLabels(t *testing.T) {
	d, _ := New(3)
	labels := []string{`say "hi"`, `back\slash`, "ok"}
	dot := d.ToDOT(labels)

	if want := `n0 [label="say \"hi\"\n#0"`; !strings.Contains(dot, want) {
		t.Errorf("ToDOT() missing %s\n%s", want, dot)
	}
	if want := `n1 [label="back\\slash\n#1"]`; !strings.Contains(dot, want) {
		t.Errorf("ToDOT() missing %s\n%s", want, dot)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v\n%s", err, dot)
	}
	defer g.Close()

	svg, err := d.RenderSVG(context.Background(), labels)
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG() = %.80q, want an SVG document", svg)
	}
}

func TestToDOTSingle(t *testing.T) {
	d, _ := New(1)
	if strings.Contains(d.ToDOT(nil), "->") {
		t.Error("single-item ring should have no edges")
	}
}
