package stack

import (
	"errors"
	"slices"
	"testing"
	"time"

	serrors "github.com/matzehuels/swipestack/pkg/errors"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

type fixedSource struct {
	order    []int
	offset   float64
	progress float64
}

func (s fixedSource) Order() []int      { return s.order }
func (s fixedSource) Offset() float64   { return s.offset }
func (s fixedSource) Progress() float64 { return s.progress }

func TestFrameBackToFront(t *testing.T) {
	src := fixedSource{order: []int{2, 3, 0, 1}, offset: 30, progress: 0.1}
	got := Frame(src, DefaultParams(4))

	var indexes, positions []int
	for _, pl := range got {
		indexes = append(indexes, pl.Index)
		positions = append(positions, pl.Position)
	}
	if want := []int{1, 0, 3, 2}; !slices.Equal(indexes, want) {
		t.Errorf("indexes = %v, want %v", indexes, want)
	}
	if want := []int{3, 2, 1, 0}; !slices.Equal(positions, want) {
		t.Errorf("positions = %v, want %v", positions, want)
	}
	if top := got[len(got)-1]; top.Transform.TranslateX != 30 {
		t.Errorf("top TranslateX = %v, want 30", top.Transform.TranslateX)
	}
}

func TestFrameSkipsMissingItems(t *testing.T) {
	p := DefaultParams(4)
	p.Items = 2
	got := Frame(fixedSource{order: []int{3, 0, 1, 2}}, p)

	var indexes []int
	for _, pl := range got {
		indexes = append(indexes, pl.Index)
	}
	if want := []int{1, 0}; !slices.Equal(indexes, want) {
		t.Errorf("indexes = %v, want %v", indexes, want)
	}
}

func TestFrameShortDeckKeepsTopFilled(t *testing.T) {
	cfg := swipe.DefaultConfig()
	cfg.ItemCount = 2
	cfg.SettleDuration = 50 * time.Millisecond
	ctrl, err := swipe.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	p := ParamsFor(cfg)

	for _, wantTop := range []int{1, 0, 1} {
		ctrl.SwipeForward()
		for ctrl.Tick(16 * time.Millisecond) {
		}
		got := Frame(ctrl, p)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if top := got[len(got)-1]; top.Index != wantTop || top.Position != 0 {
			t.Errorf("top = %+v, want index %d at position 0", top, wantTop)
		}
	}
}

func TestFrameFromController(t *testing.T) {
	cfg := swipe.DefaultConfig()
	cfg.SettleDuration = 100 * time.Millisecond
	ctrl, err := swipe.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	p := ParamsFor(cfg)

	ctrl.SwipeForward()
	for ctrl.Tick(16 * time.Millisecond) {
	}
	ctrl.DragStartTop(swipe.Point{})
	ctrl.DragUpdate(swipe.Point{X: -60})

	got := Frame(ctrl, p)
	if len(got) != cfg.VisibleCount {
		t.Fatalf("len = %d, want %d", len(got), cfg.VisibleCount)
	}
	top := got[len(got)-1]
	if top.Index != 1 || top.Position != 0 {
		t.Errorf("top = %+v, want index 1 at position 0", top)
	}
	if top.Transform.TranslateX != -60 {
		t.Errorf("top TranslateX = %v, want -60", top.Transform.TranslateX)
	}
	if got[0].Index != 0 || got[0].Position != 3 {
		t.Errorf("back = %+v, want index 0 at position 3", got[0])
	}
}

func TestRender(t *testing.T) {
	src := fixedSource{order: []int{0, 1, 2, 3}}
	names := []string{"alpha", "beta"}

	layers, err := Render(src, DefaultParams(4), SliceContent(names))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	var got []string
	for _, l := range layers {
		got = append(got, l.Content)
	}
	if want := []string{"beta", "alpha"}; !slices.Equal(got, want) {
		t.Errorf("contents = %v, want %v", got, want)
	}
}

func TestRenderPropagatesOtherErrors(t *testing.T) {
	src := fixedSource{order: []int{0, 1}}
	boom := errors.New("boom")
	_, err := Render(src, DefaultParams(2), func(int) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want wrapping %v", err, boom)
	}
	if !serrors.Is(err, serrors.ErrCodeInternal) {
		t.Errorf("code = %v, want %v", serrors.GetCode(err), serrors.ErrCodeInternal)
	}
}

func TestSliceContent(t *testing.T) {
	f := SliceContent([]int{7})
	if v, err := f(0); err != nil || v != 7 {
		t.Errorf("f(0) = %v, %v", v, err)
	}
	if _, err := f(1); !serrors.Is(err, serrors.ErrCodeOutOfRange) {
		t.Errorf("f(1) error = %v, want INDEX_OUT_OF_RANGE", err)
	}
	if _, err := f(-1); !serrors.Is(err, serrors.ErrCodeOutOfRange) {
		t.Errorf("f(-1) error = %v, want INDEX_OUT_OF_RANGE", err)
	}
}

func TestParamsFor(t *testing.T) {
	cfg := swipe.DefaultConfig()
	cfg.StackSpacing = 14
	cfg.ItemCount = 3
	p := ParamsFor(cfg)
	if p.Spacing != 14 || p.Items != 3 || p.Visible != 3 {
		t.Errorf("ParamsFor() = %+v", p)
	}
}
