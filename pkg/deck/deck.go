package deck

import (
	"fmt"
	"sync"

	serrors "github.com/matzehuels/swipestack/pkg/errors"
)

// Direction is the sense of a rotation or swipe.
type Direction int

const (
	// Backward brings the back item to the top (a leftward swipe).
	Backward Direction = -1
	// Forward sends the top item to the back (a rightward swipe).
	Forward Direction = 1
)

// Valid reports whether d is Forward or Backward.
func (d Direction) Valid() bool { return d == Forward || d == Backward }

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Deck is a fixed-size rotating ring of item ids.
// The zero value is not usable; construct with [New].
type Deck struct {
	mu   sync.RWMutex
	n    int
	head int // id currently at position 0
}

// New builds the identity permutation [0, 1, ..., count-1].
// It returns an INVALID_CONFIG error if count < 1.
func New(count int) (*Deck, error) {
	if err := serrors.ValidateCount("deck count", count, 1); err != nil {
		return nil, err
	}
	return &Deck{n: count}, nil
}

// Len returns the number of ids in the ring. It never changes.
func (d *Deck) Len() int { return d.n }

// Top returns the id at position 0.
func (d *Deck) Top() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.head
}

// Rotate advances the ring one step in dir and returns the new top id.
func (d *Deck) Rotate(dir Direction) (int, error) {
	if !dir.Valid() {
		return 0, serrors.New(serrors.ErrCodeInvalidInput, "invalid rotation direction %d", int(dir))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.head = mod(d.head+int(dir), d.n)
	return d.head, nil
}

// PositionOf returns the distance of id from the top: 0 for the top item,
// increasing towards the back. Unknown ids yield -1.
func (d *Deck) PositionOf(id int) int {
	if id < 0 || id >= d.n {
		return -1
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return mod(id-d.head, d.n)
}

// ItemAt returns the id at the given position.
func (d *Deck) ItemAt(position int) (int, error) {
	if position < 0 || position >= d.n {
		return 0, serrors.OutOfRange(position, d.n)
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return mod(d.head+position, d.n), nil
}

// Order returns a copy of the permutation, top first.
func (d *Deck) Order() []int {
	d.mu.RLock()
	head := d.head
	d.mu.RUnlock()

	out := make([]int, d.n)
	for i := range out {
		out[i] = mod(head+i, d.n)
	}
	return out
}

// Reset restores the identity order.
func (d *Deck) Reset() {
	d.mu.Lock()
	d.head = 0
	d.mu.Unlock()
}

// String returns the order as "[0 1 2 3]".
func (d *Deck) String() string {
	return fmt.Sprint(d.Order())
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
