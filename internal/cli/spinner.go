package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinnerFrames shuffle a card through the four quadrants of a cell.
var spinnerFrames = []string{"▖", "▘", "▝", "▗"}

const spinnerInterval = 90 * time.Millisecond

// spinner redraws a one-line status on w until it is stopped or its
// context ends.
type spinner struct {
	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	start  time.Time

	mu    sync.Mutex
	label string
	width int // printed width of the last line

	once    sync.Once
	done    chan struct{}
	stopped chan struct{}
}

// newSpinner creates a spinner on stderr that stops when ctx is cancelled.
func newSpinner(ctx context.Context, label string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       os.Stderr,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		label:   label,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// ringSpinnerLabel names the work `ring` is doing.
func ringSpinnerLabel(cards, rotations int) string {
	switch {
	case rotations == 0:
		return fmt.Sprintf("Drawing %d cards", cards)
	case rotations == 1 || rotations == -1:
		return fmt.Sprintf("Drawing %d cards after 1 rotation", cards)
	}
	return fmt.Sprintf("Drawing %d cards after %d rotations", cards, abs(rotations))
}

func (s *spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		tick := time.NewTicker(spinnerInterval)
		defer tick.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-s.done:
				return
			case <-tick.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.start).Round(100 * time.Millisecond)
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(fmt.Sprintf("%s (%s)", s.label, elapsed))
	pad := max(0, s.width-lipgloss.Width(line))
	fmt.Fprint(s.w, "\r"+line+strings.Repeat(" ", pad))
	s.width = lipgloss.Width(line)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
		s.width = 0
	}
}

// Stop ends the animation and clears the line. Repeated calls are no-ops.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
	s.cancel()
	s.clear()
}

// StopWithSuccess stops and prints a success line.
func (s *spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops and prints an error line.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the caller's context ended, as opposed to Stop.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
