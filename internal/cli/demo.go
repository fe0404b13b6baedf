package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swipestack/internal/config"
	"github.com/matzehuels/swipestack/pkg/stack"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

// Terminal geometry. The controller runs in cell units.
const (
	demoCardCols      = 22
	demoCardRows      = 9
	demoHeaderRows    = 2
	demoFooterRows    = 3
	demoDefaultWidth  = 80
	demoDefaultHeight = 24
)

func (c *CLI) demoCommand() *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Swipe through a card stack in the terminal",
		Long: `Open an interactive card stack. Drag the top card with the mouse, or
use the arrow keys for programmatic swipes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.load(cmd)
			if err != nil {
				return err
			}
			m, err := newDemoModel(s)
			if err != nil {
				return err
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("demo: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("demo finished", "swipes", m.swipes, "top", m.label(m.ctrl.Top()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// =============================================================================
// Key bindings
// =============================================================================

type demoKeys struct {
	Backward key.Binding
	Forward  key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newDemoKeys() demoKeys {
	return demoKeys{
		Backward: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "swipe back")),
		Forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "swipe")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k demoKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Backward, k.Forward, k.Help, k.Quit}
}

func (k demoKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Backward, k.Forward}, {k.Reset, k.Help, k.Quit}}
}

// =============================================================================
// Model
// =============================================================================

// frameMsg is one animation tick, tagged with the generation it was
// scheduled for.
type frameMsg struct {
	gen uint64
	at  time.Time
}

type demoModel struct {
	ctrl     *swipe.Controller
	params   stack.Params
	labels   []string
	keys     demoKeys
	help     help.Model
	interval time.Duration

	width, height int

	now      func() time.Time
	epoch    time.Time
	lastTick time.Time
	velocity swipe.VelocityTracker

	swipes int
	status string
}

func newDemoModel(s config.Settings) (*demoModel, error) {
	m := &demoModel{
		keys:     newDemoKeys(),
		help:     help.New(),
		interval: swipe.DefaultFrameInterval,
		width:    demoDefaultWidth,
		height:   demoDefaultHeight,
		now:      time.Now,
		status:   "drag the top card",
	}
	m.epoch = m.now()

	cfg := s.Swipe
	perCol := float64(demoCardCols) / cfg.ItemWidth
	cfg.ItemWidth = demoCardCols
	cfg.ItemHeight = demoCardRows
	cfg.StackSpacing = 2
	cfg.VelocityThreshold *= perCol
	cfg.Logger = nil // the alt screen owns the terminal
	cfg.OnSwipe = func(top int) {
		m.swipes++
		m.status = "now on top: " + m.label(top)
	}

	ctrl, err := swipe.New(cfg)
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	m.labels = labelsFor(s.Labels, cfg.Items())

	m.params = s.Stack
	m.params.Spacing = cfg.StackSpacing
	m.params.StaggerY = 1
	m.params.Visible = cfg.Items()
	m.params.Items = cfg.Items()
	return m, nil
}

func (m *demoModel) Init() tea.Cmd { return nil }

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case frameMsg:
		return m, m.handleFrame(msg)
	}
	return m, nil
}

func (m *demoModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Forward):
		return m.animate(m.ctrl.SwipeForward())
	case key.Matches(msg, m.keys.Backward):
		return m.animate(m.ctrl.SwipeBackward())
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.status = "reset"
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *demoModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	p := swipe.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		id, ok := m.hitTest(msg.X, msg.Y-demoHeaderRows)
		if !ok {
			return nil
		}
		if !m.ctrl.DragStart(p, id) {
			m.status = "only the top card moves"
			return nil
		}
		m.velocity.Reset()
		m.velocity.Add(m.elapsed(), p.X)
		m.status = "dragging"

	case tea.MouseActionMotion:
		if m.ctrl.State() != swipe.Dragging {
			return nil
		}
		m.ctrl.DragUpdate(p)
		m.velocity.Add(m.elapsed(), p.X)

	case tea.MouseActionRelease:
		if m.ctrl.State() != swipe.Dragging {
			return nil
		}
		m.ctrl.DragUpdate(p)
		m.velocity.Add(m.elapsed(), p.X)
		return m.animate(m.ctrl.DragEnd(m.velocity.Velocity()))
	}
	return nil
}

// animate reports out and schedules the first frame if it started a settle.
func (m *demoModel) animate(out swipe.Outcome) tea.Cmd {
	m.status = out.String()
	if !m.ctrl.Animating() {
		return nil
	}
	m.lastTick = m.now()
	return m.nextFrame()
}

func (m *demoModel) nextFrame() tea.Cmd {
	gen := m.ctrl.Generation()
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

func (m *demoModel) handleFrame(msg frameMsg) tea.Cmd {
	if msg.gen != m.ctrl.Generation() {
		return nil // superseded
	}
	dt := msg.at.Sub(m.lastTick)
	m.lastTick = msg.at
	if m.ctrl.Tick(dt) {
		return m.nextFrame()
	}
	return nil
}

func (m *demoModel) elapsed() time.Duration { return m.now().Sub(m.epoch) }

func (m *demoModel) label(id int) string {
	if id >= 0 && id < len(m.labels) {
		return m.labels[id]
	}
	return "-"
}

// hitTest returns the front-most card under canvas cell (x, y).
func (m *demoModel) hitTest(x, y int) (int, bool) {
	hits := m.draw().hits
	for i := len(hits) - 1; i >= 0; i-- {
		if hits[i].contains(x, y) {
			return hits[i].id, true
		}
	}
	return 0, false
}

// =============================================================================
// View
// =============================================================================

func (m *demoModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(appName) + " " + StyleDim.Render("drag the top card or use ←/→"))
	b.WriteString("\n\n")
	b.WriteString(m.draw().String())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *demoModel) statusLine() string {
	parts := []string{
		"top " + StyleValue.Render(m.label(m.ctrl.Top())),
		m.ctrl.State().String(),
		fmt.Sprintf("offset %s", StyleNumber.Render(fmt.Sprintf("%+.1f", m.ctrl.Offset()))),
		fmt.Sprintf("swipes %s", StyleNumber.Render(fmt.Sprint(m.swipes))),
		outcomeStyle(m.status).Render(m.status),
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func (m *demoModel) draw() *canvas {
	w := m.width
	h := max(m.height-demoHeaderRows-demoFooterRows, demoCardRows+2)
	cv := newCanvas(w, h)
	for _, p := range stack.Frame(m.ctrl, m.params) {
		cv.card(p, m.label(p.Index))
	}
	return cv
}

// =============================================================================
// Canvas
// =============================================================================

type cell struct {
	r       rune
	id      int // -1 for background
	opacity float64
}

type hitBox struct {
	id             int
	x0, y0, x1, y1 int
}

func (b hitBox) contains(x, y int) bool {
	return x >= b.x0 && x < b.x1 && y >= b.y0 && y < b.y1
}

// canvas is a cell grid that cards are painted onto back to front.
type canvas struct {
	w, h  int
	cells [][]cell
	hits  []hitBox
}

func newCanvas(w, h int) *canvas {
	cv := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range cv.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' ', id: -1}
		}
		cv.cells[y] = row
	}
	return cv
}

func (cv *canvas) set(x, y int, r rune, id int, opacity float64) {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return
	}
	cv.cells[y][x] = cell{r: r, id: id, opacity: opacity}
}

// card paints one placement centered on the canvas. Rows shear with the
// rotation; cells are about twice as tall as they are wide.
func (cv *canvas) card(p stack.Placement, label string) {
	t := p.Transform
	cw := max(4, int(math.Round(demoCardCols*t.Scale)))
	ch := max(3, int(math.Round(demoCardRows*t.Scale)))
	x0 := int(math.Round(float64(cv.w)/2 + t.TranslateX - float64(cw)/2))
	y0 := int(math.Round(float64(cv.h)/2 + t.TranslateY - float64(ch)/2))
	shear := func(row int) int {
		return -int(math.Round(t.Rotation * 2 * (float64(row) - float64(ch-1)/2)))
	}

	for r := 0; r < ch; r++ {
		dx := shear(r)
		for c := 0; c < cw; c++ {
			cv.set(x0+c+dx, y0+r, borderRune(r, c, cw, ch), p.Index, t.Opacity)
		}
	}

	text := []rune(label)
	if len(text) > cw-2 {
		text = text[:cw-2]
	}
	mid := ch / 2
	start := x0 + shear(mid) + (cw-len(text))/2
	for i, r := range text {
		cv.set(start+i, y0+mid, r, p.Index, t.Opacity)
	}

	cv.hits = append(cv.hits, hitBox{id: p.Index, x0: x0, y0: y0, x1: x0 + cw, y1: y0 + ch})
}

func borderRune(r, c, w, h int) rune {
	top, bottom := r == 0, r == h-1
	left, right := c == 0, c == w-1
	switch {
	case top && left:
		return '╭'
	case top && right:
		return '╮'
	case bottom && left:
		return '╰'
	case bottom && right:
		return '╯'
	case top || bottom:
		return '─'
	case left || right:
		return '│'
	}
	return ' '
}

// String renders the grid, styling runs of cells that belong to one card.
func (cv *canvas) String() string {
	var b strings.Builder
	for y, row := range cv.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && row[end].id == row[x].id {
				end++
			}
			run := make([]rune, 0, end-x)
			for _, c := range row[x:end] {
				run = append(run, c.r)
			}
			b.WriteString(cellStyle(row[x]).Render(string(run)))
			x = end
		}
	}
	return b.String()
}

func cellStyle(c cell) lipgloss.Style {
	if c.id < 0 {
		return lipgloss.NewStyle()
	}
	s := lipgloss.NewStyle().Foreground(cardColors[c.id%len(cardColors)])
	if c.opacity < 0.6 {
		s = s.Faint(true)
	}
	return s
}
