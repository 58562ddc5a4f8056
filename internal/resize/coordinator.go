package resize

import (
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/sidedock/internal/geometry"
)

const (
	// DefaultEdgeCloseDistance is how close, in pixels, the window's right
	// edge must be to the screen edge to count as docked there.
	DefaultEdgeCloseDistance = 40
	// DefaultLargeWidthThreshold is the width from which keep_game_size
	// stops growing the window.
	DefaultLargeWidthThreshold = 1600
	// DefaultGracePeriod is how long geometry notifications after an
	// expansion are attributed to the expansion itself.
	DefaultGracePeriod = 300 * time.Millisecond
)

// Window is the narrow view of the host window the coordinator drives.
type Window interface {
	geometry.Target
	SetMinimumSize(s geometry.Size) error
	MaximizeState() MaximizeState
}

// Layout reports the smallest size the window contents can be laid out in.
type Layout interface {
	MinimumLayoutSize() geometry.Size
}

// Options tunes the expansion heuristics.
type Options struct {
	Mode                Mode
	EdgeCloseDistance   int
	LargeWidthThreshold int // 0 disables the wide-window rule
	GracePeriod         time.Duration
	Now                 func() time.Time
	Logger              *slog.Logger
}

// Memory is the transient state kept between an expansion and the matching
// contraction.
type Memory struct {
	Snapshot   *geometry.Rect
	GraceUntil time.Time
	Grown      bool
	Flipped    bool
}

// Coordinator expands and contracts the host window when the side panel is
// shown or hidden. It is not safe for concurrent use; every call must come
// from the UI loop.
type Coordinator struct {
	win    Window
	layout Layout
	guard  *geometry.Guard
	opts   Options
	log    *slog.Logger

	state State
	mem   Memory
}

// NewCoordinator creates a contracted coordinator for win.
func NewCoordinator(win Window, layout Layout, guard *geometry.Guard, opts Options) *Coordinator {
	if opts.Mode == "" {
		opts.Mode = ModeKeepGameSize
	}
	if opts.EdgeCloseDistance <= 0 {
		opts.EdgeCloseDistance = DefaultEdgeCloseDistance
	}
	if opts.LargeWidthThreshold < 0 {
		opts.LargeWidthThreshold = 0
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if guard == nil {
		guard = geometry.NewGuard(win)
	}
	return &Coordinator{
		win:    win,
		layout: layout,
		guard:  guard,
		opts:   opts,
		log:    logger,
	}
}

// State returns the current expansion state.
func (c *Coordinator) State() State {
	return c.state
}

// Memory returns a copy of the expansion memory.
func (c *Coordinator) Memory() Memory {
	m := c.mem
	if m.Snapshot != nil {
		snap := *m.Snapshot
		m.Snapshot = &snap
	}
	return m
}

// Mode returns the active resize mode.
func (c *Coordinator) Mode() Mode {
	return c.opts.Mode
}

// SetMode switches the resize mode. It takes effect on the next transition.
func (c *Coordinator) SetMode(m Mode) {
	c.opts.Mode = m
}

// SetContained toggles screen containment and re-clamps the window.
func (c *Coordinator) SetContained(enabled bool) error {
	return c.guard.SetContained(enabled)
}

// Guard exposes the containment guard used for every commit.
func (c *Coordinator) Guard() *geometry.Guard {
	return c.guard
}

// Expand grows the window to make room for a panel of the given width.
// Calling it while already expanded is a no-op.
func (c *Coordinator) Expand(delta int) {
	if c.state == Expanded {
		return
	}
	c.state = Expanded
	c.mem = Memory{}
	delta = max(delta, 0)

	maximized := c.win.MaximizeState()
	if maximized.Full() {
		c.log.Debug("expand skipped, window is maximized")
		return
	}

	cur := c.win.Bounds()
	grow, forced := c.expansionWidth(cur, delta, maximized)
	if grow > 0 {
		snap := cur
		c.mem.Snapshot = &snap
		c.mem.GraceUntil = c.opts.Now().Add(c.opts.GracePeriod)
		c.mem.Grown = true

		next := c.expandedBounds(cur, grow)
		c.log.Debug("expanding window",
			"from", cur.String(),
			"to", next.String(),
			"delta", grow,
			"forced", forced,
			"flipped", c.mem.Flipped)
		c.commit(next)
	}

	c.revalidateMinimumSize()
}

// Contract reverses the last expansion. With an intact snapshot the
// pre-expansion bounds are restored exactly; otherwise the width heuristic
// shrinks the window by delta. Calling it while contracted is a no-op.
func (c *Coordinator) Contract(delta int) {
	if c.state == Contracted {
		return
	}
	c.state = Contracted
	mem := c.mem
	c.mem = Memory{}
	delta = max(delta, 0)

	if c.win.MaximizeState().Full() {
		c.log.Debug("contract skipped, window is maximized")
		return
	}

	minimum := c.revalidateMinimumSize()

	if mem.Snapshot != nil {
		c.log.Debug("restoring pre-expansion bounds", "bounds", mem.Snapshot.String())
		c.commit(*mem.Snapshot)
		return
	}

	cur := c.win.Bounds()
	shrink, ok := c.contractionWidth(cur, delta, minimum, mem.Grown)
	if !ok {
		return
	}

	screen := c.win.ScreenBounds()
	next := geometry.Rect{X: cur.X, Y: cur.Y, Width: cur.Width - shrink, Height: cur.Height}
	nearRight := geometry.NearRightEdge(cur, screen, c.opts.EdgeCloseDistance)
	nearLeft := geometry.NearLeftEdge(cur, screen, c.opts.EdgeCloseDistance)
	if nearRight && (mem.Flipped || !nearLeft) {
		// keep the distance to the right edge
		next.X += shrink
	}

	c.log.Debug("contracting window",
		"from", cur.String(),
		"to", next.String(),
		"delta", shrink)
	c.commit(next)
}

// Resize commits r as a deliberate size change. Like a user resize it drops
// the pre-expansion bounds, so a later Contract shrinks from r.
func (c *Coordinator) Resize(r geometry.Rect) {
	if c.mem.Snapshot != nil {
		c.log.Debug("resized on request, dropping pre-expansion bounds", "bounds", r.String())
		c.mem.Snapshot = nil
	}
	c.commit(r)
}

// OnMoved must be called for every move notification of the window.
func (c *Coordinator) OnMoved() {
	c.invalidateSnapshot("moved")
}

// OnResized must be called for every resize notification of the window.
func (c *Coordinator) OnResized() {
	c.invalidateSnapshot("resized")
}

// invalidateSnapshot drops the snapshot once the grace period has passed:
// a geometry change after that point is presumed to come from the user.
// A notification exactly at the deadline still counts as self-caused.
func (c *Coordinator) invalidateSnapshot(reason string) {
	if c.mem.Snapshot == nil {
		return
	}
	if !c.opts.Now().After(c.mem.GraceUntil) {
		return
	}
	c.log.Debug("window changed by user, dropping pre-expansion bounds", "reason", reason)
	c.mem.Snapshot = nil
}

// expansionWidth returns how much the window should grow and whether the
// layout minimum forced the growth.
func (c *Coordinator) expansionWidth(cur geometry.Rect, delta int, maximized MaximizeState) (int, bool) {
	keepWindow := func() (int, bool) {
		minimum := c.layout.MinimumLayoutSize().Width
		if minimum > cur.Width {
			return minimum - cur.Width, true
		}
		return 0, false
	}

	switch c.opts.Mode {
	case ModeKeepWindowSize:
		return keepWindow()
	case ModeKeepGameSize:
		// Horizontally maximized or already very wide windows would push
		// through the screen edge; let the content shrink instead.
		if maximized.Horizontal() {
			return keepWindow()
		}
		if c.opts.LargeWidthThreshold > 0 && cur.Width >= c.opts.LargeWidthThreshold {
			return keepWindow()
		}
		return delta, false
	default:
		return 0, false
	}
}

func (c *Coordinator) expandedBounds(cur geometry.Rect, grow int) geometry.Rect {
	screen := c.win.ScreenBounds()
	next := geometry.Rect{X: cur.X, Y: cur.Y, Width: cur.Width + grow, Height: cur.Height}

	closeToEdge := geometry.NearRightEdge(cur, screen, c.opts.EdgeCloseDistance)
	wouldCrossEdge := cur.X+next.Width > screen.Right()
	if wouldCrossEdge && !closeToEdge {
		// Anchor the trailing edge on the screen edge and grow leftwards.
		next.X = screen.Right() - cur.Width - grow
		next.X = max(next.X, screen.X)
		c.mem.Flipped = true
	}
	return next
}

// contractionWidth returns how much to shrink, or false when the window
// should keep its size.
func (c *Coordinator) contractionWidth(cur geometry.Rect, delta int, minimum geometry.Size, grown bool) (int, bool) {
	switch c.opts.Mode {
	case ModeNeutral:
		return 0, false
	case ModeKeepGameSize:
		if grown {
			// The user may have narrowed the window since; never go below
			// the layout minimum.
			shrink := min(delta, max(cur.Width-minimum.Width, 0))
			return shrink, shrink > 0
		}
	}

	// keep_window_size, or an expansion that never grew the window: only
	// shrink when the window would otherwise sit below the new minimum.
	if cur.Width-delta <= minimum.Width {
		shrink := max(cur.Width-minimum.Width, 0)
		return shrink, shrink > 0
	}
	return 0, false
}

func (c *Coordinator) revalidateMinimumSize() geometry.Size {
	minimum := c.layout.MinimumLayoutSize()
	if err := c.win.SetMinimumSize(minimum); err != nil {
		c.log.Warn("failed to set minimum window size",
			"width", minimum.Width,
			"height", minimum.Height,
			"error", err)
	}
	return minimum
}

func (c *Coordinator) commit(r geometry.Rect) {
	if err := c.guard.SetBounds(r); err != nil {
		c.log.Warn("failed to set window bounds", "bounds", r.String(), "error", err)
	}
}
