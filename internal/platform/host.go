package platform

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/sidedock/internal/events"
	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/1broseidon/sidedock/internal/resize"
)

// HostWindow adapts a managed top-level window to resize.Window.
//
// Bounds are cached: every SetBounds updates the cache and Refresh reconciles
// it with the window system, publishing WindowMoved and WindowResized for
// differences it finds. Not safe for concurrent use.
type HostWindow struct {
	backend Backend
	id      WindowID
	bus     *events.Bus
	logger  *slog.Logger

	bounds geometry.Rect
	screen geometry.Rect
	closed bool
}

var _ resize.Window = (*HostWindow)(nil)

// NewHostWindow reads the window's current geometry. bus may be nil.
func NewHostWindow(backend Backend, id WindowID, bus *events.Bus, logger *slog.Logger) (*HostWindow, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rect, err := backend.WindowRect(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read window %d geometry: %w", id, err)
	}

	h := &HostWindow{
		backend: backend,
		id:      id,
		bus:     bus,
		logger:  logger.With("window", uint32(id)),
		bounds:  rect,
		screen:  rect,
	}
	h.screen = h.lookupScreen(rect)
	return h, nil
}

// ID returns the platform window id.
func (h *HostWindow) ID() WindowID {
	return h.id
}

// Bounds returns the last known window rect.
func (h *HostWindow) Bounds() geometry.Rect {
	return h.bounds
}

// ScreenBounds returns the usable area of the display hosting the window.
// When displays cannot be queried the last known area is reused.
func (h *HostWindow) ScreenBounds() geometry.Rect {
	h.screen = h.lookupScreen(h.bounds)
	return h.screen
}

// Display returns the display hosting the window.
func (h *HostWindow) Display() (Display, bool) {
	displays, err := h.backend.Displays()
	if err != nil {
		return Display{}, false
	}
	return DisplayForRect(displays, h.bounds)
}

// SetBounds moves and resizes the window.
func (h *HostWindow) SetBounds(r geometry.Rect) error {
	if h.closed {
		return fmt.Errorf("window %d is closed", h.id)
	}
	if err := h.backend.MoveResize(h.id, r); err != nil {
		return fmt.Errorf("failed to move window %d: %w", h.id, err)
	}
	h.bounds = r
	return nil
}

// SetMinimumSize publishes the minimum size to the window manager.
func (h *HostWindow) SetMinimumSize(s geometry.Size) error {
	if h.closed {
		return fmt.Errorf("window %d is closed", h.id)
	}
	return h.backend.SetMinSize(h.id, s)
}

// SetMaximumSize limits how large the window manager lets the window grow.
// A zero size removes the limit.
func (h *HostWindow) SetMaximumSize(s geometry.Size) error {
	if h.closed {
		return fmt.Errorf("window %d is closed", h.id)
	}
	return h.backend.SetMaxSize(h.id, s)
}

// MaximizeState reports the maximized axes. Query failures read as not
// maximized.
func (h *HostWindow) MaximizeState() resize.MaximizeState {
	st, err := h.backend.WindowState(h.id)
	if err != nil {
		h.logger.Debug("window state query failed", "error", err)
		return 0
	}
	var m resize.MaximizeState
	if st.MaximizedHorz {
		m |= resize.MaximizedHorizontal
	}
	if st.MaximizedVert {
		m |= resize.MaximizedVertical
	}
	return m
}

// SetMaximized requests maximizing or restoring the window.
func (h *HostWindow) SetMaximized(maximized bool) error {
	return h.backend.SetMaximized(h.id, maximized)
}

// SetAlwaysOnTop requests keeping the window above others.
func (h *HostWindow) SetAlwaysOnTop(above bool) error {
	return h.backend.SetAbove(h.id, above)
}

// Closed reports whether the window was destroyed.
func (h *HostWindow) Closed() bool {
	return h.closed
}

// Refresh re-reads the window geometry and publishes what changed.
func (h *HostWindow) Refresh() {
	if h.closed {
		return
	}
	rect, err := h.backend.WindowRect(h.id)
	if err != nil {
		h.logger.Debug("geometry refresh failed", "error", err)
		return
	}

	prev := h.bounds
	h.bounds = rect
	if h.bus == nil {
		return
	}
	if rect.X != prev.X || rect.Y != prev.Y {
		h.bus.Publish(events.WindowMoved{WindowID: uint32(h.id), Bounds: rect})
	}
	if rect.Width != prev.Width || rect.Height != prev.Height {
		h.bus.Publish(events.WindowResized{WindowID: uint32(h.id), Bounds: rect})
	}
}

// Watch subscribes to the window's structure notifications. Configure
// notifications refresh the cached geometry; destruction marks the window
// closed and publishes WindowClosed.
func (h *HostWindow) Watch() error {
	return h.backend.Watch(h.id, WindowWatch{
		OnConfigure: h.Refresh,
		OnDestroy:   h.markClosed,
	})
}

// Unwatch drops the structure notification callbacks.
func (h *HostWindow) Unwatch() {
	h.backend.Unwatch(h.id)
}

func (h *HostWindow) markClosed() {
	if h.closed {
		return
	}
	h.closed = true
	h.logger.Info("host window destroyed")
	if h.bus != nil {
		h.bus.Publish(events.WindowClosed{WindowID: uint32(h.id)})
	}
}

func (h *HostWindow) lookupScreen(r geometry.Rect) geometry.Rect {
	displays, err := h.backend.Displays()
	if err != nil {
		h.logger.Debug("display query failed", "error", err)
		return h.screen
	}
	d, ok := DisplayForRect(displays, r)
	if !ok {
		return h.screen
	}
	return d.Usable
}
