package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateMaxHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaxVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateAbove   = "_NET_WM_STATE_ABOVE"
	stateHidden  = "_NET_WM_STATE_HIDDEN"
)

// WindowState is the subset of _NET_WM_STATE the daemon cares about.
type WindowState struct {
	MaximizedHorz bool
	MaximizedVert bool
	Above         bool
	Hidden        bool
}

// FrameExtents are the decoration sizes the window manager adds around a
// client window.
type FrameExtents struct {
	Left, Right, Top, Bottom int
}

// Outer returns the frame geometry around a client at x, y, width, height.
func (e FrameExtents) Outer(x, y, width, height int) (int, int, int, int) {
	return x - e.Left, y - e.Top, width + e.Left + e.Right, height + e.Top + e.Bottom
}

// InnerSize returns the client size that fills a frame of width, height.
func (e FrameExtents) InnerSize(width, height int) (int, int) {
	return max(width-e.Left-e.Right, 1), max(height-e.Top-e.Bottom, 1)
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) FrameExtents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil || extents == nil {
		// No frame extents available, return zeros
		return FrameExtents{}
	}
	return FrameExtents{Left: extents.Left, Right: extents.Right, Top: extents.Top, Bottom: extents.Bottom}
}

// MoveResizeWindow places the window's outer frame at the given geometry.
// With NorthWest gravity the window manager positions the frame corner at
// x, y; the requested size is the client size inside the decorations.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	extents := c.GetFrameExtents(windowID)
	cw, ch := extents.InnerSize(width, height)

	err := ewmh.MoveresizeWindowExtra(
		c.XUtil,
		windowID,
		x, y, cw, ch,
		xproto.GravityNorthWest, 2, true, true,
	)
	if err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x+extents.Left, y+extents.Top, cw, ch)
	}
	return nil
}

// GetWindowState reads _NET_WM_STATE.
func (c *Connection) GetWindowState(windowID xproto.Window) (WindowState, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return WindowState{}, err
	}
	return parseWindowState(states), nil
}

func parseWindowState(states []string) WindowState {
	var ws WindowState
	for _, state := range states {
		switch state {
		case stateMaxHorz:
			ws.MaximizedHorz = true
		case stateMaxVert:
			ws.MaximizedVert = true
		case stateAbove:
			ws.Above = true
		case stateHidden:
			ws.Hidden = true
		}
	}
	return ws
}

// SetMaximized asks the window manager to maximize or restore a window on
// both axes.
func (c *Connection) SetMaximized(windowID xproto.Window, maximized bool) error {
	action := ewmh.StateRemove
	if maximized {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReqExtra(c.XUtil, windowID, action, stateMaxHorz, stateMaxVert, 2); err != nil {
		return fmt.Errorf("failed to request maximize state: %w", err)
	}
	return nil
}

// SetAbove asks the window manager to keep a window above others.
func (c *Connection) SetAbove(windowID xproto.Window, above bool) error {
	action := ewmh.StateRemove
	if above {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReq(c.XUtil, windowID, action, stateAbove); err != nil {
		return fmt.Errorf("failed to request above state: %w", err)
	}
	return nil
}

// SetMinSize publishes a minimum frame size through WM_NORMAL_HINTS,
// keeping the other hints the client already set.
func (c *Connection) SetMinSize(windowID xproto.Window, width, height int) error {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil || hints == nil {
		hints = &icccm.NormalHints{}
	}
	cw, ch := c.GetFrameExtents(windowID).InnerSize(width, height)
	hints.Flags |= icccm.SizeHintPMinSize
	hints.MinWidth = uint(cw)
	hints.MinHeight = uint(ch)
	if err := icccm.WmNormalHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set WM_NORMAL_HINTS: %w", err)
	}
	return nil
}

// SetMaxSize pins the maximum frame size through WM_NORMAL_HINTS. A zero
// width or height clears the maximum.
func (c *Connection) SetMaxSize(windowID xproto.Window, width, height int) error {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil || hints == nil {
		hints = &icccm.NormalHints{}
	}
	if width <= 0 || height <= 0 {
		hints.Flags &^= icccm.SizeHintPMaxSize
		hints.MaxWidth, hints.MaxHeight = 0, 0
	} else {
		cw, ch := c.GetFrameExtents(windowID).InnerSize(width, height)
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MaxWidth = uint(cw)
		hints.MaxHeight = uint(ch)
	}
	if err := icccm.WmNormalHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set WM_NORMAL_HINTS: %w", err)
	}
	return nil
}

// WindowRect returns the outer frame geometry of a window in root
// coordinates, decorations included, so that it can be passed back to
// MoveResizeWindow unchanged.
func (c *Connection) WindowRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	x, y, width, height = c.GetFrameExtents(windowID).Outer(
		int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height))
	return x, y, width, height, nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	// Check for normal window type
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
