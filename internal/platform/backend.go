package platform

import (
	"errors"

	"github.com/1broseidon/sidedock/internal/geometry"
)

// ErrWindowNotFound is returned when no window matches a lookup.
var ErrWindowNotFound = errors.New("window not found")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds geometry.Rect
	Usable geometry.Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	Class  string
	Title  string
	Bounds geometry.Rect
}

// WindowState is the window manager state of a top-level window.
type WindowState struct {
	MaximizedHorz bool
	MaximizedVert bool
	Above         bool
	Hidden        bool
}

// WindowWatch receives structure notifications for one window. Callbacks run
// on the window system's event goroutine.
type WindowWatch struct {
	OnConfigure func()
	OnDestroy   func()
}

// Backend abstracts window-system operations across platforms. Rects and
// sizes describe the outer frame, window decorations included.
type Backend interface {
	Displays() ([]Display, error)
	FindWindow(class string) (WindowID, error)
	WindowExists(windowID WindowID) bool
	WindowInfo(windowID WindowID) (Window, error)
	WindowRect(windowID WindowID) (geometry.Rect, error)
	MoveResize(windowID WindowID, bounds geometry.Rect) error
	WindowState(windowID WindowID) (WindowState, error)
	SetMaximized(windowID WindowID, maximized bool) error
	SetAbove(windowID WindowID, above bool) error
	SetMinSize(windowID WindowID, size geometry.Size) error
	SetMaxSize(windowID WindowID, size geometry.Size) error
	Watch(windowID WindowID, watch WindowWatch) error
	Unwatch(windowID WindowID)
}

// DisplayForRect returns the display hosting the center of r. When the
// center lies outside every display the one with the nearest center wins.
func DisplayForRect(displays []Display, r geometry.Rect) (Display, bool) {
	if len(displays) == 0 {
		return Display{}, false
	}

	center := r.Center()
	for _, d := range displays {
		if d.Bounds.Contains(center) {
			return d, true
		}
	}

	best := displays[0]
	bestDist := -1
	for _, d := range displays {
		c := d.Bounds.Center()
		dx := c.X - center.X
		dy := c.Y - center.Y
		dist := dx*dx + dy*dy
		if bestDist < 0 || dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best, true
}
