//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/1broseidon/sidedock/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// MainPing starts the X11 event loop on its own goroutine; see x11.Connection.MainPing.
func (b *LinuxBackend) MainPing() (before, after, quit chan struct{}) {
	return b.conn.MainPing()
}

// Quit stops the X11 event loop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays with their usable areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitorsWithUsable()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// FindWindow returns the window whose WM_CLASS matches class.
func (b *LinuxBackend) FindWindow(class string) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	win, err := conn.FindWindowByClass(class)
	if err != nil {
		if errors.Is(err, x11.ErrWindowNotFound) {
			return 0, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
		}
		return 0, err
	}
	return WindowID(win), nil
}

// WindowExists reports whether the window is still managed.
func (b *LinuxBackend) WindowExists(windowID WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.WindowExists(xproto.Window(windowID))
}

// WindowInfo returns the class, title and geometry of a window.
func (b *LinuxBackend) WindowInfo(windowID WindowID) (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return Window{}, err
	}

	rect, err := b.WindowRect(windowID)
	if err != nil {
		return Window{}, err
	}
	class, _ := conn.WindowClass(xproto.Window(windowID))

	return Window{
		ID:     windowID,
		Class:  class,
		Title:  conn.WindowTitle(xproto.Window(windowID)),
		Bounds: rect,
	}, nil
}

// WindowRect returns the outer frame geometry in root coordinates.
func (b *LinuxBackend) WindowRect(windowID WindowID) (geometry.Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return geometry.Rect{}, err
	}

	x, y, w, h, err := conn.WindowRect(xproto.Window(windowID))
	if err != nil {
		return geometry.Rect{}, err
	}
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// MoveResize places the outer frame of a window at bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds geometry.Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

// WindowState reads the EWMH state of a window.
func (b *LinuxBackend) WindowState(windowID WindowID) (WindowState, error) {
	conn, err := b.connection()
	if err != nil {
		return WindowState{}, err
	}

	st, err := conn.GetWindowState(xproto.Window(windowID))
	if err != nil {
		return WindowState{}, err
	}
	return WindowState{
		MaximizedHorz: st.MaximizedHorz,
		MaximizedVert: st.MaximizedVert,
		Above:         st.Above,
		Hidden:        st.Hidden,
	}, nil
}

// SetMaximized requests maximizing or restoring a window.
func (b *LinuxBackend) SetMaximized(windowID WindowID, maximized bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetMaximized(xproto.Window(windowID), maximized)
}

// SetAbove requests keeping a window above others.
func (b *LinuxBackend) SetAbove(windowID WindowID, above bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetAbove(xproto.Window(windowID), above)
}

// SetMinSize publishes the window's minimum size to the window manager.
func (b *LinuxBackend) SetMinSize(windowID WindowID, size geometry.Size) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetMinSize(xproto.Window(windowID), size.Width, size.Height)
}

// SetMaxSize pins the window's maximum size. A zero size removes the limit.
func (b *LinuxBackend) SetMaxSize(windowID WindowID, size geometry.Size) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetMaxSize(xproto.Window(windowID), size.Width, size.Height)
}

// Watch subscribes to configure and destroy notifications for a window.
func (b *LinuxBackend) Watch(windowID WindowID, watch WindowWatch) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchWindow(xproto.Window(windowID), x11.WindowWatch{
		OnConfigure: watch.OnConfigure,
		OnDestroy:   watch.OnDestroy,
	})
}

// Unwatch drops every notification callback for a window.
func (b *LinuxBackend) Unwatch(windowID WindowID) {
	if conn, err := b.connection(); err == nil {
		conn.UnwatchWindow(xproto.Window(windowID))
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	bounds := geometry.Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
	usable := geometry.Rect{
		X:      m.Usable.X,
		Y:      m.Usable.Y,
		Width:  m.Usable.Width,
		Height: m.Usable.Height,
	}
	if usable.Empty() {
		usable = bounds
	}
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: bounds,
		Usable: usable,
	}
}
