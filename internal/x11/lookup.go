package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ErrWindowNotFound is returned when no managed window matches a lookup.
var ErrWindowNotFound = fmt.Errorf("window not found")

// WindowClass returns the WM_CLASS class name of a window.
func (c *Connection) WindowClass(windowID xproto.Window) (string, error) {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(wmClass.Class), nil
}

// WindowTitle returns the window title, preferring _NET_WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// FindWindowByClass searches the EWMH client list for a normal window whose
// WM_CLASS class or instance equals class (case-insensitive). The active
// window wins when several match.
func (c *Connection) FindWindowByClass(class string) (xproto.Window, error) {
	class = strings.TrimSpace(class)
	if class == "" {
		return 0, fmt.Errorf("window class is empty")
	}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}

	var matches []xproto.Window
	for _, win := range clients {
		wmClass, err := icccm.WmClassGet(c.XUtil, win)
		if err != nil {
			continue
		}
		if !classMatches(wmClass.Class, wmClass.Instance, class) {
			continue
		}
		if !c.IsNormalWindow(win) {
			continue
		}
		matches = append(matches, win)
	}

	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: no window with class %q", ErrWindowNotFound, class)
	}
	if active, err := c.GetActiveWindow(); err == nil {
		for _, win := range matches {
			if win == active {
				return win, nil
			}
		}
	}
	return matches[0], nil
}

// WindowExists reports whether windowID is still in the client list.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}
	for _, win := range clients {
		if win == windowID {
			return true
		}
	}
	return false
}

func classMatches(class, instance, want string) bool {
	return strings.EqualFold(strings.TrimSpace(class), want) ||
		strings.EqualFold(strings.TrimSpace(instance), want)
}

// FindWindowByClassStandalone searches for a window by class using a new
// temporary X11 connection.
func FindWindowByClassStandalone(class string) (uint32, error) {
	conn, err := NewConnection()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer conn.Close()

	win, err := conn.FindWindowByClass(class)
	return uint32(win), err
}
