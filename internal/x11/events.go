package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowWatch receives structure notifications for one window. Callbacks run
// on the X event goroutine.
type WindowWatch struct {
	OnConfigure func()
	OnDestroy   func()
}

// WatchWindow subscribes to ConfigureNotify and DestroyNotify for windowID.
// Callers re-query geometry on configure: event coordinates are relative to
// the window manager's frame for reparented windows.
func (c *Connection) WatchWindow(windowID xproto.Window, watch WindowWatch) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to listen on window %d: %w", windowID, err)
	}

	if watch.OnConfigure != nil {
		xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
			watch.OnConfigure()
		}).Connect(c.XUtil, windowID)
	}
	if watch.OnDestroy != nil {
		xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
			watch.OnDestroy()
		}).Connect(c.XUtil, windowID)
	}
	return nil
}

// UnwatchWindow drops every callback registered for windowID.
func (c *Connection) UnwatchWindow(windowID xproto.Window) {
	xevent.Detach(c.XUtil, windowID)
}
