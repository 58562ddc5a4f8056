// Package shell owns the host window while it is attached: bounds restore
// and persistence, the side panel and sidebar state, and the reactions to
// configuration changes.
package shell

import (
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/sidedock/internal/config"
	"github.com/1broseidon/sidedock/internal/events"
	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/1broseidon/sidedock/internal/platform"
	"github.com/1broseidon/sidedock/internal/resize"
	"github.com/1broseidon/sidedock/internal/state"
)

// Context is the application-wide state built once at startup and handed to
// every component.
type Context struct {
	Config *config.Config
	Store  *state.Store // nil disables bounds persistence
	Logger *slog.Logger
	Bus    *events.Bus
	Now    func() time.Time
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

func (c *Context) now() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

// Host is the window the UI drives. platform.HostWindow implements it.
type Host interface {
	resize.Window
	ID() platform.WindowID
	SetMaximized(maximized bool) error
	SetAlwaysOnTop(above bool) error
	SetMaximumSize(s geometry.Size) error
	Watch() error
	Unwatch()
	Closed() bool
}

var _ Host = (*platform.HostWindow)(nil)

// Status is a point-in-time view of the UI.
type Status struct {
	Attached    bool           `json:"attached"`
	WindowID    uint32         `json:"window_id,omitempty"`
	Bounds      geometry.Rect  `json:"bounds"`
	Screen      geometry.Rect  `json:"screen"`
	State       string         `json:"state"`
	Mode        string         `json:"mode"`
	Contained   bool           `json:"contained"`
	Maximized   bool           `json:"maximized"`
	SidebarOpen bool           `json:"sidebar_open"`
	Panel       string         `json:"panel,omitempty"`
	PanelWidth  int            `json:"panel_width,omitempty"`
	Minimum     geometry.Size  `json:"minimum"`
	Snapshot    *geometry.Rect `json:"snapshot,omitempty"`
}
