package shell

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/sidedock/internal/config"
	"github.com/1broseidon/sidedock/internal/events"
	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/1broseidon/sidedock/internal/resize"
	"github.com/1broseidon/sidedock/internal/state"
)

var (
	// ErrNotAttached is returned by panel operations while no host window
	// is attached.
	ErrNotAttached = errors.New("no host window attached")
	// ErrShutdown is returned by Attach after Shutdown.
	ErrShutdown = errors.New("ui is shut down")
)

// UI drives one host window at a time. It is not safe for concurrent use;
// every method must run on the UI loop.
type UI struct {
	app    *Context
	cfg    *config.Config
	logger *slog.Logger

	host  Host
	guard *geometry.Guard
	coord *resize.Coordinator

	sidebarOpen bool
	panel       string
	panelWidth  int
	lastPanel   string
	expandedBy  int // width the coordinator was last expanded by
	shutdown    bool
}

// New creates a detached UI and subscribes it to the window and config
// events on app.Bus.
func New(app *Context) *UI {
	cfg := app.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if app.Bus == nil {
		app.Bus = events.NewBus()
	}

	u := &UI{
		app:    app,
		cfg:    cfg,
		logger: app.logger().With("component", "shell"),
	}

	events.On(app.Bus, u.onWindowMoved)
	events.On(app.Bus, u.onWindowResized)
	events.On(app.Bus, u.onWindowClosed)
	events.On(app.Bus, u.onConfigChanged)
	return u
}

// Config returns the configuration currently in effect.
func (u *UI) Config() *config.Config {
	return u.cfg
}

// Attached reports whether a host window is attached.
func (u *UI) Attached() bool {
	return u.host != nil
}

// Host returns the attached window, or nil.
func (u *UI) Host() Host {
	return u.host
}

// Coordinator returns the resize coordinator of the attached window, or nil.
func (u *UI) Coordinator() *resize.Coordinator {
	return u.coord
}

// MinimumLayoutSize is the client minimum size widened by the toolbar while
// the sidebar is open and by the open panel.
func (u *UI) MinimumLayoutSize() geometry.Size {
	width := u.cfg.ClientMinSize.Width
	if u.sidebarOpen {
		width += u.cfg.ToolbarWidth
	}
	if u.panel != "" {
		width += u.panelWidth
	}
	return geometry.Size{Width: width, Height: u.cfg.ClientMinSize.Height}
}

// Attach takes over host. A previously attached window is detached first.
func (u *UI) Attach(host Host) error {
	if u.shutdown {
		return ErrShutdown
	}
	if host == nil {
		return fmt.Errorf("host window is nil")
	}
	if u.host != nil {
		if err := u.Detach(); err != nil {
			u.logger.Warn("failed to persist bounds of previous window", "error", err)
		}
	}

	u.host = host
	u.guard = geometry.NewGuard(host)
	u.coord = resize.NewCoordinator(host, u, u.guard, resize.Options{
		Mode:                u.cfg.ResizeMode(),
		EdgeCloseDistance:   u.cfg.EdgeCloseDistance,
		LargeWidthThreshold: u.cfg.LargeWidthThreshold,
		GracePeriod:         u.cfg.GracePeriod(),
		Now:                 u.app.now(),
		Logger:              u.logger,
	})
	u.sidebarOpen = false
	u.panel = ""
	u.panelWidth = 0
	u.expandedBy = 0
	u.logger = u.app.logger().With("component", "shell", "window", uint32(host.ID()))

	if !u.restoreBounds() {
		u.applyGameSize()
	}
	u.rescueHidden()

	if err := u.coord.SetContained(u.cfg.ContainInScreen); err != nil {
		u.logger.Warn("failed to contain window in screen", "error", err)
	}
	if u.cfg.AlwaysOnTop {
		if err := host.SetAlwaysOnTop(true); err != nil {
			u.logger.Warn("failed to set always on top", "error", err)
		}
	}
	u.revalidateMinimumSize()

	if err := host.Watch(); err != nil {
		u.logger.Warn("failed to watch host window", "error", err)
	}

	u.logger.Info("attached to host window", "bounds", host.Bounds().String())

	if u.cfg.SidebarOpen {
		u.openSidebar()
	}
	u.applySizeLock()
	return nil
}

// Detach closes the sidebar and lifts the size lock before persisting the
// window bounds and releasing the window. Detaching while detached is a no-op.
func (u *UI) Detach() error {
	if u.host == nil {
		return nil
	}

	if !u.host.Closed() {
		if u.sidebarOpen {
			u.closeSidebar()
		}
		if u.cfg.LockWindowSize {
			u.setMaximumSize(geometry.Size{})
		}
	}
	err := u.persistBounds()
	u.release()
	return err
}

// Shutdown detaches and refuses further attaches.
func (u *UI) Shutdown() error {
	err := u.Detach()
	u.shutdown = true
	u.logger.Info("ui shut down")
	return err
}

// Status reports the current UI state.
func (u *UI) Status() Status {
	st := Status{
		SidebarOpen: u.sidebarOpen,
		Panel:       u.panel,
		PanelWidth:  u.panelWidth,
		Mode:        string(u.cfg.ResizeMode()),
		Contained:   u.cfg.ContainInScreen,
		Minimum:     u.MinimumLayoutSize(),
		State:       resize.Contracted.String(),
	}
	if u.host == nil {
		return st
	}

	st.Attached = true
	st.WindowID = uint32(u.host.ID())
	st.Bounds = u.host.Bounds()
	st.Screen = u.host.ScreenBounds()
	st.State = u.coord.State().String()
	st.Mode = string(u.coord.Mode())
	st.Contained = u.guard.Contained()
	st.Maximized = u.host.MaximizeState().Full()
	st.Snapshot = u.coord.Memory().Snapshot
	return st
}

// ForgetBounds removes any persisted placement.
func (u *UI) ForgetBounds() error {
	if u.app.Store == nil {
		return nil
	}
	return u.app.Store.Forget()
}

// restoreBounds applies the persisted placement and reports whether there
// was one.
func (u *UI) restoreBounds() bool {
	if !u.cfg.RememberScreenBounds || u.app.Store == nil {
		return false
	}

	saved, ok, err := u.app.Store.LoadSaved()
	if err != nil {
		u.logger.Warn("failed to restore window bounds", "error", err)
		current := u.host.Bounds()
		u.commit(geometry.Centered(current, u.host.ScreenBounds()))
		return false
	}
	if !ok {
		return false
	}

	if !saved.Bounds.Empty() {
		u.commit(saved.Bounds)
	}
	if saved.Maximized {
		if err := u.host.SetMaximized(true); err != nil {
			u.logger.Warn("failed to restore maximized state", "error", err)
		}
	}
	return true
}

// rescueHidden recenters a window the user could not reach, e.g. after the
// monitor it was saved on went away.
func (u *UI) rescueHidden() {
	current := u.host.Bounds()
	screen := u.host.ScreenBounds()
	if !geometry.WellHidden(current, screen) {
		return
	}
	u.logger.Info("window is off screen, centering", "bounds", current.String())
	u.commit(geometry.Centered(current, screen))
}

func (u *UI) persistBounds() error {
	if !u.cfg.RememberScreenBounds || u.app.Store == nil || u.host == nil {
		return nil
	}

	if !u.host.Closed() && u.host.MaximizeState().Full() {
		return u.app.Store.MarkMaximized()
	}

	bounds := u.host.Bounds()
	if u.coord != nil && u.coord.State() == resize.Expanded {
		// The window died with the panel open.
		if snap := u.coord.Memory().Snapshot; snap != nil {
			bounds = *snap
		}
	}
	if bounds.Empty() {
		return nil
	}
	return u.app.Store.SaveBounds(state.Saved{Bounds: bounds})
}

func (u *UI) release() {
	u.host.Unwatch()
	u.logger.Info("detached from host window")
	u.host = nil
	u.guard = nil
	u.coord = nil
	u.panel = ""
	u.panelWidth = 0
	u.sidebarOpen = false
	u.expandedBy = 0
}

func (u *UI) commit(r geometry.Rect) {
	var err error
	if u.guard != nil {
		err = u.guard.SetBounds(r)
	} else {
		err = u.host.SetBounds(r)
	}
	if err != nil {
		u.logger.Warn("failed to set window bounds", "bounds", r.String(), "error", err)
	}
}

func (u *UI) revalidateMinimumSize() {
	if u.host == nil {
		return
	}
	minimum := u.MinimumLayoutSize()
	if err := u.host.SetMinimumSize(minimum); err != nil {
		u.logger.Warn("failed to set minimum window size", "width", minimum.Width, "height", minimum.Height, "error", err)
	}
}

func (u *UI) onWindowMoved(ev events.WindowMoved) {
	if u.owns(ev.WindowID) {
		u.coord.OnMoved()
	}
}

func (u *UI) onWindowResized(ev events.WindowResized) {
	if u.owns(ev.WindowID) {
		u.coord.OnResized()
	}
}

func (u *UI) onWindowClosed(ev events.WindowClosed) {
	if !u.owns(ev.WindowID) {
		return
	}
	if err := u.Detach(); err != nil {
		u.logger.Warn("failed to persist bounds of closed window", "error", err)
	}
}

func (u *UI) owns(windowID uint32) bool {
	return u.host != nil && uint32(u.host.ID()) == windowID
}
