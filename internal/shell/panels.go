package shell

import (
	"github.com/1broseidon/sidedock/internal/events"
)

// ShowPanel opens the named panel, opening the sidebar first when needed.
// Another open panel is closed before the new one expands the window.
func (u *UI) ShowPanel(name string) error {
	if u.host == nil {
		return ErrNotAttached
	}
	panel, err := u.cfg.GetPanel(name)
	if err != nil {
		return err
	}
	if u.sidebarOpen && u.panel == name {
		return nil
	}

	u.lastPanel = name
	u.setLayout(true, name, panel.Width)
	return nil
}

// HidePanel closes the open panel. The sidebar stays open.
func (u *UI) HidePanel() error {
	if u.host == nil {
		return ErrNotAttached
	}
	if u.panel == "" {
		return nil
	}
	u.setLayout(u.sidebarOpen, "", 0)
	return nil
}

// TogglePanel hides the named panel when it is open and shows it otherwise.
func (u *UI) TogglePanel(name string) error {
	if u.host == nil {
		return ErrNotAttached
	}
	if u.panel == name {
		return u.HidePanel()
	}
	return u.ShowPanel(name)
}

// ToggleSidebar closes the sidebar, remembering the open panel, or reopens
// it with the last panel (or default_panel when none was shown yet).
func (u *UI) ToggleSidebar() error {
	if u.host == nil {
		return ErrNotAttached
	}
	if u.sidebarOpen {
		u.closeSidebar()
		return nil
	}
	u.openSidebar()
	return nil
}

// SidebarOpen reports whether the sidebar is open.
func (u *UI) SidebarOpen() bool {
	return u.sidebarOpen
}

// OpenPanel returns the name of the open panel, or "".
func (u *UI) OpenPanel() string {
	return u.panel
}

func (u *UI) openSidebar() {
	name := u.lastPanel
	if _, err := u.cfg.GetPanel(name); err != nil {
		name = u.cfg.DefaultPanel
	}
	if err := u.ShowPanel(name); err != nil {
		u.logger.Warn("failed to reopen panel", "panel", name, "error", err)
		u.setLayout(true, "", 0)
	}
}

func (u *UI) closeSidebar() {
	if u.panel != "" {
		u.lastPanel = u.panel
	}
	u.setLayout(false, "", 0)
}

// setLayout moves the sidebar and panel to the given state. The window is
// expanded once by the toolbar plus the panel width, so any earlier
// expansion is contracted first with the minimum of a closed sidebar.
func (u *UI) setLayout(sidebar bool, panel string, width int) {
	u.withSizeUnlocked(func() { u.applyLayout(sidebar, panel, width) })
}

func (u *UI) applyLayout(sidebar bool, panel string, width int) {
	oldPanel, oldWidth := u.panel, u.panelWidth

	if u.sidebarOpen {
		u.sidebarOpen, u.panel, u.panelWidth = false, "", 0
		u.coord.Contract(u.expandedBy)
		u.expandedBy = 0
	}
	if oldPanel != "" && oldPanel != panel {
		u.logger.Debug("panel hidden", "panel", oldPanel, "width", oldWidth)
		u.app.Bus.Publish(events.PanelToggled{Name: oldPanel, Width: oldWidth, Open: false})
	}

	u.sidebarOpen, u.panel, u.panelWidth = sidebar, panel, width
	if !sidebar {
		u.revalidateMinimumSize()
		return
	}

	u.expandedBy = u.cfg.ToolbarWidth + width
	u.coord.Expand(u.expandedBy)
	if panel != "" && panel != oldPanel {
		u.logger.Debug("panel shown", "panel", panel, "width", width)
		u.app.Bus.Publish(events.PanelToggled{Name: panel, Width: width, Open: true})
	}
}

// relayout re-applies the current sidebar state, e.g. after the toolbar or
// panel width changed.
func (u *UI) relayout() {
	if !u.sidebarOpen {
		u.revalidateMinimumSize()
		return
	}
	u.setLayout(true, u.panel, u.panelWidth)
}
