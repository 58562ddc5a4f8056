package shell

import (
	"github.com/1broseidon/sidedock/internal/config"
	"github.com/1broseidon/sidedock/internal/events"
)

// ApplyConfig switches to cfg and publishes one ConfigChanged per changed
// key. The UI reacts to those events itself, as does any other subscriber.
func (u *UI) ApplyConfig(cfg *config.Config) []config.Change {
	if cfg == nil {
		return nil
	}
	changes := config.Diff(u.cfg, cfg)
	u.cfg = cfg
	u.app.Config = cfg

	for _, ch := range changes {
		u.app.Bus.Publish(events.ConfigChanged{Key: ch.Key, OldValue: ch.OldValue, NewValue: ch.NewValue})
	}
	return changes
}

func (u *UI) onConfigChanged(ev events.ConfigChanged) {
	u.logger.Debug("config changed", "key", ev.Key, "old", ev.OldValue, "new", ev.NewValue)

	switch ev.Key {
	case "remember_screen_bounds":
		if !u.cfg.RememberScreenBounds {
			if err := u.ForgetBounds(); err != nil {
				u.logger.Warn("failed to clear saved bounds", "error", err)
			}
		}
		return
	case "default_panel":
		return
	}

	if u.host == nil {
		return
	}

	switch ev.Key {
	case "contain_in_screen":
		if err := u.coord.SetContained(u.cfg.ContainInScreen); err != nil {
			u.logger.Warn("failed to contain window in screen", "error", err)
		}
	case "always_on_top":
		if err := u.host.SetAlwaysOnTop(u.cfg.AlwaysOnTop); err != nil {
			u.logger.Warn("failed to set always on top", "error", err)
		}
	case "expand_resize_type":
		u.coord.SetMode(u.cfg.ResizeMode())
	case "toolbar_width":
		u.relayout()
	case "client_min_size":
		u.revalidateMinimumSize()
	case "game_size":
		u.applyGameSize()
	case "lock_window_size":
		u.applySizeLock()
	case "panels":
		u.reconcilePanels()
	case "edge_close_distance", "large_width_threshold", "grace_period_ms":
		u.logger.Info("setting applies on next attach", "key", ev.Key)
	}
}

// reconcilePanels closes the open panel when it was removed from the config
// and reopens it when its width changed.
func (u *UI) reconcilePanels() {
	if _, err := u.cfg.GetPanel(u.lastPanel); err != nil {
		u.lastPanel = ""
	}
	if u.panel == "" {
		u.revalidateMinimumSize()
		return
	}
	panel, err := u.cfg.GetPanel(u.panel)
	if err != nil {
		u.logger.Info("open panel removed from config, closing", "panel", u.panel)
		u.setLayout(u.sidebarOpen, "", 0)
		return
	}
	if panel.Width != u.panelWidth {
		u.setLayout(u.sidebarOpen, u.panel, panel.Width)
		return
	}
	u.revalidateMinimumSize()
}
