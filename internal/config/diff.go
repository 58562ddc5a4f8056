package config

import "maps"

// Change is a single top-level key whose effective value differs between
// two configs.
type Change struct {
	Key      string
	OldValue any
	NewValue any
}

// Diff lists the keys that differ between old and new, in a stable order.
// A nil old config is treated as the defaults.
func Diff(old, new *Config) []Change {
	if old == nil {
		old = DefaultConfig()
	}
	if new == nil {
		new = DefaultConfig()
	}

	var changes []Change
	add := func(key string, a, b any) {
		changes = append(changes, Change{Key: key, OldValue: a, NewValue: b})
	}

	if old.TargetClass != new.TargetClass {
		add("target_class", old.TargetClass, new.TargetClass)
	}
	if old.ExpandResizeType != new.ExpandResizeType {
		add("expand_resize_type", old.ExpandResizeType, new.ExpandResizeType)
	}
	if old.ContainInScreen != new.ContainInScreen {
		add("contain_in_screen", old.ContainInScreen, new.ContainInScreen)
	}
	if old.RememberScreenBounds != new.RememberScreenBounds {
		add("remember_screen_bounds", old.RememberScreenBounds, new.RememberScreenBounds)
	}
	if old.AlwaysOnTop != new.AlwaysOnTop {
		add("always_on_top", old.AlwaysOnTop, new.AlwaysOnTop)
	}
	if old.LockWindowSize != new.LockWindowSize {
		add("lock_window_size", old.LockWindowSize, new.LockWindowSize)
	}
	if old.SidebarOpen != new.SidebarOpen {
		add("sidebar_open", old.SidebarOpen, new.SidebarOpen)
	}
	if old.SidebarHotkey != new.SidebarHotkey {
		add("sidebar_hotkey", old.SidebarHotkey, new.SidebarHotkey)
	}
	if old.ToolbarWidth != new.ToolbarWidth {
		add("toolbar_width", old.ToolbarWidth, new.ToolbarWidth)
	}
	if old.ClientMinSize != new.ClientMinSize {
		add("client_min_size", old.ClientMinSize, new.ClientMinSize)
	}
	if old.GameSize != new.GameSize {
		add("game_size", old.GameSize, new.GameSize)
	}
	if old.EdgeCloseDistance != new.EdgeCloseDistance {
		add("edge_close_distance", old.EdgeCloseDistance, new.EdgeCloseDistance)
	}
	if old.LargeWidthThreshold != new.LargeWidthThreshold {
		add("large_width_threshold", old.LargeWidthThreshold, new.LargeWidthThreshold)
	}
	if old.GracePeriodMS != new.GracePeriodMS {
		add("grace_period_ms", old.GracePeriodMS, new.GracePeriodMS)
	}
	if old.PollIntervalSeconds != new.PollIntervalSeconds {
		add("poll_interval_seconds", old.PollIntervalSeconds, new.PollIntervalSeconds)
	}
	if old.LogLevel != new.LogLevel {
		add("log_level", old.LogLevel, new.LogLevel)
	}
	if old.DefaultPanel != new.DefaultPanel {
		add("default_panel", old.DefaultPanel, new.DefaultPanel)
	}
	if !maps.Equal(old.Panels, new.Panels) {
		add("panels", old.PanelNames(), new.PanelNames())
	}

	return changes
}
