package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	target_class
//	display
//	xauthority
//	expand_resize_type
//	contain_in_screen
//	remember_screen_bounds
//	always_on_top
//	lock_window_size
//	sidebar_open
//	sidebar_hotkey
//	toolbar_width
//	client_min_size.width
//	game_size.width
//	edge_close_distance
//	large_width_threshold
//	grace_period_ms
//	poll_interval_seconds
//	log_level
//	default_panel
//	panels.<name>.width
//	panels.<name>.hotkey
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise infer from category.
	if strings.HasPrefix(path, "panels.") {
		name := panelNameFromPath(path)
		base := ""
		if name != "" {
			base = res.PanelBases[name]
		}
		return value, Source{Kind: SourceBuiltin, Name: base}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func panelNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		return ""
	}
	if parts[0] != "panels" {
		return ""
	}
	return parts[1]
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")

	scalar := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "target_class":
		return scalar(cfg.TargetClass)
	case "display":
		return scalar(cfg.Display)
	case "xauthority":
		return scalar(cfg.XAuthority)
	case "expand_resize_type":
		return scalar(cfg.ExpandResizeType)
	case "contain_in_screen":
		return scalar(cfg.ContainInScreen)
	case "remember_screen_bounds":
		return scalar(cfg.RememberScreenBounds)
	case "always_on_top":
		return scalar(cfg.AlwaysOnTop)
	case "lock_window_size":
		return scalar(cfg.LockWindowSize)
	case "sidebar_open":
		return scalar(cfg.SidebarOpen)
	case "sidebar_hotkey":
		return scalar(cfg.SidebarHotkey)
	case "toolbar_width":
		return scalar(cfg.ToolbarWidth)
	case "edge_close_distance":
		return scalar(cfg.EdgeCloseDistance)
	case "large_width_threshold":
		return scalar(cfg.LargeWidthThreshold)
	case "grace_period_ms":
		return scalar(cfg.GracePeriodMS)
	case "poll_interval_seconds":
		return scalar(cfg.PollIntervalSeconds)
	case "log_level":
		return scalar(cfg.LogLevel)
	case "default_panel":
		return scalar(cfg.DefaultPanel)
	case "client_min_size":
		return sizeField(cfg.ClientMinSize, parts, path)
	case "game_size":
		return sizeField(cfg.GameSize, parts, path)
	case "panels":
		if len(parts) == 1 {
			return cfg.PanelNames(), nil
		}
		name := parts[1]
		panel, ok := cfg.Panels[name]
		if !ok {
			return nil, fmt.Errorf("unknown panel %q", name)
		}
		if len(parts) == 2 {
			return panel, nil
		}
		if len(parts) != 3 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[2] {
		case "width":
			return panel.Width, nil
		case "hotkey":
			return panel.Hotkey, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func sizeField(s Size, parts []string, path string) (any, error) {
	if len(parts) == 1 {
		return s, nil
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[1] {
	case "width":
		return s.Width, nil
	case "height":
		return s.Height, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
