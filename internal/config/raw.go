package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawSize struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawPanel struct {
	Inherits *string `yaml:"inherits"`
	Width    *int    `yaml:"width"`
	Hotkey   *string `yaml:"hotkey"`
}

type RawConfig struct {
	Include              IncludeList         `yaml:"include"`
	TargetClass          *string             `yaml:"target_class"`
	Display              *string             `yaml:"display"`
	XAuthority           *string             `yaml:"xauthority"`
	ExpandResizeType     *string             `yaml:"expand_resize_type"`
	ContainInScreen      *bool               `yaml:"contain_in_screen"`
	RememberScreenBounds *bool               `yaml:"remember_screen_bounds"`
	AlwaysOnTop          *bool               `yaml:"always_on_top"`
	LockWindowSize       *bool               `yaml:"lock_window_size"`
	SidebarOpen          *bool               `yaml:"sidebar_open"`
	SidebarHotkey        *string             `yaml:"sidebar_hotkey"`
	ToolbarWidth         *int                `yaml:"toolbar_width"`
	ClientMinSize        *RawSize            `yaml:"client_min_size"`
	GameSize             *RawSize            `yaml:"game_size"`
	EdgeCloseDistance    *int                `yaml:"edge_close_distance"`
	LargeWidthThreshold  *int                `yaml:"large_width_threshold"`
	GracePeriodMS        *int                `yaml:"grace_period_ms"`
	PollIntervalSeconds  *int                `yaml:"poll_interval_seconds"`
	LogLevel             *string             `yaml:"log_level"`
	DefaultPanel         *string             `yaml:"default_panel"`
	Panels               map[string]RawPanel `yaml:"panels"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.TargetClass != nil {
		out.TargetClass = overlay.TargetClass
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.ExpandResizeType != nil {
		out.ExpandResizeType = overlay.ExpandResizeType
	}
	if overlay.ContainInScreen != nil {
		out.ContainInScreen = overlay.ContainInScreen
	}
	if overlay.RememberScreenBounds != nil {
		out.RememberScreenBounds = overlay.RememberScreenBounds
	}
	if overlay.AlwaysOnTop != nil {
		out.AlwaysOnTop = overlay.AlwaysOnTop
	}
	if overlay.LockWindowSize != nil {
		out.LockWindowSize = overlay.LockWindowSize
	}
	if overlay.SidebarOpen != nil {
		out.SidebarOpen = overlay.SidebarOpen
	}
	if overlay.SidebarHotkey != nil {
		out.SidebarHotkey = overlay.SidebarHotkey
	}
	if overlay.ToolbarWidth != nil {
		out.ToolbarWidth = overlay.ToolbarWidth
	}
	if overlay.ClientMinSize != nil {
		out.ClientMinSize = overlaySize(out.ClientMinSize, *overlay.ClientMinSize)
	}
	if overlay.GameSize != nil {
		out.GameSize = overlaySize(out.GameSize, *overlay.GameSize)
	}
	if overlay.EdgeCloseDistance != nil {
		out.EdgeCloseDistance = overlay.EdgeCloseDistance
	}
	if overlay.LargeWidthThreshold != nil {
		out.LargeWidthThreshold = overlay.LargeWidthThreshold
	}
	if overlay.GracePeriodMS != nil {
		out.GracePeriodMS = overlay.GracePeriodMS
	}
	if overlay.PollIntervalSeconds != nil {
		out.PollIntervalSeconds = overlay.PollIntervalSeconds
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.DefaultPanel != nil {
		out.DefaultPanel = overlay.DefaultPanel
	}
	if overlay.Panels != nil {
		merged := make(map[string]RawPanel, len(out.Panels)+len(overlay.Panels))
		for name, panel := range out.Panels {
			merged[name] = panel
		}
		for name, panel := range overlay.Panels {
			if base, ok := merged[name]; ok {
				merged[name] = mergeRawPanel(base, panel)
			} else {
				merged[name] = panel
			}
		}
		out.Panels = merged
	}

	return out
}

// overlaySize merges into a copy so included files never alias each other.
func overlaySize(base *RawSize, overlay RawSize) *RawSize {
	out := RawSize{}
	if base != nil {
		out = *base
	}
	out = mergeRawSize(out, overlay)
	return &out
}

func mergeRawSize(base RawSize, overlay RawSize) RawSize {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return out
}

func mergeRawPanel(base RawPanel, overlay RawPanel) RawPanel {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Hotkey != nil {
		out.Hotkey = overlay.Hotkey
	}
	return out
}
