package config

import (
	"fmt"
	"sort"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults. The returned map
// records, per panel, the builtin it was derived from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.TargetClass != nil {
		cfg.TargetClass = strings.TrimSpace(*raw.TargetClass)
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.ExpandResizeType != nil {
		cfg.ExpandResizeType = *raw.ExpandResizeType
	}
	if raw.ContainInScreen != nil {
		cfg.ContainInScreen = *raw.ContainInScreen
	}
	if raw.RememberScreenBounds != nil {
		cfg.RememberScreenBounds = *raw.RememberScreenBounds
	}
	if raw.AlwaysOnTop != nil {
		cfg.AlwaysOnTop = *raw.AlwaysOnTop
	}
	if raw.LockWindowSize != nil {
		cfg.LockWindowSize = *raw.LockWindowSize
	}
	if raw.SidebarOpen != nil {
		cfg.SidebarOpen = *raw.SidebarOpen
	}
	if raw.SidebarHotkey != nil {
		cfg.SidebarHotkey = *raw.SidebarHotkey
	}
	if raw.ToolbarWidth != nil {
		cfg.ToolbarWidth = *raw.ToolbarWidth
	}
	if raw.ClientMinSize != nil {
		cfg.ClientMinSize.Width = derefInt(raw.ClientMinSize.Width, cfg.ClientMinSize.Width)
		cfg.ClientMinSize.Height = derefInt(raw.ClientMinSize.Height, cfg.ClientMinSize.Height)
	}
	if raw.GameSize != nil {
		cfg.GameSize.Width = derefInt(raw.GameSize.Width, cfg.GameSize.Width)
		cfg.GameSize.Height = derefInt(raw.GameSize.Height, cfg.GameSize.Height)
	}
	if raw.EdgeCloseDistance != nil {
		cfg.EdgeCloseDistance = *raw.EdgeCloseDistance
	}
	if raw.LargeWidthThreshold != nil {
		cfg.LargeWidthThreshold = *raw.LargeWidthThreshold
	}
	if raw.GracePeriodMS != nil {
		cfg.GracePeriodMS = *raw.GracePeriodMS
	}
	if raw.PollIntervalSeconds != nil {
		cfg.PollIntervalSeconds = *raw.PollIntervalSeconds
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}

	panelBases, err := applyPanels(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	if raw.DefaultPanel != nil {
		cfg.DefaultPanel = *raw.DefaultPanel
	}
	if cfg.DefaultPanel == "" {
		cfg.DefaultPanel = DefaultBuiltinPanel
	}
	if _, err := cfg.GetPanel(cfg.DefaultPanel); err != nil {
		return nil, nil, &ValidationError{Path: "default_panel", Err: err}
	}

	return cfg, panelBases, nil
}

func applyPanels(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinPanels()

	// Start with built-ins.
	cfg.Panels = make(map[string]Panel, len(builtin))
	for name, panel := range builtin {
		cfg.Panels[name] = panel
	}

	panelBases := make(map[string]string)
	for name := range cfg.Panels {
		panelBases[name] = name
	}

	// Apply user panel patches.
	for _, name := range sortedKeys(raw.Panels) {
		patch := raw.Panels[name]
		if strings.TrimSpace(name) == "" {
			return nil, &ValidationError{Path: "panels", Err: fmt.Errorf("panel name must not be empty")}
		}

		baseName, basePanel, err := selectPanelBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}

		merged := mergePanelPatch(basePanel, patch)
		if err := validatePanel(merged); err != nil {
			return nil, &ValidationError{Path: "panels." + name, Err: err}
		}

		cfg.Panels[name] = merged
		panelBases[name] = baseName
	}

	return panelBases, nil
}

func selectPanelBase(name string, patch RawPanel, builtin map[string]Panel) (string, Panel, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinPanel
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Panel{}, &ValidationError{
				Path: "panels." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	basePanel, ok := builtin[baseName]
	if !ok {
		return "", Panel{}, &ValidationError{
			Path: "panels." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin panel %q", baseName),
		}
	}

	return baseName, basePanel, nil
}

func mergePanelPatch(base Panel, patch RawPanel) Panel {
	out := base
	if patch.Width != nil {
		out.Width = *patch.Width
	}
	if patch.Hotkey != nil {
		out.Hotkey = *patch.Hotkey
	}
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
