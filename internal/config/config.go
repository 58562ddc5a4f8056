package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/sidedock/internal/resize"
)

const (
	DefaultTargetClass         = "RuneLite"
	DefaultToolbarWidth        = 26
	DefaultClientMinWidth      = 765
	DefaultClientMinHeight     = 503
	DefaultPollIntervalSeconds = 2
)

// MaxGameWidth and MaxGameHeight cap game_size.
const (
	MaxGameWidth  = 7680
	MaxGameHeight = 2160
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Panel describes a side panel the sidebar can show.
type Panel struct {
	Width  int    `yaml:"width"`
	Hotkey string `yaml:"hotkey,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	TargetClass          string           `yaml:"target_class"`
	Display              string           `yaml:"display,omitempty"`
	XAuthority           string           `yaml:"xauthority,omitempty"`
	ExpandResizeType     string           `yaml:"expand_resize_type"`
	ContainInScreen      bool             `yaml:"contain_in_screen"`
	RememberScreenBounds bool             `yaml:"remember_screen_bounds"`
	AlwaysOnTop          bool             `yaml:"always_on_top"`
	LockWindowSize       bool             `yaml:"lock_window_size"`
	SidebarOpen          bool             `yaml:"sidebar_open"`
	SidebarHotkey        string           `yaml:"sidebar_hotkey"`
	ToolbarWidth         int              `yaml:"toolbar_width"`
	ClientMinSize        Size             `yaml:"client_min_size"`
	GameSize             Size             `yaml:"game_size"` // 0x0 = leave the window alone
	EdgeCloseDistance    int              `yaml:"edge_close_distance"`
	LargeWidthThreshold  int              `yaml:"large_width_threshold"` // 0 = disabled
	GracePeriodMS        int              `yaml:"grace_period_ms"`
	PollIntervalSeconds  int              `yaml:"poll_interval_seconds"`
	LogLevel             string           `yaml:"log_level"`
	DefaultPanel         string           `yaml:"default_panel"`
	Panels               map[string]Panel `yaml:"panels"`
}

func DefaultConfig() *Config {
	return &Config{
		TargetClass:          DefaultTargetClass,
		ExpandResizeType:     string(resize.ModeKeepGameSize),
		ContainInScreen:      false,
		RememberScreenBounds: true,
		SidebarOpen:          false,
		SidebarHotkey:        "Mod4-Mod1-s",
		ToolbarWidth:         DefaultToolbarWidth,
		ClientMinSize: Size{
			Width:  DefaultClientMinWidth,
			Height: DefaultClientMinHeight,
		},
		EdgeCloseDistance:   resize.DefaultEdgeCloseDistance,
		LargeWidthThreshold: resize.DefaultLargeWidthThreshold,
		GracePeriodMS:       int(resize.DefaultGracePeriod / time.Millisecond),
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		LogLevel:            "info",
		DefaultPanel:        DefaultBuiltinPanel,
		Panels:              BuiltinPanels(),
	}
}

// ResizeMode returns the parsed expand_resize_type.
func (c *Config) ResizeMode() resize.Mode {
	mode, err := resize.ParseMode(c.ExpandResizeType)
	if err != nil {
		return resize.ModeKeepGameSize
	}
	return mode
}

// GracePeriod returns grace_period_ms as a duration.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodMS) * time.Millisecond
}

// GameSizeSet reports whether game_size asks for a content size.
func (c *Config) GameSizeSet() bool {
	return c.GameSize.Width > 0 && c.GameSize.Height > 0
}

// CappedGameSize returns game_size limited to MaxGameWidth x MaxGameHeight.
func (c *Config) CappedGameSize() Size {
	return Size{
		Width:  min(c.GameSize.Width, MaxGameWidth),
		Height: min(c.GameSize.Height, MaxGameHeight),
	}
}

// PollInterval returns poll_interval_seconds as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetPanel retrieves a panel by name.
func (c *Config) GetPanel(name string) (Panel, error) {
	panel, ok := c.Panels[name]
	if !ok {
		return Panel{}, fmt.Errorf("panel %q not found", name)
	}
	return panel, nil
}

// PanelNames returns the configured panel names in sorted order.
func (c *Config) PanelNames() []string {
	names := make([]string, 0, len(c.Panels))
	for name := range c.Panels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include/inherits structure from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TargetClass) == "" {
		return &ValidationError{Path: "target_class", Err: fmt.Errorf("target_class is required")}
	}
	if _, err := resize.ParseMode(c.ExpandResizeType); err != nil {
		return &ValidationError{Path: "expand_resize_type", Err: err}
	}
	if c.ToolbarWidth < 0 {
		return &ValidationError{Path: "toolbar_width", Err: fmt.Errorf("toolbar_width must be >= 0")}
	}
	if c.ClientMinSize.Width <= 0 {
		return &ValidationError{Path: "client_min_size.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.ClientMinSize.Height <= 0 {
		return &ValidationError{Path: "client_min_size.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.GameSize.Width < 0 || c.GameSize.Height < 0 {
		return &ValidationError{Path: "game_size", Err: fmt.Errorf("width and height must be >= 0")}
	}
	if (c.GameSize.Width == 0) != (c.GameSize.Height == 0) {
		return &ValidationError{Path: "game_size", Err: fmt.Errorf("width and height must both be set or both be 0")}
	}
	if c.EdgeCloseDistance < 0 {
		return &ValidationError{Path: "edge_close_distance", Err: fmt.Errorf("edge_close_distance must be >= 0")}
	}
	if c.LargeWidthThreshold < 0 {
		return &ValidationError{Path: "large_width_threshold", Err: fmt.Errorf("large_width_threshold must be >= 0")}
	}
	if c.GracePeriodMS <= 0 {
		return &ValidationError{Path: "grace_period_ms", Err: fmt.Errorf("grace_period_ms must be > 0")}
	}
	if c.PollIntervalSeconds <= 0 {
		return &ValidationError{Path: "poll_interval_seconds", Err: fmt.Errorf("poll_interval_seconds must be > 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if len(c.Panels) == 0 {
		return &ValidationError{Path: "panels", Err: fmt.Errorf("panels must not be empty")}
	}
	if c.DefaultPanel == "" {
		return &ValidationError{Path: "default_panel", Err: fmt.Errorf("default_panel is required")}
	}
	if _, ok := c.Panels[c.DefaultPanel]; !ok {
		return &ValidationError{Path: "default_panel", Err: fmt.Errorf("default_panel %q not found in panels", c.DefaultPanel)}
	}
	for _, name := range c.PanelNames() {
		panel := c.Panels[name]
		if err := validatePanel(panel); err != nil {
			return &ValidationError{Path: "panels." + name, Err: err}
		}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string

	seen := make(map[string]string)
	if c.SidebarHotkey != "" {
		seen[c.SidebarHotkey] = "sidebar_hotkey"
	}
	for _, name := range c.PanelNames() {
		key := c.Panels[name].Hotkey
		if key == "" {
			continue
		}
		if owner, dup := seen[key]; dup {
			warnings = append(warnings, fmt.Sprintf("panels.%s.hotkey %q is also bound by %s; only the first binding fires", name, key, owner))
			continue
		}
		seen[key] = "panels." + name
	}

	if c.GameSizeSet() && (c.GameSize.Width > MaxGameWidth || c.GameSize.Height > MaxGameHeight) {
		warnings = append(warnings, fmt.Sprintf("game_size is capped at %dx%d", MaxGameWidth, MaxGameHeight))
	}
	if c.GameSizeSet() && (c.GameSize.Width < c.ClientMinSize.Width || c.GameSize.Height < c.ClientMinSize.Height) {
		warnings = append(warnings, "game_size is below client_min_size; the minimum wins")
	}

	if c.ResizeMode() == resize.ModeKeepGameSize && c.LargeWidthThreshold > 0 && c.ClientMinSize.Width >= c.LargeWidthThreshold {
		warnings = append(warnings, "client_min_size.width reaches large_width_threshold; keep_game_size will never grow the window")
	}

	return warnings
}

func validatePanel(p Panel) error {
	if p.Width < 0 {
		return fmt.Errorf("width must be >= 0")
	}
	return nil
}
