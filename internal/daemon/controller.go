package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/sidedock/internal/config"
	"github.com/1broseidon/sidedock/internal/ipc"
	"github.com/1broseidon/sidedock/internal/platform"
	"github.com/1broseidon/sidedock/internal/shell"
	"github.com/1broseidon/sidedock/internal/uiloop"
)

// ConfigLoader returns a freshly loaded, validated configuration.
type ConfigLoader func() (*config.Config, error)

// Controller serves IPC commands by running them on the UI loop.
type Controller struct {
	loop    *uiloop.Loop
	ui      *shell.UI
	backend platform.Backend
	load    ConfigLoader
	logger  *slog.Logger
}

var _ ipc.Controller = (*Controller)(nil)

// NewController wires the IPC surface to ui. load is used by Reload.
func NewController(loop *uiloop.Loop, ui *shell.UI, backend platform.Backend, load ConfigLoader, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		loop:    loop,
		ui:      ui,
		backend: backend,
		load:    load,
		logger:  logger,
	}
}

func (c *Controller) Status(ctx context.Context) (ipc.StatusData, error) {
	var data ipc.StatusData
	err := c.loop.Do(ctx, func() error {
		data.TargetClass = c.ui.Config().TargetClass
		data.Window = c.ui.Status()
		return nil
	})
	return data, err
}

func (c *Controller) Monitors(ctx context.Context) (ipc.MonitorsData, error) {
	displays, err := c.backend.Displays()
	if err != nil {
		return ipc.MonitorsData{}, fmt.Errorf("failed to get monitors: %w", err)
	}

	hostID := -1
	_ = c.loop.Do(ctx, func() error {
		if host := c.ui.Host(); host != nil {
			if d, ok := platform.DisplayForRect(displays, host.Bounds()); ok {
				hostID = d.ID
			}
		}
		return nil
	})

	data := ipc.MonitorsData{Monitors: make([]ipc.MonitorInfo, 0, len(displays))}
	for _, d := range displays {
		data.Monitors = append(data.Monitors, ipc.MonitorInfo{
			ID:     d.ID,
			Name:   d.Name,
			Bounds: d.Bounds,
			Usable: d.Usable,
			Host:   d.ID == hostID,
		})
	}
	return data, nil
}

func (c *Controller) Panels(ctx context.Context) (ipc.PanelsData, error) {
	var data ipc.PanelsData
	err := c.loop.Do(ctx, func() error {
		cfg := c.ui.Config()
		open := c.ui.OpenPanel()
		for _, name := range cfg.PanelNames() {
			p := cfg.Panels[name]
			data.Panels = append(data.Panels, ipc.PanelInfo{
				Name:   name,
				Width:  p.Width,
				Hotkey: p.Hotkey,
				Open:   name == open,
			})
		}
		data.DefaultPanel = cfg.DefaultPanel
		data.SidebarOpen = c.ui.SidebarOpen()
		return nil
	})
	return data, err
}

func (c *Controller) ShowPanel(ctx context.Context, name string) error {
	return c.loop.Do(ctx, func() error { return c.ui.ShowPanel(name) })
}

func (c *Controller) HidePanel(ctx context.Context) error {
	return c.loop.Do(ctx, c.ui.HidePanel)
}

func (c *Controller) TogglePanel(ctx context.Context, name string) error {
	return c.loop.Do(ctx, func() error { return c.ui.TogglePanel(name) })
}

func (c *Controller) ToggleSidebar(ctx context.Context) error {
	return c.loop.Do(ctx, c.ui.ToggleSidebar)
}

func (c *Controller) ForgetBounds(ctx context.Context) error {
	return c.loop.Do(ctx, c.ui.ForgetBounds)
}

// Reload loads the configuration again and applies it on the UI loop. An
// invalid file leaves the running configuration untouched.
func (c *Controller) Reload(ctx context.Context) error {
	if c.load == nil {
		return fmt.Errorf("reload is not supported")
	}
	cfg, err := c.load()
	if err != nil {
		return err
	}
	return c.loop.Do(ctx, func() error {
		changes := c.ui.ApplyConfig(cfg)
		c.logger.Info("config reloaded", "changes", len(changes))
		return nil
	})
}
