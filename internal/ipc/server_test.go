package ipc

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/1broseidon/sidedock/internal/shell"
)

type fakeController struct {
	mu       sync.Mutex
	calls    []string
	panelErr error
}

func (f *fakeController) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeController) Status(context.Context) (StatusData, error) {
	f.record("status")
	return StatusData{
		TargetClass: "RuneLite",
		Window: shell.Status{
			Attached: true,
			WindowID: 42,
			Bounds:   geometry.Rect{X: 1, Y: 2, Width: 800, Height: 600},
			State:    "contracted",
		},
	}, nil
}

func (f *fakeController) Monitors(context.Context) (MonitorsData, error) {
	f.record("monitors")
	return MonitorsData{Monitors: []MonitorInfo{{
		ID:     0,
		Name:   "DP-1",
		Bounds: geometry.Rect{Width: 1920, Height: 1080},
		Usable: geometry.Rect{Y: 30, Width: 1920, Height: 1050},
		Host:   true,
	}}}, nil
}

func (f *fakeController) Panels(context.Context) (PanelsData, error) {
	f.record("panels")
	return PanelsData{
		Panels:       []PanelInfo{{Name: "notes", Width: 242}, {Name: "plugins", Width: 242, Open: true}},
		DefaultPanel: "plugins",
		SidebarOpen:  true,
	}, nil
}

func (f *fakeController) ShowPanel(_ context.Context, name string) error {
	f.record("show:" + name)
	return f.panelErr
}

func (f *fakeController) HidePanel(context.Context) error {
	f.record("hide")
	return nil
}

func (f *fakeController) TogglePanel(_ context.Context, name string) error {
	f.record("toggle:" + name)
	return f.panelErr
}

func (f *fakeController) ToggleSidebar(context.Context) error {
	f.record("sidebar")
	return nil
}

func (f *fakeController) ForgetBounds(context.Context) error {
	f.record("forget")
	return nil
}

func (f *fakeController) Reload(context.Context) error {
	f.record("reload")
	return nil
}

func startServer(t *testing.T, ctrl Controller) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sd.sock")
	srv := NewServerAt(path, ctrl)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(path)
}

func TestClientServer_Status(t *testing.T) {
	client := startServer(t, &fakeController{})

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if !status.DaemonRunning {
		t.Fatalf("expected daemon_running=true")
	}
	if status.TargetClass != "RuneLite" {
		t.Fatalf("target_class = %q", status.TargetClass)
	}
	if !status.Window.Attached || status.Window.WindowID != 42 {
		t.Fatalf("unexpected window status: %+v", status.Window)
	}
	if status.Window.Bounds.Width != 800 {
		t.Fatalf("bounds width = %d, want 800", status.Window.Bounds.Width)
	}
}

func TestClientServer_MonitorsAndPanels(t *testing.T) {
	client := startServer(t, &fakeController{})

	monitors, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors() error: %v", err)
	}
	if len(monitors.Monitors) != 1 || monitors.Monitors[0].Usable.Y != 30 || !monitors.Monitors[0].Host {
		t.Fatalf("unexpected monitors: %+v", monitors)
	}

	panels, err := client.ListPanels()
	if err != nil {
		t.Fatalf("ListPanels() error: %v", err)
	}
	if len(panels.Panels) != 2 || panels.DefaultPanel != "plugins" || !panels.Panels[1].Open {
		t.Fatalf("unexpected panels: %+v", panels)
	}
}

func TestClientServer_Commands(t *testing.T) {
	ctrl := &fakeController{}
	client := startServer(t, ctrl)

	steps := []func() error{
		func() error { return client.ShowPanel("notes") },
		func() error { return client.TogglePanel("notes") },
		client.HidePanel,
		client.ToggleSidebar,
		client.ForgetBounds,
		client.Reload,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	want := []string{"show:notes", "toggle:notes", "hide", "sidebar", "forget", "reload"}
	got := ctrl.Calls()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %v, want %v", got, want)
		}
	}
}

func TestClientServer_Errors(t *testing.T) {
	ctrl := &fakeController{panelErr: errors.New(`panel "nope" not found`)}
	client := startServer(t, ctrl)

	err := client.ShowPanel("nope")
	if err == nil || err.Error() != `daemon error: panel "nope" not found` {
		t.Fatalf("ShowPanel error = %v", err)
	}

	err = client.ShowPanel("")
	if err == nil || err.Error() != "daemon error: name is required" {
		t.Fatalf("empty name error = %v", err)
	}

	if _, err := client.command("BOGUS", nil); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil {
		t.Fatalf("expected connection error")
	}
}
