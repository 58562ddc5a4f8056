package shell

import (
	"maps"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/sidedock/internal/config"
	"github.com/1broseidon/sidedock/internal/events"
	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/1broseidon/sidedock/internal/platform"
	"github.com/1broseidon/sidedock/internal/platform/platformtest"
	"github.com/1broseidon/sidedock/internal/state"
)

const hostID platform.WindowID = 7

var (
	screen  = geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	initial = geometry.Rect{X: 100, Y: 100, Width: 800, Height: 600}
)

type fixture struct {
	t       *testing.T
	backend *platformtest.Backend
	app     *Context
	ui      *UI
	now     time.Time
	toggles []events.PanelToggled
}

func newFixture(t *testing.T, cfg *config.Config, bounds geometry.Rect) *fixture {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	f := &fixture{
		t:       t,
		backend: platformtest.NewBackend(platformtest.Screen(0, screen)),
		now:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	f.backend.AddWindow(hostID, platformtest.FakeWindow{Class: "RuneLite", Bounds: bounds})
	f.app = &Context{
		Config: cfg,
		Store:  state.NewStore(filepath.Join(t.TempDir(), "state.yaml")),
		Bus:    events.NewBus(),
		Now:    func() time.Time { return f.now },
	}
	events.On(f.app.Bus, func(ev events.PanelToggled) { f.toggles = append(f.toggles, ev) })
	f.ui = New(f.app)
	return f
}

func (f *fixture) attach() *platform.HostWindow {
	f.t.Helper()
	host, err := platform.NewHostWindow(f.backend, hostID, f.app.Bus, nil)
	require.NoError(f.t, err)
	require.NoError(f.t, f.ui.Attach(host))
	return host
}

func (f *fixture) window() platformtest.FakeWindow {
	f.t.Helper()
	w, ok := f.backend.Window(hostID)
	require.True(f.t, ok)
	return w
}

func cloneConfig(cfg *config.Config) *config.Config {
	out := *cfg
	out.Panels = maps.Clone(cfg.Panels)
	return &out
}

func TestAttach_KeepsPlacementWithoutSavedBounds(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()

	w := f.window()
	assert.Equal(t, initial, w.Bounds)
	assert.Equal(t, geometry.Size{Width: 765, Height: 503}, w.MinSize)
	assert.True(t, f.backend.Watched(hostID))
	assert.False(t, f.ui.SidebarOpen())
}

func TestShowHidePanel_RestoresExactBounds(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()

	require.NoError(t, f.ui.ShowPanel("plugins"))
	w := f.window()
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 800 + 26 + 242, Height: 600}, w.Bounds)
	assert.Equal(t, geometry.Size{Width: 765 + 26 + 242, Height: 503}, w.MinSize)
	assert.Equal(t, "plugins", f.ui.OpenPanel())
	assert.True(t, f.ui.SidebarOpen())

	// The toolbar keeps its room while the sidebar stays open.
	require.NoError(t, f.ui.HidePanel())
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 800 + 26, Height: 600}, f.window().Bounds)
	assert.Equal(t, "", f.ui.OpenPanel())
	assert.True(t, f.ui.SidebarOpen())

	require.NoError(t, f.ui.ToggleSidebar())
	assert.Equal(t, initial, f.window().Bounds)

	require.Len(t, f.toggles, 2)
	assert.Equal(t, events.PanelToggled{Name: "plugins", Width: 242, Open: true}, f.toggles[0])
	assert.Equal(t, events.PanelToggled{Name: "plugins", Width: 242, Open: false}, f.toggles[1])
}

func TestShowPanel_SwitchContractsThenExpands(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()

	require.NoError(t, f.ui.ShowPanel("plugins"))
	require.NoError(t, f.ui.ShowPanel("wide"))
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 800 + 26 + 400, Height: 600}, f.window().Bounds)

	require.NoError(t, f.ui.ShowPanel("wide"))
	assert.Len(t, f.toggles, 3)

	require.NoError(t, f.ui.TogglePanel("wide"))
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 800 + 26, Height: 600}, f.window().Bounds)

	var names []string
	for _, ev := range f.toggles {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"plugins", "plugins", "wide", "wide"}, names)
}

func TestShowPanel_UnknownPanel(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()

	assert.Error(t, f.ui.ShowPanel("missing"))
	assert.Equal(t, initial, f.window().Bounds)
}

func TestToggleSidebar_RemembersLastPanel(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()

	require.NoError(t, f.ui.ToggleSidebar())
	assert.Equal(t, "plugins", f.ui.OpenPanel())
	assert.Equal(t, 800+26+242, f.window().Bounds.Width)

	require.NoError(t, f.ui.ShowPanel("wide"))
	require.NoError(t, f.ui.ToggleSidebar())
	assert.False(t, f.ui.SidebarOpen())
	assert.Equal(t, "", f.ui.OpenPanel())
	assert.Equal(t, initial, f.window().Bounds)
	assert.Equal(t, geometry.Size{Width: 765, Height: 503}, f.window().MinSize)

	require.NoError(t, f.ui.ToggleSidebar())
	assert.Equal(t, "wide", f.ui.OpenPanel())
	assert.Equal(t, 800+26+400, f.window().Bounds.Width)
}

func TestShowPanel_KeepsContentWidthAndMinimum(t *testing.T) {
	for _, mode := range []string{"keep_game_size", "keep_window_size"} {
		t.Run(mode, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.ExpandResizeType = mode
			start := geometry.Rect{X: 100, Y: 100, Width: 765, Height: 600}
			f := newFixture(t, cfg, start)
			f.attach()

			require.NoError(t, f.ui.ShowPanel("plugins"))
			w := f.window()
			assert.GreaterOrEqual(t, w.Bounds.Width, w.MinSize.Width)
			assert.Equal(t, 765, w.Bounds.Width-cfg.ToolbarWidth-242, "content width")

			require.NoError(t, f.ui.ShowPanel("wide"))
			w = f.window()
			assert.GreaterOrEqual(t, w.Bounds.Width, w.MinSize.Width)

			require.NoError(t, f.ui.HidePanel())
			w = f.window()
			assert.GreaterOrEqual(t, w.Bounds.Width, w.MinSize.Width)

			require.NoError(t, f.ui.ToggleSidebar())
			assert.Equal(t, start, f.window().Bounds)
		})
	}
}

func TestApplyConfig_ToolbarWidthRegrows(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.ui.ShowPanel("plugins"))

	next := cloneConfig(f.ui.Config())
	next.ToolbarWidth = 40
	f.ui.ApplyConfig(next)

	w := f.window()
	assert.Equal(t, 800+40+242, w.Bounds.Width)
	assert.Equal(t, 765+40+242, w.MinSize.Width)

	require.NoError(t, f.ui.ToggleSidebar())
	assert.Equal(t, initial, f.window().Bounds)
}

func TestAttach_AppliesGameSizeWithoutSavedBounds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GameSize = config.Size{Width: 1024, Height: 768}
	f := newFixture(t, cfg, initial)
	f.attach()

	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1024, Height: 768}, f.window().Bounds)
}

func TestApplyConfig_GameSizeKeepsSidebarRoom(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.ui.ShowPanel("plugins"))

	next := cloneConfig(f.ui.Config())
	next.GameSize = config.Size{Width: 1024, Height: 700}
	f.ui.ApplyConfig(next)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1024 + 26 + 242, Height: 700}, f.window().Bounds)

	// Closing the sidebar leaves the content at the configured size.
	require.NoError(t, f.ui.ToggleSidebar())
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1024, Height: 700}, f.window().Bounds)
}

func TestApplyConfig_GameSizeNeverBelowMinimum(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()

	next := cloneConfig(f.ui.Config())
	next.GameSize = config.Size{Width: 300, Height: 200}
	f.ui.ApplyConfig(next)

	w := f.window()
	assert.Equal(t, 765, w.Bounds.Width)
	assert.Equal(t, 503, w.Bounds.Height)
}

func TestLockWindowSize_PinsMaximumAcrossLayoutChanges(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LockWindowSize = true
	f := newFixture(t, cfg, initial)
	f.attach()
	assert.Equal(t, geometry.Size{Width: 800, Height: 600}, f.window().MaxSize)

	// The lock is lifted for the expansion, then follows the new size.
	require.NoError(t, f.ui.ShowPanel("plugins"))
	w := f.window()
	assert.Equal(t, 800+26+242, w.Bounds.Width)
	assert.Equal(t, geometry.Size{Width: 800 + 26 + 242, Height: 600}, w.MaxSize)

	require.NoError(t, f.ui.ToggleSidebar())
	w = f.window()
	assert.Equal(t, initial, w.Bounds)
	assert.Equal(t, geometry.Size{Width: 800, Height: 600}, w.MaxSize)

	next := cloneConfig(f.ui.Config())
	next.LockWindowSize = false
	f.ui.ApplyConfig(next)
	assert.Equal(t, geometry.Size{}, f.window().MaxSize)
}

func TestLockWindowSize_EnabledAtRuntime(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	assert.Equal(t, geometry.Size{}, f.window().MaxSize)

	next := cloneConfig(f.ui.Config())
	next.LockWindowSize = true
	f.ui.ApplyConfig(next)
	assert.Equal(t, geometry.Size{Width: 800, Height: 600}, f.window().MaxSize)
}

func TestDetach_LiftsSizeLock(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LockWindowSize = true
	f := newFixture(t, cfg, initial)
	f.attach()
	require.NotEqual(t, geometry.Size{}, f.window().MaxSize)

	require.NoError(t, f.ui.Detach())
	assert.Equal(t, geometry.Size{}, f.window().MaxSize)
}

func TestSidebarOpenOnAttach(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SidebarOpen = true
	cfg.DefaultPanel = "notes"
	f := newFixture(t, cfg, initial)
	f.attach()

	assert.True(t, f.ui.SidebarOpen())
	assert.Equal(t, "notes", f.ui.OpenPanel())
}

func TestPanelOpsRequireAttach(t *testing.T) {
	f := newFixture(t, nil, initial)

	assert.ErrorIs(t, f.ui.ShowPanel("plugins"), ErrNotAttached)
	assert.ErrorIs(t, f.ui.HidePanel(), ErrNotAttached)
	assert.ErrorIs(t, f.ui.TogglePanel("plugins"), ErrNotAttached)
	assert.ErrorIs(t, f.ui.ToggleSidebar(), ErrNotAttached)
	assert.NoError(t, f.ui.Detach())
	assert.False(t, f.ui.Status().Attached)
}

func TestUserMoveAfterGraceDropsSnapshot(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()

	require.NoError(t, f.ui.ShowPanel("plugins"))

	// Within the grace period the notification is treated as our own.
	f.now = f.now.Add(100 * time.Millisecond)
	f.backend.Configure(hostID, geometry.Rect{X: 120, Y: 100, Width: 1068, Height: 600})
	require.NotNil(t, f.ui.Coordinator().Memory().Snapshot)

	f.now = f.now.Add(time.Second)
	f.backend.Configure(hostID, geometry.Rect{X: 300, Y: 100, Width: 1068, Height: 600})
	assert.Nil(t, f.ui.Coordinator().Memory().Snapshot)

	require.NoError(t, f.ui.ToggleSidebar())
	assert.Equal(t, geometry.Rect{X: 300, Y: 100, Width: 800, Height: 600}, f.window().Bounds)
}

func TestAttach_RestoresSavedBounds(t *testing.T) {
	f := newFixture(t, nil, initial)
	saved := geometry.Rect{X: 200, Y: 150, Width: 900, Height: 700}
	require.NoError(t, f.app.Store.SaveBounds(state.Saved{Bounds: saved, Maximized: true}))

	f.attach()

	w := f.window()
	assert.Equal(t, saved, w.Bounds)
	assert.True(t, w.State.MaximizedHorz)
	assert.True(t, w.State.MaximizedVert)
}

func TestAttach_SkipsRestoreWhenDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RememberScreenBounds = false
	f := newFixture(t, cfg, initial)
	require.NoError(t, f.app.Store.SaveBounds(state.Saved{Bounds: geometry.Rect{X: 1, Y: 2, Width: 900, Height: 700}}))

	f.attach()
	assert.Equal(t, initial, f.window().Bounds)
}

func TestAttach_CorruptBoundsCenters(t *testing.T) {
	f := newFixture(t, nil, initial)
	require.NoError(t, f.app.Store.Set(state.Group, state.KeyBounds, "garbage"))

	f.attach()
	assert.Equal(t, geometry.Rect{X: 560, Y: 240, Width: 800, Height: 600}, f.window().Bounds)
}

func TestAttach_RecentersHiddenWindow(t *testing.T) {
	f := newFixture(t, nil, geometry.Rect{X: 5000, Y: 100, Width: 800, Height: 600})
	f.attach()

	assert.Equal(t, geometry.Rect{X: 560, Y: 240, Width: 800, Height: 600}, f.window().Bounds)
}

func TestDetach_PersistsPreExpansionBounds(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.ui.ShowPanel("plugins"))

	require.NoError(t, f.ui.Detach())
	assert.False(t, f.ui.Attached())
	assert.False(t, f.backend.Watched(hostID))
	assert.Equal(t, initial, f.window().Bounds)

	saved, ok, err := f.app.Store.LoadSaved()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state.Saved{Bounds: initial}, saved)
}

func TestDetach_MaximizedKeepsRestoreBounds(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.app.Store.SaveBounds(state.Saved{Bounds: initial}))
	f.backend.SetState(hostID, platform.WindowState{MaximizedHorz: true, MaximizedVert: true})

	require.NoError(t, f.ui.Detach())

	saved, ok, err := f.app.Store.LoadSaved()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state.Saved{Bounds: initial, Maximized: true}, saved)
}

func TestWindowClosedWhileExpanded(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.ui.ShowPanel("plugins"))

	f.backend.Destroy(hostID)

	assert.False(t, f.ui.Attached())
	saved, ok, err := f.app.Store.LoadSaved()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, initial, saved.Bounds)
}

func TestShutdownRefusesAttach(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.ui.Shutdown())

	host, err := platform.NewHostWindow(f.backend, hostID, f.app.Bus, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.ui.Attach(host), ErrShutdown)
}

func TestApplyConfig_ContainInScreen(t *testing.T) {
	f := newFixture(t, nil, geometry.Rect{X: 1500, Y: 100, Width: 800, Height: 600})
	f.attach()

	var changed []events.ConfigChanged
	events.On(f.app.Bus, func(ev events.ConfigChanged) { changed = append(changed, ev) })

	next := cloneConfig(f.ui.Config())
	next.ContainInScreen = true
	changes := f.ui.ApplyConfig(next)

	require.Len(t, changes, 1)
	assert.Equal(t, "contain_in_screen", changes[0].Key)
	require.Len(t, changed, 1)
	assert.Equal(t, true, changed[0].NewValue)
	assert.Equal(t, geometry.Rect{X: 1120, Y: 100, Width: 800, Height: 600}, f.window().Bounds)
	assert.True(t, f.ui.Status().Contained)
}

func TestApplyConfig_DisablingBoundsMemoryClearsStore(t *testing.T) {
	f := newFixture(t, nil, initial)
	require.NoError(t, f.app.Store.SaveBounds(state.Saved{Bounds: initial, Maximized: true}))

	next := cloneConfig(f.ui.Config())
	next.RememberScreenBounds = false
	f.ui.ApplyConfig(next)

	_, ok, err := f.app.Store.LoadSaved()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyConfig_ResizeModeAndAlwaysOnTop(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()

	next := cloneConfig(f.ui.Config())
	next.ExpandResizeType = "keep_window_size"
	next.AlwaysOnTop = true
	f.ui.ApplyConfig(next)

	assert.True(t, f.window().State.Above)
	assert.Equal(t, "keep_window_size", f.ui.Status().Mode)

	// keep_window_size only grows up to the 765+26+242 layout minimum.
	require.NoError(t, f.ui.ShowPanel("plugins"))
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1033, Height: 600}, f.window().Bounds)
}

func TestApplyConfig_RemovedPanelCloses(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.ui.ShowPanel("notes"))

	next := cloneConfig(f.ui.Config())
	delete(next.Panels, "notes")
	f.ui.ApplyConfig(next)

	assert.Equal(t, "", f.ui.OpenPanel())
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 800 + 26, Height: 600}, f.window().Bounds)
	last := f.toggles[len(f.toggles)-1]
	assert.Equal(t, events.PanelToggled{Name: "notes", Width: 242, Open: false}, last)
}

func TestApplyConfig_PanelWidthChangeReopens(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.ui.ShowPanel("notes"))

	next := cloneConfig(f.ui.Config())
	next.Panels["notes"] = config.Panel{Width: 300}
	f.ui.ApplyConfig(next)

	assert.Equal(t, "notes", f.ui.OpenPanel())
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 800 + 26 + 300, Height: 600}, f.window().Bounds)
}

func TestStatus(t *testing.T) {
	f := newFixture(t, nil, initial)
	f.attach()
	require.NoError(t, f.ui.ShowPanel("plugins"))

	st := f.ui.Status()
	assert.True(t, st.Attached)
	assert.Equal(t, uint32(hostID), st.WindowID)
	assert.Equal(t, "expanded", st.State)
	assert.Equal(t, "keep_game_size", st.Mode)
	assert.Equal(t, "plugins", st.Panel)
	assert.Equal(t, screen, st.Screen)
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, initial, *st.Snapshot)
}
