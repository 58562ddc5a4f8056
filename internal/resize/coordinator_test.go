package resize

import (
	"testing"
	"time"

	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var screen1080 = geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

type fakeWindow struct {
	bounds    geometry.Rect
	screen    geometry.Rect
	minimum   geometry.Size
	maximized MaximizeState
	ops       []string
}

func (w *fakeWindow) Bounds() geometry.Rect       { return w.bounds }
func (w *fakeWindow) ScreenBounds() geometry.Rect { return w.screen }
func (w *fakeWindow) MaximizeState() MaximizeState {
	return w.maximized
}

func (w *fakeWindow) SetBounds(r geometry.Rect) error {
	w.bounds = r
	w.ops = append(w.ops, "bounds")
	return nil
}

func (w *fakeWindow) SetMinimumSize(s geometry.Size) error {
	w.minimum = s
	w.ops = append(w.ops, "minimum")
	return nil
}

// userMove simulates a drag by the user, bypassing the coordinator.
func (w *fakeWindow) userMove(r geometry.Rect) {
	w.bounds = r
}

type fakeLayout struct {
	size geometry.Size
}

func (l *fakeLayout) MinimumLayoutSize() geometry.Size { return l.size }

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	win    *fakeWindow
	layout *fakeLayout
	clock  *fakeClock
	coord  *Coordinator
}

func newHarness(t *testing.T, mode Mode, bounds geometry.Rect) *harness {
	t.Helper()
	h := &harness{
		win:    &fakeWindow{bounds: bounds, screen: screen1080},
		layout: &fakeLayout{size: geometry.Size{Width: 400, Height: 300}},
		clock:  &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.coord = NewCoordinator(h.win, h.layout, nil, Options{
		Mode: mode,
		Now:  h.clock.Now,
	})
	return h
}

func TestExpandContract_NoEdgeConflictRoundTrip(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800})

	h.coord.Expand(300)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1500, Height: 800}, h.win.bounds)
	assert.Equal(t, Expanded, h.coord.State())
	assert.False(t, h.coord.Memory().Flipped)

	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800}, h.win.bounds)
	assert.Equal(t, Contracted, h.coord.State())
	assert.Nil(t, h.coord.Memory().Snapshot)
}

func TestExpand_CloseToEdgeGrowsInPlace(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 1700, Y: 100, Width: 200, Height: 800})

	h.coord.Expand(300)
	assert.Equal(t, geometry.Rect{X: 1700, Y: 100, Width: 500, Height: 800}, h.win.bounds)
	assert.False(t, h.coord.Memory().Flipped)
}

func TestExpand_WouldCrossEdgeFlipsDirection(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 1500, Y: 100, Width: 300, Height: 800})

	h.coord.Expand(300)
	assert.Equal(t, geometry.Rect{X: 1320, Y: 100, Width: 600, Height: 800}, h.win.bounds)
	assert.True(t, h.coord.Memory().Flipped)

	// With the snapshot intact the exact bounds come back.
	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 1500, Y: 100, Width: 300, Height: 800}, h.win.bounds)
}

func TestExpand_FlipNeverPushesPastLeadingEdge(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 200, Y: 0, Width: 1600, Height: 800})
	h.coord.opts.LargeWidthThreshold = 0

	h.coord.Expand(400)
	assert.Equal(t, 0, h.win.bounds.X)
	assert.Equal(t, 2000, h.win.bounds.Width)
}

func TestContract_FlippedAfterManualMoveKeepsTrailingEdge(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 1500, Y: 100, Width: 300, Height: 800})
	h.layout.size = geometry.Size{Width: 200, Height: 300}

	h.coord.Expand(300)
	require.True(t, h.coord.Memory().Flipped)

	h.clock.advance(time.Second)
	h.win.userMove(geometry.Rect{X: 1300, Y: 150, Width: 600, Height: 800})
	h.coord.OnMoved()
	require.Nil(t, h.coord.Memory().Snapshot)

	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 1600, Y: 150, Width: 300, Height: 800}, h.win.bounds)
	assert.False(t, h.coord.Memory().Flipped)
}

func TestContract_NearBothEdgesWithoutFlipShrinksInPlace(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 10, Y: 0, Width: 1600, Height: 800})
	h.coord.opts.LargeWidthThreshold = 0

	h.coord.Expand(300)
	require.Equal(t, geometry.Rect{X: 10, Y: 0, Width: 1900, Height: 800}, h.win.bounds)
	require.False(t, h.coord.Memory().Flipped)

	h.clock.advance(time.Second)
	h.coord.OnResized()

	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 10, Y: 0, Width: 1600, Height: 800}, h.win.bounds)
}

func TestContractExpand_InverseLaw(t *testing.T) {
	rects := []geometry.Rect{
		{X: 100, Y: 100, Width: 1200, Height: 800},
		{X: 300, Y: 40, Width: 800, Height: 600},
		{X: 600, Y: 200, Width: 765, Height: 503},
		{X: 1200, Y: 100, Width: 500, Height: 500},
	}
	for _, mode := range []Mode{ModeKeepGameSize, ModeKeepWindowSize, ModeNeutral} {
		for _, r := range rects {
			h := newHarness(t, mode, r)
			h.layout.size = geometry.Size{Width: r.Width + 100, Height: 300}

			h.coord.Expand(242)
			h.clock.advance(100 * time.Millisecond)
			h.coord.OnMoved()
			h.layout.size = geometry.Size{Width: 400, Height: 300}
			h.coord.Contract(242)

			assert.Equal(t, r, h.win.bounds, "mode %s", mode)
		}
	}
}

func TestExpandContract_MaximizedLeavesBoundsUntouched(t *testing.T) {
	start := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	h := newHarness(t, ModeKeepGameSize, start)
	h.win.maximized = MaximizedBoth

	h.coord.Expand(300)
	assert.Equal(t, start, h.win.bounds)
	assert.Equal(t, Expanded, h.coord.State())

	h.coord.Contract(300)
	assert.Equal(t, start, h.win.bounds)
	assert.Equal(t, Contracted, h.coord.State())
	assert.Empty(t, h.win.ops)
}

func TestContract_AfterMaximizedExpandDoesNotShrink(t *testing.T) {
	start := geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800}
	h := newHarness(t, ModeKeepGameSize, start)
	h.win.maximized = MaximizedBoth
	h.coord.Expand(300)

	h.win.maximized = 0
	h.coord.Contract(300)
	assert.Equal(t, start, h.win.bounds)
}

func TestExpand_HorizontallyMaximizedDoesNotGrow(t *testing.T) {
	start := geometry.Rect{X: 0, Y: 100, Width: 1920, Height: 600}
	h := newHarness(t, ModeKeepGameSize, start)
	h.win.maximized = MaximizedHorizontal

	h.coord.Expand(300)
	assert.Equal(t, start, h.win.bounds)
	assert.Nil(t, h.coord.Memory().Snapshot)
}

func TestKeepWindowSize_ContractRespectsMinimum(t *testing.T) {
	h := newHarness(t, ModeKeepWindowSize, geometry.Rect{X: 100, Y: 100, Width: 1000, Height: 800})
	h.layout.size = geometry.Size{Width: 1000, Height: 600}

	h.coord.Expand(242)
	assert.Equal(t, 1000, h.win.bounds.Width, "minimum already satisfied, no growth")

	h.layout.size = geometry.Size{Width: 900, Height: 600}
	h.coord.Contract(242)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 900, Height: 800}, h.win.bounds)
	assert.Equal(t, geometry.Size{Width: 900, Height: 600}, h.win.minimum)
}

func TestKeepWindowSize_ContractAtMinimumKeepsWidth(t *testing.T) {
	start := geometry.Rect{X: 100, Y: 100, Width: 900, Height: 800}
	h := newHarness(t, ModeKeepWindowSize, start)
	h.layout.size = geometry.Size{Width: 900, Height: 600}

	h.coord.Expand(242)
	h.coord.Contract(242)
	assert.Equal(t, start, h.win.bounds)
}

func TestKeepWindowSize_ExpandForcedByMinimum(t *testing.T) {
	h := newHarness(t, ModeKeepWindowSize, geometry.Rect{X: 100, Y: 100, Width: 850, Height: 800})
	h.layout.size = geometry.Size{Width: 1042, Height: 600}

	h.coord.Expand(242)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1042, Height: 800}, h.win.bounds)
	assert.True(t, h.coord.Memory().Grown)
	assert.Equal(t, geometry.Size{Width: 1042, Height: 600}, h.win.minimum)
}

func TestKeepWindowSize_LargeWindowUntouched(t *testing.T) {
	start := geometry.Rect{X: 0, Y: 0, Width: 1800, Height: 1000}
	h := newHarness(t, ModeKeepWindowSize, start)

	h.coord.Expand(242)
	h.coord.Contract(242)
	assert.Equal(t, start, h.win.bounds)
	assert.Equal(t, []string{"minimum", "minimum"}, h.win.ops)
}

func TestKeepGameSize_WideWindowDoesNotGrow(t *testing.T) {
	start := geometry.Rect{X: 100, Y: 0, Width: 1600, Height: 900}
	h := newHarness(t, ModeKeepGameSize, start)

	h.coord.Expand(242)
	assert.Equal(t, start, h.win.bounds)
	assert.False(t, h.coord.Memory().Grown)

	h.clock.advance(time.Second)
	h.coord.OnMoved()
	h.coord.Contract(242)
	assert.Equal(t, start, h.win.bounds)
}

func TestNeutral_NeverResizes(t *testing.T) {
	start := geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800}
	h := newHarness(t, ModeNeutral, start)

	h.coord.Expand(300)
	assert.Equal(t, start, h.win.bounds)
	h.coord.Contract(300)
	assert.Equal(t, start, h.win.bounds)
	assert.Equal(t, []string{"minimum", "minimum"}, h.win.ops)
}

func TestManualMoveAfterGraceDropsSnapshot(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800})

	h.coord.Expand(300)
	h.clock.advance(DefaultGracePeriod + time.Millisecond)
	h.win.userMove(geometry.Rect{X: 300, Y: 150, Width: 1500, Height: 800})
	h.coord.OnMoved()

	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 300, Y: 150, Width: 1200, Height: 800}, h.win.bounds)
}

func TestKeepGameSize_ContractAfterUserShrinkStopsAtMinimum(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 800, Height: 800})

	h.coord.Expand(300)
	h.clock.advance(time.Second)
	h.win.userMove(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 800})
	h.coord.OnResized()
	require.Nil(t, h.coord.Memory().Snapshot)

	// Narrower than the delta and below the minimum: nothing to give back.
	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 200, Height: 800}, h.win.bounds)
	assert.Equal(t, Contracted, h.coord.State())
}

func TestKeepGameSize_ContractAfterUserShrinkClampsToMinimum(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 800, Height: 800})

	h.coord.Expand(300)
	h.clock.advance(time.Second)
	h.win.userMove(geometry.Rect{X: 100, Y: 100, Width: 550, Height: 800})
	h.coord.OnResized()

	h.coord.Contract(300)
	assert.Equal(t, 400, h.win.bounds.Width)
	assert.GreaterOrEqual(t, h.win.bounds.Width, h.win.minimum.Width)
}

func TestResize_WhileExpandedContractsFromNewSize(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 800, Height: 600})

	h.coord.Expand(300)
	require.NotNil(t, h.coord.Memory().Snapshot)

	h.coord.Resize(geometry.Rect{X: 100, Y: 100, Width: 1324, Height: 768})
	assert.Nil(t, h.coord.Memory().Snapshot)
	assert.Equal(t, Expanded, h.coord.State())

	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1024, Height: 768}, h.win.bounds)
}

func TestNotificationWithinGraceKeepsSnapshot(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800})

	h.coord.Expand(300)
	h.clock.advance(50 * time.Millisecond)
	h.coord.OnMoved()
	h.coord.OnResized()
	require.NotNil(t, h.coord.Memory().Snapshot)

	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800}, h.win.bounds)
}

// A user drag landing inside the grace window is indistinguishable from the
// echo of our own resize; it is treated as self-caused.
func TestUserMoveInsideGraceIsTreatedAsSelfCaused(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800})

	h.coord.Expand(300)
	h.clock.advance(DefaultGracePeriod)
	h.win.userMove(geometry.Rect{X: 500, Y: 100, Width: 1500, Height: 800})
	h.coord.OnMoved()
	require.NotNil(t, h.coord.Memory().Snapshot, "deadline itself is still inside the grace window")

	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800}, h.win.bounds)
}

func TestExpandContract_RepeatedCallsAreNoOps(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800})

	h.coord.Contract(300)
	assert.Empty(t, h.win.ops)

	h.coord.Expand(300)
	h.coord.Expand(300)
	assert.Equal(t, 1500, h.win.bounds.Width)

	h.coord.Contract(300)
	h.coord.Contract(300)
	assert.Equal(t, 1200, h.win.bounds.Width)
}

func TestExpand_NegativeDeltaClampedToZero(t *testing.T) {
	start := geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800}
	h := newHarness(t, ModeKeepGameSize, start)

	h.coord.Expand(-50)
	assert.Equal(t, start, h.win.bounds)
	assert.Nil(t, h.coord.Memory().Snapshot)
}

func TestExpand_ContainedClampsIntoScreen(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 1700, Y: 100, Width: 200, Height: 800})
	require.NoError(t, h.coord.SetContained(true))

	h.coord.Expand(300)
	assert.Equal(t, geometry.Rect{X: 1420, Y: 100, Width: 500, Height: 800}, h.win.bounds)
	assert.True(t, screen1080.ContainsRect(h.win.bounds))

	h.coord.Contract(300)
	assert.Equal(t, geometry.Rect{X: 1700, Y: 100, Width: 200, Height: 800}, h.win.bounds)
}

func TestMinimumSizeOrdering(t *testing.T) {
	h := newHarness(t, ModeKeepGameSize, geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800})

	h.coord.Expand(300)
	assert.Equal(t, []string{"bounds", "minimum"}, h.win.ops, "grow before raising the minimum")

	h.win.ops = nil
	h.coord.Contract(300)
	assert.Equal(t, []string{"minimum", "bounds"}, h.win.ops, "lower the minimum before shrinking")
}

func TestSetModeAppliesToNextTransition(t *testing.T) {
	start := geometry.Rect{X: 100, Y: 100, Width: 1200, Height: 800}
	h := newHarness(t, ModeNeutral, start)

	h.coord.SetMode(ModeKeepGameSize)
	assert.Equal(t, ModeKeepGameSize, h.coord.Mode())
	h.coord.Expand(100)
	assert.Equal(t, 1300, h.win.bounds.Width)
}
