// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/1broseidon/sidedock/internal/platform"
)

// FakeWindow is one window known to a Backend.
type FakeWindow struct {
	Class   string
	Title   string
	Bounds  geometry.Rect
	State   platform.WindowState
	MinSize geometry.Size
	MaxSize geometry.Size // zero = unbounded
}

// Backend is a platform.Backend backed by maps. MoveResize applies the new
// bounds immediately, clamped to the window's MaxSize like a window manager
// would, and does not fire configure notifications; tests call Configure to
// simulate window manager changes.
type Backend struct {
	mu       sync.Mutex
	displays []platform.Display
	windows  map[platform.WindowID]*FakeWindow
	watches  map[platform.WindowID]platform.WindowWatch

	// MoveErr, when set, fails every MoveResize.
	MoveErr error
	// DisplaysErr, when set, fails every Displays call.
	DisplaysErr error

	Moves []geometry.Rect
}

var _ platform.Backend = (*Backend)(nil)

// NewBackend returns a backend with the given displays.
func NewBackend(displays ...platform.Display) *Backend {
	return &Backend{
		displays: displays,
		windows:  make(map[platform.WindowID]*FakeWindow),
		watches:  make(map[platform.WindowID]platform.WindowWatch),
	}
}

// Screen returns a display whose bounds and usable area are both r.
func Screen(id int, r geometry.Rect) platform.Display {
	return platform.Display{ID: id, Name: fmt.Sprintf("fake-%d", id), Bounds: r, Usable: r}
}

// AddWindow registers a window.
func (b *Backend) AddWindow(id platform.WindowID, w FakeWindow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := w
	b.windows[id] = &copied
}

// Window returns a copy of the window's current state.
func (b *Backend) Window(id platform.WindowID) (FakeWindow, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return FakeWindow{}, false
	}
	return *w, true
}

// SetState overwrites the window manager state of a window.
func (b *Backend) SetState(id platform.WindowID, st platform.WindowState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.windows[id]; ok {
		w.State = st
	}
}

// Configure changes a window's bounds as the window manager would and fires
// its configure callback.
func (b *Backend) Configure(id platform.WindowID, r geometry.Rect) {
	b.mu.Lock()
	if w, ok := b.windows[id]; ok {
		w.Bounds = r
	}
	watch := b.watches[id]
	b.mu.Unlock()

	if watch.OnConfigure != nil {
		watch.OnConfigure()
	}
}

// Destroy removes a window and fires its destroy callback.
func (b *Backend) Destroy(id platform.WindowID) {
	b.mu.Lock()
	delete(b.windows, id)
	watch := b.watches[id]
	b.mu.Unlock()

	if watch.OnDestroy != nil {
		watch.OnDestroy()
	}
}

// Watched reports whether callbacks are registered for a window.
func (b *Backend) Watched(id platform.WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.watches[id]
	return ok
}

func (b *Backend) Displays() ([]platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.DisplaysErr != nil {
		return nil, b.DisplaysErr
	}
	return append([]platform.Display(nil), b.displays...), nil
}

func (b *Backend) FindWindow(class string) (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var found platform.WindowID
	for id, w := range b.windows {
		if strings.EqualFold(w.Class, class) && (found == 0 || id < found) {
			found = id
		}
	}
	if found == 0 {
		return 0, fmt.Errorf("%w: no window with class %q", platform.ErrWindowNotFound, class)
	}
	return found, nil
}

func (b *Backend) WindowExists(id platform.WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.windows[id]
	return ok
}

func (b *Backend) WindowInfo(id platform.WindowID) (platform.Window, error) {
	w, err := b.lookup(id)
	if err != nil {
		return platform.Window{}, err
	}
	return platform.Window{ID: id, Class: w.Class, Title: w.Title, Bounds: w.Bounds}, nil
}

func (b *Backend) WindowRect(id platform.WindowID) (geometry.Rect, error) {
	w, err := b.lookup(id)
	if err != nil {
		return geometry.Rect{}, err
	}
	return w.Bounds, nil
}

func (b *Backend) MoveResize(id platform.WindowID, r geometry.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.MoveErr != nil {
		return b.MoveErr
	}
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", platform.ErrWindowNotFound, id)
	}
	if w.MaxSize.Width > 0 && w.MaxSize.Height > 0 {
		r.Width = min(r.Width, w.MaxSize.Width)
		r.Height = min(r.Height, w.MaxSize.Height)
	}
	w.Bounds = r
	b.Moves = append(b.Moves, r)
	return nil
}

func (b *Backend) WindowState(id platform.WindowID) (platform.WindowState, error) {
	w, err := b.lookup(id)
	if err != nil {
		return platform.WindowState{}, err
	}
	return w.State, nil
}

func (b *Backend) SetMaximized(id platform.WindowID, maximized bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", platform.ErrWindowNotFound, id)
	}
	w.State.MaximizedHorz = maximized
	w.State.MaximizedVert = maximized
	return nil
}

func (b *Backend) SetAbove(id platform.WindowID, above bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", platform.ErrWindowNotFound, id)
	}
	w.State.Above = above
	return nil
}

func (b *Backend) SetMinSize(id platform.WindowID, size geometry.Size) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", platform.ErrWindowNotFound, id)
	}
	w.MinSize = size
	return nil
}

func (b *Backend) SetMaxSize(id platform.WindowID, size geometry.Size) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", platform.ErrWindowNotFound, id)
	}
	w.MaxSize = size
	return nil
}

func (b *Backend) Watch(id platform.WindowID, watch platform.WindowWatch) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watches[id] = watch
	return nil
}

func (b *Backend) Unwatch(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.watches, id)
}

func (b *Backend) lookup(id platform.WindowID) (FakeWindow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return FakeWindow{}, fmt.Errorf("%w: %d", platform.ErrWindowNotFound, id)
	}
	return *w, nil
}
