package hotkeys

import (
	"fmt"
	"log"
	"sync"

	"github.com/1broseidon/sidedock/internal/config"
	"github.com/1broseidon/sidedock/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Actions is what the bound keys trigger.
type Actions interface {
	ToggleSidebar() error
	TogglePanel(name string) error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding maps a key sequence to the sidebar or a panel.
type Binding struct {
	Keys  string
	Panel string // empty for the sidebar toggle
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, actions Actions) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	ignoreModsOnce.Do(func() {
		if xu != nil {
			configureIgnoreMods(xu)
		}
	})

	return &Handler{
		xu:      xu,
		root:    root,
		actions: actions,
	}
}

// Bindings lists the key bindings cfg asks for. When two entries share a key
// sequence the first one wins: the sidebar, then panels by name.
func Bindings(cfg *config.Config) []Binding {
	var out []Binding
	seen := make(map[string]struct{})
	add := func(b Binding) {
		if b.Keys == "" {
			return
		}
		if _, dup := seen[b.Keys]; dup {
			return
		}
		seen[b.Keys] = struct{}{}
		out = append(out, b)
	}

	add(Binding{Keys: cfg.SidebarHotkey})
	for _, name := range cfg.PanelNames() {
		add(Binding{Keys: cfg.Panels[name].Hotkey, Panel: name})
	}
	return out
}

// Bind drops every binding this handler made and registers the ones cfg
// asks for. It returns the first registration error but keeps going.
func (h *Handler) Bind(cfg *config.Config) error {
	if h.xu == nil {
		return fmt.Errorf("hotkeys need an X11 backend")
	}
	keybind.Detach(h.xu, h.root)

	var firstErr error
	for _, b := range Bindings(cfg) {
		if err := h.RegisterFunc(b.Keys, h.callback(b)); err != nil {
			log.Printf("Failed to register hotkey %s: %v", b.Keys, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to register hotkey %s: %w", b.Keys, err)
			}
			continue
		}
		if b.Panel == "" {
			log.Printf("Registered sidebar hotkey: %s", b.Keys)
		} else {
			log.Printf("Registered %s panel hotkey: %s", b.Panel, b.Keys)
		}
	}
	return firstErr
}

func (h *Handler) callback(b Binding) func() {
	if b.Panel == "" {
		return func() {
			if err := h.actions.ToggleSidebar(); err != nil {
				log.Printf("Sidebar toggle failed: %v", err)
			}
		}
	}
	return func() {
		if err := h.actions.TogglePanel(b.Panel); err != nil {
			log.Printf("Panel %s toggle failed: %v", b.Panel, err)
		}
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
