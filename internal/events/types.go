package events

import "github.com/1broseidon/sidedock/internal/geometry"

// WindowMoved is published when the host window's position changed.
type WindowMoved struct {
	WindowID uint32
	Bounds   geometry.Rect
}

func (WindowMoved) Kind() Kind { return KindWindowMoved }

// WindowResized is published when the host window's size changed.
type WindowResized struct {
	WindowID uint32
	Bounds   geometry.Rect
}

func (WindowResized) Kind() Kind { return KindWindowResized }

// WindowClosed is published when the host window was destroyed.
type WindowClosed struct {
	WindowID uint32
}

func (WindowClosed) Kind() Kind { return KindWindowClosed }

// ConfigChanged is published once per config key whose value changed.
type ConfigChanged struct {
	Key      string
	OldValue any
	NewValue any
}

func (ConfigChanged) Kind() Kind { return KindConfigChanged }

// PanelToggled is published after a panel was shown or hidden.
type PanelToggled struct {
	Name  string
	Width int
	Open  bool
}

func (PanelToggled) Kind() Kind { return KindPanelToggled }
