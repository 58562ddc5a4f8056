package resize

import (
	"fmt"
	"strings"
)

// Mode selects how the window reacts when the side panel opens or closes.
type Mode string

const (
	// ModeNeutral never resizes; the panel overlays the content area.
	ModeNeutral Mode = "neutral"
	// ModeKeepGameSize grows and shrinks the window by the panel width so
	// the hosted content keeps its size.
	ModeKeepGameSize Mode = "keep_game_size"
	// ModeKeepWindowSize keeps the outer window size and lets the content
	// area shrink, unless the layout minimum forces a change.
	ModeKeepWindowSize Mode = "keep_window_size"
)

// ParseMode accepts the config spellings, case-insensitively, with either
// dashes or underscores.
func ParseMode(s string) (Mode, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch Mode(norm) {
	case ModeNeutral, ModeKeepGameSize, ModeKeepWindowSize:
		return Mode(norm), nil
	}
	return "", fmt.Errorf("unknown resize mode %q (want neutral, keep_game_size or keep_window_size)", s)
}

// State is the coordinator's expansion state.
type State int

const (
	// Contracted is the resting state: no panel width is added.
	Contracted State = iota
	// Expanded means the window made room for the sidebar and panel.
	Expanded
)

func (s State) String() string {
	switch s {
	case Contracted:
		return "contracted"
	case Expanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// MaximizeState carries the window's maximized axes.
type MaximizeState uint8

const (
	MaximizedHorizontal MaximizeState = 1 << iota
	MaximizedVertical

	MaximizedBoth = MaximizedHorizontal | MaximizedVertical
)

// Full reports whether both axes are maximized.
func (m MaximizeState) Full() bool {
	return m&MaximizedBoth == MaximizedBoth
}

// Horizontal reports whether the window spans the screen horizontally.
func (m MaximizeState) Horizontal() bool {
	return m&MaximizedHorizontal != 0
}
