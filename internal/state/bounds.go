package state

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/sidedock/internal/geometry"
)

const (
	Group          = "sidedock"
	KeyBounds      = "client_bounds"
	KeyMaximized   = "client_maximized"
	boundsFieldSep = ":"
)

// FormatBounds encodes r as "x:y:width:height".
func FormatBounds(r geometry.Rect) string {
	return fmt.Sprintf("%d:%d:%d:%d", r.X, r.Y, r.Width, r.Height)
}

// ParseBounds decodes the "x:y:width:height" form written by FormatBounds.
func ParseBounds(s string) (geometry.Rect, error) {
	parts := strings.Split(strings.TrimSpace(s), boundsFieldSep)
	if len(parts) != 4 {
		return geometry.Rect{}, fmt.Errorf("invalid bounds %q: expected x:y:width:height", s)
	}

	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("invalid bounds %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return geometry.Rect{}, fmt.Errorf("invalid bounds %q: size must be positive", s)
	}
	return geometry.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// Saved is the persisted client placement.
type Saved struct {
	Bounds    geometry.Rect
	Maximized bool
}

// LoadSaved reads the persisted placement. ok is false when nothing was saved.
// Bounds is the zero Rect when only the maximized flag was recorded. A
// malformed entry is reported as an error.
func (s *Store) LoadSaved() (saved Saved, ok bool, err error) {
	raw, hasBounds, err := s.Get(Group, KeyBounds)
	if err != nil {
		return Saved{}, false, err
	}
	maxRaw, hasMax, err := s.Get(Group, KeyMaximized)
	if err != nil {
		return Saved{}, false, err
	}
	if !hasBounds && !hasMax {
		return Saved{}, false, nil
	}

	if hasBounds {
		saved.Bounds, err = ParseBounds(raw)
		if err != nil {
			return Saved{}, false, err
		}
	}
	saved.Maximized, _ = strconv.ParseBool(maxRaw)
	return saved, true, nil
}

// SaveBounds persists bounds and the maximized flag. The maximized key is
// removed rather than written as false.
func (s *Store) SaveBounds(saved Saved) error {
	if err := s.Set(Group, KeyBounds, FormatBounds(saved.Bounds)); err != nil {
		return err
	}
	if saved.Maximized {
		return s.Set(Group, KeyMaximized, "true")
	}
	return s.Unset(Group, KeyMaximized)
}

// MarkMaximized records the maximized flag, keeping the last saved bounds
// as the restore size.
func (s *Store) MarkMaximized() error {
	return s.Set(Group, KeyMaximized, "true")
}

// Forget removes any persisted placement.
func (s *Store) Forget() error {
	if err := s.Unset(Group, KeyBounds); err != nil {
		return err
	}
	return s.Unset(Group, KeyMaximized)
}
