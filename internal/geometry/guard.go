package geometry

// Target is a top-level window whose geometry the guard constrains.
type Target interface {
	Bounds() Rect
	ScreenBounds() Rect
	SetBounds(r Rect) error
}

// Guard keeps a window inside the visible area of the screen hosting it.
//
// When containment is off every clamp is the identity. The guard never
// mutates the window on its own except through SetContained, SetBounds and
// SetLocation, which commit the clamped result to the target.
type Guard struct {
	target    Target
	contained bool
}

// NewGuard wraps target with containment disabled.
func NewGuard(target Target) *Guard {
	return &Guard{target: target}
}

// Contained reports whether containment is enabled.
func (g *Guard) Contained() bool {
	return g.contained
}

// SetContained toggles containment. Enabling it re-clamps the current bounds.
func (g *Guard) SetContained(enabled bool) error {
	g.contained = enabled
	if !enabled {
		return nil
	}
	current := g.target.Bounds()
	clamped := g.ClampBounds(current)
	if clamped == current {
		return nil
	}
	return g.target.SetBounds(clamped)
}

// ClampPosition returns the top-left corner that keeps a rect of r's size on
// screen. On an axis where the size exceeds the screen the origin snaps to
// the screen origin and the rect overflows the far edge.
func (g *Guard) ClampPosition(r Rect) Point {
	if !g.contained {
		return Point{X: r.X, Y: r.Y}
	}
	return clampPosition(r, g.target.ScreenBounds())
}

// ClampBounds clamps the position like ClampPosition, then shrinks the size
// so the rect never extends past the screen.
func (g *Guard) ClampBounds(r Rect) Rect {
	if !g.contained {
		return r
	}
	return clampBounds(r, g.target.ScreenBounds())
}

// SetBounds clamps r and commits it to the target.
func (g *Guard) SetBounds(r Rect) error {
	return g.target.SetBounds(g.ClampBounds(r))
}

// SetLocation moves the target, keeping its current size.
func (g *Guard) SetLocation(x, y int) error {
	current := g.target.Bounds()
	p := g.ClampPosition(Rect{X: x, Y: y, Width: current.Width, Height: current.Height})
	return g.target.SetBounds(Rect{X: p.X, Y: p.Y, Width: current.Width, Height: current.Height})
}

func clampPosition(r Rect, screen Rect) Point {
	screen = normalize(screen)
	width := max(r.Width, 0)
	height := max(r.Height, 0)

	x := min(r.X, screen.Right()-width)
	x = max(x, screen.X)
	y := min(r.Y, screen.Bottom()-height)
	y = max(y, screen.Y)
	return Point{X: x, Y: y}
}

func clampBounds(r Rect, screen Rect) Rect {
	screen = normalize(screen)
	p := clampPosition(r, screen)
	width := min(max(r.Width, 0), screen.Right()-p.X)
	height := min(max(r.Height, 0), screen.Bottom()-p.Y)
	return Rect{X: p.X, Y: p.Y, Width: max(width, 0), Height: max(height, 0)}
}

func normalize(r Rect) Rect {
	r.Width = max(r.Width, 0)
	r.Height = max(r.Height, 0)
	return r
}
