package geometry

const (
	// WellHiddenMargin is how much of the window must remain reachable
	// horizontally and at the bottom before it counts as stranded.
	WellHiddenMargin = 160
	// WellHiddenMarginTop is the equivalent margin for the top edge, where
	// the title bar lives.
	WellHiddenMarginTop = 10
)

// Centered returns r moved so it is centered on screen. The size is kept.
func Centered(r Rect, screen Rect) Rect {
	r.X = screen.X + (screen.Width-r.Width)/2
	r.Y = screen.Y + (screen.Height-r.Height)/2
	return r
}

// WellHidden reports whether r sits so far outside screen that the user
// could not grab it back, e.g. after the monitor it lived on was unplugged.
func WellHidden(r Rect, screen Rect) bool {
	return r.Right()-WellHiddenMargin < screen.X ||
		r.X+WellHiddenMargin > screen.Right() ||
		r.Y+WellHiddenMarginTop < screen.Y ||
		r.Y+WellHiddenMargin > screen.Bottom()
}

// NearRightEdge reports whether r's trailing edge is within distance of the
// screen's trailing edge, on either side.
func NearRightEdge(r Rect, screen Rect, distance int) bool {
	return abs(r.Right()-screen.Right()) <= distance
}

// NearLeftEdge reports whether r's leading edge is within distance of the
// screen's leading edge.
func NearLeftEdge(r Rect, screen Rect, distance int) bool {
	return abs(r.X-screen.X) <= distance
}
