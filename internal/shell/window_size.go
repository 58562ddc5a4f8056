package shell

import "github.com/1broseidon/sidedock/internal/geometry"

// applyGameSize resizes the window so the hosted content gets game_size,
// keeping room for the open sidebar. Nothing happens while game_size is
// unset.
func (u *UI) applyGameSize() {
	if u.host == nil || !u.cfg.GameSizeSet() {
		return
	}
	if u.host.MaximizeState().Full() {
		u.logger.Debug("game size not applied, window is maximized")
		return
	}
	size := u.cfg.CappedGameSize()
	minimum := u.MinimumLayoutSize()

	next := u.host.Bounds()
	next.Width = max(size.Width+u.expandedBy, minimum.Width)
	next.Height = max(size.Height, minimum.Height)

	u.logger.Debug("applying game size", "width", size.Width, "height", size.Height, "bounds", next.String())
	u.withSizeUnlocked(func() { u.coord.Resize(next) })
}

// withSizeUnlocked lifts lock_window_size around fn so the window manager
// accepts the resize, then pins the window at its new size.
func (u *UI) withSizeUnlocked(fn func()) {
	if !u.cfg.LockWindowSize || u.host == nil {
		fn()
		return
	}
	u.setMaximumSize(geometry.Size{})
	fn()
	u.applySizeLock()
}

// applySizeLock pins the maximum size to the current size while
// lock_window_size is on and clears it otherwise.
func (u *UI) applySizeLock() {
	if u.host == nil {
		return
	}
	var limit geometry.Size
	if u.cfg.LockWindowSize {
		limit = u.host.Bounds().Size()
	}
	u.setMaximumSize(limit)
}

func (u *UI) setMaximumSize(s geometry.Size) {
	if err := u.host.SetMaximumSize(s); err != nil {
		u.logger.Warn("failed to set maximum window size", "width", s.Width, "height", s.Height, "error", err)
	}
}
