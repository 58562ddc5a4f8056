package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/1broseidon/sidedock/internal/events"
	"github.com/1broseidon/sidedock/internal/platform"
	"github.com/1broseidon/sidedock/internal/shell"
	"github.com/1broseidon/sidedock/internal/uiloop"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically looks for the host window by WM_CLASS and keeps
// the UI attached to it: it attaches when the window appears, detaches when
// it goes away, and switches windows when target_class changes.
type Reconciler struct {
	interval atomic.Int64
	backend  platform.Backend
	ui       *shell.UI
	loop     *uiloop.Loop
	bus      *events.Bus
	logger   *slog.Logger
	trigger  chan struct{}

	// Only touched on the UI loop.
	attachedClass string
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, backend platform.Backend, ui *shell.UI, loop *uiloop.Loop, bus *events.Bus) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Reconciler{
		backend: backend,
		ui:      ui,
		loop:    loop,
		bus:     bus,
		logger:  logger,
		trigger: make(chan struct{}, 1),
	}
	r.interval.Store(int64(interval))
	return r
}

// SetInterval changes the polling interval from the next pass on.
func (r *Reconciler) SetInterval(d time.Duration) {
	if d > 0 {
		r.interval.Store(int64(d))
	}
}

// Trigger requests a pass as soon as possible without blocking.
func (r *Reconciler) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("reconciler started", "interval", time.Duration(r.interval.Load()))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-r.trigger:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
		}
		r.ReconcileNow(ctx)
		timer.Reset(time.Duration(r.interval.Load()))
	}
}

// ReconcileNow performs a single pass on the UI loop.
func (r *Reconciler) ReconcileNow(ctx context.Context) {
	err := r.loop.Do(ctx, func() error {
		r.reconcile()
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, uiloop.ErrStopped) {
		r.logger.Warn("reconciler: pass failed", "error", err)
	}
}

// reconcile performs a single reconciliation pass. Runs on the UI loop.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	class := r.ui.Config().TargetClass

	if host := r.ui.Host(); host != nil {
		alive := !host.Closed() && r.backend.WindowExists(host.ID())
		if alive && class == r.attachedClass {
			return
		}
		if alive {
			r.logger.Info("reconciler: target class changed", "old", r.attachedClass, "new", class)
		} else {
			r.logger.Info("reconciler: host window gone", "window_id", uint32(host.ID()))
		}
		if err := r.ui.Detach(); err != nil {
			r.logger.Warn("reconciler: failed to persist bounds", "error", err)
		}
		r.attachedClass = ""
	}

	id, err := r.backend.FindWindow(class)
	if err != nil {
		if errors.Is(err, platform.ErrWindowNotFound) {
			r.logger.Debug("reconciler: host window not found", "class", class)
		} else {
			r.logger.Warn("reconciler: window lookup failed", "class", class, "error", err)
		}
		return
	}

	host, err := platform.NewHostWindow(r.backend, id, r.bus, r.logger)
	if err != nil {
		r.logger.Warn("reconciler: failed to open host window", "window_id", uint32(id), "error", err)
		return
	}
	if err := r.ui.Attach(host); err != nil {
		r.logger.Warn("reconciler: attach failed", "window_id", uint32(id), "error", err)
		return
	}
	r.attachedClass = class
	r.logger.Info("reconciler: attached", "window_id", uint32(id), "class", class)
}
