package uiloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrStopped is returned when work is submitted to a loop that has exited.
var ErrStopped = errors.New("ui loop stopped")

// Pinger carries the channels returned by xevent.MainPing. Between Before
// and After the X event goroutine dispatches one event; the loop blocks for
// that span so event callbacks never overlap with posted work.
type Pinger struct {
	Before <-chan struct{}
	After  <-chan struct{}
	Quit   <-chan struct{}
}

// Loop runs every window-geometry mutation on a single goroutine.
//
// Post and Do must not be called from code already running on the loop
// (including X event callbacks); such code may act directly.
type Loop struct {
	tasks  chan func()
	quit   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// New returns a loop that is not yet running.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		tasks:  make(chan func(), 64),
		quit:   make(chan struct{}),
		logger: logger,
	}
}

// Post enqueues fn without waiting for it to run.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.quit:
		return ErrStopped
	default:
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.quit:
		return ErrStopped
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := l.Post(func() { result <- fn() }); err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		// The task may have completed just before shutdown.
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Run processes posted work until ctx is cancelled, Stop is called, or the
// X event loop quits. ping may be nil when no X connection is driven.
func (l *Loop) Run(ctx context.Context, ping *Pinger) error {
	defer l.Stop()

	var before, after, xquit <-chan struct{}
	if ping != nil {
		before, after, xquit = ping.Before, ping.After, ping.Quit
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.quit:
			return nil
		case <-xquit:
			l.logger.Info("x event loop exited")
			return nil
		case <-before:
			<-after
		case fn := <-l.tasks:
			l.run(fn)
		}
	}
}

// Stop makes Run return and rejects further work. Safe to call repeatedly.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.quit) })
}

// Done is closed once the loop has been stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.quit
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("ui task panic recovered", "error", fmt.Sprint(r))
		}
	}()
	fn()
}
