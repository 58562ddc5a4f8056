package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/sidedock/internal/config"
	"github.com/1broseidon/sidedock/internal/daemon"
	"github.com/1broseidon/sidedock/internal/events"
	"github.com/1broseidon/sidedock/internal/hotkeys"
	"github.com/1broseidon/sidedock/internal/ipc"
	"github.com/1broseidon/sidedock/internal/platform"
	"github.com/1broseidon/sidedock/internal/shell"
	"github.com/1broseidon/sidedock/internal/state"
	"github.com/1broseidon/sidedock/internal/uiloop"
	"github.com/1broseidon/sidedock/internal/x11"
)

const shutdownTimeout = 3 * time.Second

func runDaemon() int {
	// Load configuration
	res, err := config.LoadWithSources()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	log.Printf("Configuration loaded (target: %s, mode: %s)", cfg.TargetClass, cfg.ExpandResizeType)

	var level slog.LevelVar
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))

	if err := x11.EnsureDisplayEnv(cfg.Display, cfg.XAuthority); err != nil {
		log.Printf("Warning: %v", err)
	}

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return 1
	}
	defer backend.Disconnect()

	var store *state.Store
	if path, err := state.DefaultPath(); err != nil {
		log.Printf("Warning: bounds will not be remembered: %v", err)
	} else {
		store = state.NewStore(path)
	}

	bus := events.NewBus()
	ui := shell.New(&shell.Context{
		Config: cfg,
		Store:  store,
		Logger: logger.With("component", "shell"),
		Bus:    bus,
	})
	loop := uiloop.New(logger.With("component", "uiloop"))

	// Hotkey callbacks run on the X event goroutine, which the loop is
	// blocked on, so they act on the UI directly.
	hotkeyHandler := hotkeys.NewHandler(backend, ui)
	if err := hotkeyHandler.Bind(cfg); err != nil {
		log.Printf("Warning: %v", err)
	}

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: cfg.PollInterval(),
		Logger:   logger.With("component", "reconciler"),
	}, backend, ui, loop, bus)

	// Bus subscribers run wherever the event was published, which is always
	// the UI loop.
	events.On(bus, func(ev events.ConfigChanged) {
		switch ev.Key {
		case "sidebar_hotkey", "panels":
			if err := hotkeyHandler.Bind(ui.Config()); err != nil {
				log.Printf("Warning: %v", err)
			}
		case "log_level":
			level.Set(ui.Config().SlogLevel())
		case "poll_interval_seconds":
			reconciler.SetInterval(ui.Config().PollInterval())
		case "target_class":
			reconciler.Trigger()
		}
	})
	events.On(bus, func(ev events.WindowClosed) {
		reconciler.Trigger()
	})

	ctrl := daemon.NewController(loop, ui, backend, config.Load, logger.With("component", "controller"))

	// Start IPC server
	ipcServer, err := ipc.NewServer(ctrl)
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch the config files so edits apply without a SIGHUP. The default
	// path is always watched so that creating it later is noticed.
	reloadChan := make(chan struct{}, 1)
	watchFiles := res.Files
	if path, err := config.DefaultConfigPath(); err == nil {
		watchFiles = append(watchFiles, path)
	}
	if watcher, err := config.NewWatcher(watchFiles, config.DefaultWatchDebounce, logger.With("component", "config-watcher")); err != nil {
		log.Printf("Warning: config changes will need a reload: %v", err)
	} else {
		defer watcher.Close()
		go watcher.Run(ctx, reloadChan)
	}

	reload := func(reason string) {
		log.Printf("Reloading config (%s)...", reason)
		if err := ctrl.Reload(ctx); err != nil {
			log.Printf("Config reload failed: %v", err)
			return
		}
		log.Println("Config reloaded successfully")
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					reload("SIGHUP")
				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down sidedock daemon...")
					shutdownCtx, shutdownCancel := context.WithTimeout(ctx, shutdownTimeout)
					if err := loop.Do(shutdownCtx, ui.Shutdown); err != nil {
						log.Printf("Shutdown: %v", err)
					}
					shutdownCancel()
					cancel()
					return
				}
			case <-reloadChan:
				reload("file changed")
			}
		}
	}()

	go reconciler.Run(ctx)

	before, after, quit := backend.MainPing()
	log.Println("sidedock daemon started successfully")

	// Run the UI loop (blocking)
	err = loop.Run(ctx, &uiloop.Pinger{Before: before, After: after, Quit: quit})
	backend.Quit()
	if err != nil && err != context.Canceled {
		log.Printf("UI loop exited: %v", err)
		return 1
	}
	return 0
}
