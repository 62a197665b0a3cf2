package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/1broseidon/snapzone/internal/config"
	"github.com/1broseidon/snapzone/internal/drag"
	"github.com/1broseidon/snapzone/internal/hotkeys"
	"github.com/1broseidon/snapzone/internal/input"
	"github.com/1broseidon/snapzone/internal/ipc"
	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/overlay"
	"github.com/1broseidon/snapzone/internal/platform"
	"github.com/1broseidon/snapzone/internal/runtimepath"
	"github.com/1broseidon/snapzone/internal/screen"
	"github.com/1broseidon/snapzone/internal/snap"
	"github.com/1broseidon/snapzone/internal/zones"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warning", "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func runDaemon(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: snapzone daemon")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Run the snapping daemon in the foreground. SIGHUP reloads the config.")
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	live := config.NewLive(cfg)
	logger := newLogger(cfg.LogLevel)

	lockPath, err := runtimepath.LockPath()
	if err != nil {
		log.Printf("Failed to resolve lock path: %v", err)
		return 1
	}
	lock, err := runtimepath.AcquireLock(lockPath)
	if errors.Is(err, runtimepath.ErrLocked) {
		fmt.Fprintln(os.Stderr, "snapzone daemon is already running")
		return 1
	}
	if err != nil {
		log.Printf("Failed to acquire daemon lock: %v", err)
		return 1
	}
	defer lock.Release()

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return 1
	}
	defer backend.Disconnect()

	storePath, err := cfg.ZoneStorePath()
	if err != nil {
		log.Printf("Failed to resolve zone layout store: %v", err)
		return 1
	}
	store := zones.NewStore(storePath)
	if _, err := store.List(); err != nil {
		// A malformed store is reported but does not stop the daemon;
		// zone actions fail until it is fixed.
		log.Printf("Warning: %v", err)
	}

	screens := screen.NewResolver(backend)
	snapper := snap.NewService(backend, screens, layout.NewEngine(), store, logger)

	color, highlight := cfg.OverlayColors()
	surface := overlay.NewX11Surface(backend.XUtil(), backend.RootWindow(), color, highlight, logger)
	defer surface.Close()
	coordinator := overlay.NewCoordinator(surface, logger)

	hotkeyHandler := hotkeys.NewHandler(backend.XUtil(), backend.RootWindow(), snapper, logger)
	bindHotkeys := func(c *config.Config) error {
		bindings, err := c.Bindings()
		if err != nil {
			return err
		}
		return hotkeyHandler.Bind(bindings)
	}
	if err := bindHotkeys(cfg); err != nil {
		log.Printf("Warning: some hotkeys were not registered: %v", err)
	}

	var reloadMu sync.Mutex
	reload := func() error {
		reloadMu.Lock()
		defer reloadMu.Unlock()
		next, err := config.Load()
		if err != nil {
			return err
		}
		live.Store(next)
		surface.SetColors(next.OverlayColors())
		if err := bindHotkeys(next); err != nil {
			log.Printf("Warning: some hotkeys were not registered: %v", err)
		}
		log.Printf("Configuration reloaded (drag modifier: %s, hotkeys: %d)", next.Drag.ModifierKey, len(hotkeyHandler.Bound()))
		return nil
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Printf("Failed to resolve socket path: %v", err)
		return 1
	}
	ipcServer := ipc.NewServer(socketPath, ipc.Deps{
		Snapper:  snapper,
		Store:    store,
		Displays: backend,
		Config:   live.Load,
		Reload:   reload,
	})
	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := input.NewX11Source(backend.Conn(), input.ResolveKeycodes(backend.Conn()), cfg.PollInterval(), logger)
	events, err := source.Start(ctx)
	if err != nil {
		// Hotkeys and IPC still work without drag snapping.
		log.Printf("Warning: drag snapping disabled: %v", err)
	}
	engine := drag.NewEngine(backend, screens, coordinator, snapper, live, logger)
	dragDone := make(chan struct{})
	go func() {
		defer close(dragDone)
		if err := engine.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("drag engine stopped", "error", err)
		}
	}()

	// xevent.Main blocks in a read that Quit cannot interrupt, so shutdown
	// runs from the signal goroutine and exits the process.
	shutdown := func() {
		log.Println("Shutting down snapzone daemon...")
		cancel()
		<-dragDone
		coordinator.Wait()
		surface.Close()
		ipcServer.Stop()
		_ = lock.Release()
		backend.Disconnect()
		os.Exit(0)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				log.Println("Received SIGHUP, reloading config...")
				if err := reload(); err != nil {
					log.Printf("Config reload failed: %v", err)
				}
				continue
			}
			shutdown()
		}
	}()

	log.Printf("snapzone daemon started (socket: %s, layouts: %s)", socketPath, storePath)
	backend.EventLoop()
	return 0
}
