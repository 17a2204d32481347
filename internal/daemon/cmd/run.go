package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"

	"github.com/clockbar/clockbar/internal/buildinfo"
	"github.com/clockbar/clockbar/internal/config"
	"github.com/clockbar/clockbar/internal/daemon/autostart"
	"github.com/clockbar/clockbar/internal/daemon/commands"
	"github.com/clockbar/clockbar/internal/daemon/notify"
	"github.com/clockbar/clockbar/internal/daemon/platform"
	"github.com/clockbar/clockbar/internal/daemon/server"
	"github.com/clockbar/clockbar/internal/daemon/tray"
	"github.com/clockbar/clockbar/internal/daemon/watcher"
	"github.com/clockbar/clockbar/internal/daemon/window"
	"github.com/clockbar/clockbar/internal/models"
	"github.com/clockbar/clockbar/internal/updater"
)

type runOptions struct {
	Foreground bool
	Port       int
}

func run(opts runOptions) error {
	logFile, err := config.SetupLogging("[clockbard] ")
	if err != nil {
		log.Printf("Failed to open log file, logging to stderr only: %v", err)
	} else {
		defer logFile.Close()
	}

	if err := config.EnsureAppDataDir(); err != nil {
		return fmt.Errorf("failed to create app data directory: %w", err)
	}

	// Single instance
	running, info, err := config.IsInstanceRunning()
	if err != nil {
		return fmt.Errorf("failed to check instance status: %w", err)
	}
	if running {
		return fmt.Errorf("%s already running on port %d (PID %d)", buildinfo.AppName, info.Port, info.PID)
	}

	h, err := newHost(opts.Port)
	if err != nil {
		return err
	}

	if opts.Foreground {
		log.Println("Running in foreground mode (no system tray)")
		return h.runForeground()
	}
	log.Println("Running with system tray")
	return h.runWithTray()
}

// host wires the tray, window, settings and bridge together for one run.
type host struct {
	port      int
	store     *config.Store
	remote    *window.Remote
	autostart autostart.Manager
	notifier  notify.Notifier

	cmds     *commands.Commands
	srv      *server.Server
	watcher  *watcher.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

func newHost(port int) (*host, error) {
	store, err := config.DefaultStore()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}

	mgr, err := autostart.New()
	if err != nil {
		log.Printf("[autostart] Disabled: %v", err)
	}

	return &host{
		port:      port,
		store:     store,
		remote:    window.NewRemote(),
		autostart: mgr,
		notifier:  notify.NewDesktop(tray.IconFor(tray.StateIdle)),
		done:      make(chan struct{}),
	}, nil
}

// start brings up the command layer and the bridge on presenter. exit is
// called when a quit is requested from the UI or the bridge fails.
func (h *host) start(presenter tray.Presenter, exit func()) error {
	h.cmds = commands.New(commands.Deps{
		Store:     h.store,
		Presenter: presenter,
		Window:    window.NewController(h.remote, platform.Current()),
		Autostart: h.autostart,
		Notifier:  h.notifier,
		Exit:      exit,
	})

	token := uuid.NewString()
	srv, err := server.New(h.cmds, h.remote, server.Options{
		Port:         h.port,
		Token:        token,
		SettingsPath: h.store.Path(),
		CheckUpdate:  updater.CheckForUpdate,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	h.srv = srv

	info := models.NewInstanceInfo(srv.Host(), srv.Port(), os.Getpid(), token)
	if err := config.SaveInstanceInfo(info); err != nil {
		srv.Stop()
		return fmt.Errorf("failed to write instance info: %w", err)
	}

	log.Printf("%s started on %s:%d (PID %d)", buildinfo.AppName, srv.Host(), srv.Port(), os.Getpid())

	h.cmds.ApplyAutostart()
	h.startWatcher()

	// Serve the bridge in background
	go func() {
		if err := srv.Serve(); err != nil {
			log.Printf("Server error: %v", err)
			exit()
		}
	}()
	return nil
}

// startWatcher re-applies autostart whenever settings.json is edited on
// disk. A watcher failure only costs live reloads.
func (h *host) startWatcher() {
	dir, err := config.AppDataDir()
	if err != nil {
		log.Printf("[watcher] Disabled: %v", err)
		return
	}
	w, err := watcher.New(dir)
	if err != nil {
		log.Printf("[watcher] Disabled: %v", err)
		return
	}
	if err := w.Start(); err != nil {
		log.Printf("[watcher] Disabled: %v", err)
		w.Stop()
		return
	}
	h.watcher = w

	go func() {
		for {
			select {
			case <-h.done:
				return
			case ev := <-w.Events():
				log.Printf("[watcher] %s: %s", ev.Type, ev.Path)
				h.cmds.ApplyAutostart()
			}
		}
	}()
}

// stop tears everything down once.
func (h *host) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		if h.watcher != nil {
			h.watcher.Stop()
		}
		if h.srv != nil {
			h.srv.Stop()
		}
		if err := config.RemoveInstanceInfo(); err != nil {
			log.Printf("Failed to remove instance info: %v", err)
		}
		log.Printf("%s stopped", buildinfo.AppName)
	})
}

// runForeground runs without a system tray, blocking on signals. Tray
// updates are kept in memory.
func (h *host) runForeground() error {
	quit := make(chan struct{})
	var once sync.Once
	exit := func() { once.Do(func() { close(quit) }) }

	if err := h.start(tray.NewHeadless(), exit); err != nil {
		return err
	}
	defer h.stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case <-quit:
		log.Println("Shutting down...")
	}
	return nil
}

// runWithTray runs with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func (h *host) runWithTray() error {
	var startErr error

	tray.Run(tray.Options{
		Platform: platform.Current(),
		OnReady: func(th *tray.Host) {
			if err := h.start(th, tray.Quit); err != nil {
				startErr = err
				tray.Quit()
				return
			}

			// Quit tray on SIGINT/SIGTERM
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				select {
				case sig := <-sigCh:
					log.Printf("Received signal %v, shutting down...", sig)
					tray.Quit()
				case <-h.done:
				}
				signal.Stop(sigCh)
			}()
		},
		OnToggle: func() {
			h.cmds.ToggleWindow()
		},
		OnQuit: func() {
			h.cmds.ExitApp()
		},
		OnExit: h.stop,
	})

	return startErr
}
