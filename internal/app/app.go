// Package app provides the main application logic for the launcher.
// It handles application lifecycle, server selection, game launches,
// and communication with the frontend via Wails.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"lofty-launcher/internal/account"
	"lofty-launcher/internal/appstate"
	"lofty-launcher/internal/config"
	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/lofty"
	"lofty-launcher/internal/session"
)

// App is the main application struct that manages the launcher's state and behavior.
type App struct {
	// ctx is the Wails application context, used for emitting events to the frontend.
	ctx context.Context

	cfg    config.Config
	layout lofty.Layout

	// ready is closed when the backend initialization is complete.
	ready chan struct{}

	// State holds the persisted launcher settings.
	State *appstate.State

	// Accounts is the signed account store.
	Accounts *account.Store

	manifests *distro.Loader

	// mu guards distribution, game and launching.
	mu           sync.Mutex
	distribution *distro.Distribution
	game         *session.Session
	// launching is set while a launch is being prepared.
	launching bool

	emit func(ctx context.Context, name string, args ...any)
}

// New creates a new App instance.
func New(cfg config.Config, layout lofty.Layout) *App {
	return &App{
		cfg:    cfg,
		layout: layout,
		ready:  make(chan struct{}),
		emit:   runtime.EventsEmit,
	}
}

// init initializes the application backend.
// It creates the storage layout, loads settings and accounts, and reads
// the cached distribution if there is one.
func (a *App) init() error {
	if err := a.layout.MkdirAll(); err != nil {
		return fmt.Errorf("unable to create storage directory: %w", err)
	}

	state, err := appstate.LoadOrNew(a.layout.Settings())
	if err != nil {
		return fmt.Errorf("unable to load settings: %w", err)
	}
	a.State = state

	a.Accounts, err = account.Open(a.layout.Accounts())
	if err != nil {
		return fmt.Errorf("unable to open account store: %w", err)
	}

	a.manifests, err = distro.NewLoader()
	if err != nil {
		return fmt.Errorf("unable to create manifest loader: %w", err)
	}

	switch err := a.LoadDistribution(); {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("no distribution cached yet", "path", a.layout.Distribution())
	default:
		sentry.CaptureException(err)
		slog.Error("unable to load cached distribution", "error", err)
	}

	slog.Info("app initialized", "storage", a.layout.Root)

	close(a.ready)
	return nil
}

// DomReady is called by Wails when the frontend DOM is ready.
// It starts a goroutine that waits for backend initialization
// and then notifies the frontend.
func (a *App) DomReady(ctx context.Context) {
	go func() {
		slog.Debug("frontend ready, waiting for backend")
		<-a.ready
		slog.Debug("backend ready, notifying frontend")
		a.ReloadLauncher("dom_ready")
	}()
}

// Startup is called by Wails when the application starts.
// It stores the context and initializes the application backend.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	if err := a.init(); err != nil {
		sentry.CaptureException(err)
		slog.Error("error during app initialization", "error", err)
		panic(err)
	}
}

// Shutdown is called by Wails when the window closes. Attached games are
// stopped through the application context; detached games keep running.
func (a *App) Shutdown(ctx context.Context) {
	if a.State == nil {
		return
	}
	if err := a.State.Save(); err != nil {
		sentry.CaptureException(err)
		slog.Error("unable to save settings", "error", err)
	}
}

// Emit sends an event to the frontend with the given name and arguments.
func (a *App) Emit(name string, args ...any) {
	slog.Debug("emitting event", "name", name, "args", args)
	a.emit(a.ctx, name, args...)
}

// ReloadLauncher emits a "reload" event to the frontend, causing it to refresh its state.
// The cause parameter is logged for debugging purposes.
func (a *App) ReloadLauncher(cause string) {
	slog.Debug("reloading launcher", "cause", cause)
	a.Emit("reload")
}

// save persists the settings, reporting failures without returning them.
func (a *App) save(cause string) {
	if err := a.State.Save(); err != nil {
		sentry.CaptureException(err)
		slog.Error("unable to save settings", "cause", cause, "error", err)
	}
}
