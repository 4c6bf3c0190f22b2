package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/getsentry/sentry-go"

	"lofty-launcher/internal/build"
	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/process"
	"lofty-launcher/internal/session"
)

var (
	// ErrGameRunning is returned when a game launched by this launcher is
	// still running.
	ErrGameRunning = errors.New("game is already running")
	// ErrNoAccount is returned when no account is selected.
	ErrNoAccount = errors.New("no account selected")
	// ErrNoServer is returned when no server is selected.
	ErrNoServer = errors.New("no server selected")
)

// LaunchGame builds and starts the selected server's game. Progress is
// reported through "launch:*" events.
func (a *App) LaunchGame() error {
	if err := a.launch(a.ctx); err != nil {
		if !errors.Is(err, ErrGameRunning) {
			sentry.CaptureException(err)
		}
		slog.Error("unable to launch game", "error", err)
		a.Emit("launch:error", err.Error())
		return err
	}
	return nil
}

// StopGame terminates the running game, if any.
func (a *App) StopGame() error {
	a.mu.Lock()
	s := a.game
	a.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Stop()
}

// IsGameRunning reports whether a launched game is still running.
func (a *App) IsGameRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.game != nil || a.launching
}

func (a *App) launch(ctx context.Context) error {
	a.mu.Lock()
	if a.game != nil || a.launching {
		a.mu.Unlock()
		return ErrGameRunning
	}
	a.launching = true
	a.mu.Unlock()

	s, err := a.start(ctx)

	a.mu.Lock()
	a.launching = false
	if err == nil {
		a.game = s
	}
	a.mu.Unlock()
	if err != nil {
		return err
	}

	go func() {
		<-s.Done()
		a.mu.Lock()
		if a.game == s {
			a.game = nil
		}
		a.mu.Unlock()
		a.Emit("launch:exited")
	}()

	return nil
}

// start builds the launch command of the selected server and starts it.
// The caller holds the launch slot.
func (a *App) start(ctx context.Context) (_ *session.Session, err error) {
	serverID := a.State.SelectedServerID()
	if serverID == "" {
		return nil, ErrNoServer
	}
	srv, err := a.server(serverID)
	if err != nil {
		return nil, err
	}

	uuid := a.State.SelectedAccountID()
	if uuid == "" {
		return nil, ErrNoAccount
	}
	user, err := a.Accounts.LaunchUser(ctx, a.cfg.OAuth, uuid)
	if err != nil {
		return nil, err
	}

	a.Emit("launch:status", "preparing")

	version, modLoader, err := a.loadManifests(srv)
	if err != nil {
		return nil, err
	}

	b := &process.Builder{
		Layout:          a.layout,
		Server:          srv,
		Version:         version,
		ModLoader:       modLoader,
		User:            user,
		Game:            a.State.GameSettings(),
		Mods:            a.State.ModConfiguration(srv.ID),
		LauncherVersion: build.VersionString(),
	}
	if java := a.State.JavaConfig(srv.ID); java != nil {
		b.Java = *java
	}

	spec, err := b.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to build launch command: %w", err)
	}
	defer func() {
		if err != nil && spec.NativesDir != "" {
			if rmErr := os.RemoveAll(spec.NativesDir); rmErr != nil {
				slog.Warn("unable to remove natives directory", "dir", spec.NativesDir, "error", rmErr)
			}
		}
	}()

	if err = process.ValidateJava(ctx, spec.Executable); err != nil {
		return nil, err
	}

	a.Emit("launch:status", "starting")

	s, err := session.Start(ctx, spec, session.Options{
		Player:    user.Name,
		Presence:  a.presence(srv),
		MinLinger: a.cfg.MinLinger,
		OnPhase: func(p session.Phase) {
			a.Emit("launch:phase", p.String())
		},
		OnError: func(err error) {
			a.Emit("launch:error", err.Error())
		},
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// loadManifests returns the vanilla manifest of the server's Minecraft
// version and the mod loader manifest, if the server declares one.
func (a *App) loadManifests(srv *distro.Server) (version, modLoader *distro.VersionManifest, err error) {
	mc := srv.MinecraftVersion
	version, err = a.manifests.Load(filepath.Join(a.layout.Versions(), mc, mc+".json"))
	if err != nil {
		return nil, nil, err
	}

	m := srv.VersionManifestModule()
	if m == nil {
		return version, nil, nil
	}
	path, err := m.Path(a.layout.Common(), a.layout.Instance(srv.ID))
	if err != nil {
		return nil, nil, err
	}
	modLoader, err = a.manifests.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return version, modLoader, nil
}
