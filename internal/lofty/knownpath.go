// Package lofty resolves the launcher's on-disk layout.
package lofty

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/getsentry/sentry-go"

	"lofty-launcher/internal/build"
)

// dirName is the name of the launcher directory inside the app data directory.
const dirName = ".loftylauncher"

// getDefaultAppDataDir returns the per-user application data directory for goos.
// Windows uses APPDATA, macOS uses ~/Library/Application Support and everything
// else uses XDG_DATA_HOME or ~/.local/share.
func getDefaultAppDataDir(goos string) (string, error) {
	switch goos {
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if goos == "windows" {
		return filepath.Join(home, "AppData", "Roaming"), nil
	}
	return filepath.Join(home, ".local", "share"), nil
}

// getUserAppDataDir returns the launcher directory inside the app data directory.
func getUserAppDataDir() (string, error) {
	dir, err := getDefaultAppDataDir(build.OS())
	if err != nil {
		return "", fmt.Errorf("unable to determine default app data directory: %w", err)
	}
	return filepath.Join(dir, dirName), nil
}

var (
	overrideMu sync.Mutex
	override   string
)

// SetStorageDir overrides the storage directory. It only has an effect when
// called before the first call to StorageDir.
func SetStorageDir(dir string) {
	overrideMu.Lock()
	defer overrideMu.Unlock()
	override = dir
}

var storageDir = sync.OnceValue(func() string {
	overrideMu.Lock()
	path := override
	overrideMu.Unlock()

	if path == "" {
		var err error
		path, err = getUserAppDataDir()
		if err != nil {
			wrappedErr := fmt.Errorf("unable to determine launcher storage directory: %v", err)
			sentry.CaptureException(wrappedErr)
			panic(wrappedErr)
		}
	}

	slog.Info("selected launcher storage directory", "path", path)
	return path
})

// StorageDir returns the launcher storage directory path.
// This function is safe to call concurrently and will only compute
// the path once.
func StorageDir() string {
	return storageDir()
}

// InStorageDir returns the full path to a file or directory within the storage directory.
func InStorageDir(name string) string {
	return filepath.Join(storageDir(), name)
}

// Default returns the layout rooted at StorageDir.
func Default() Layout {
	return Layout{Root: StorageDir()}
}

// Layout describes the directories below a launcher storage root.
//
//	<root>/common/libraries    shared Maven-layout libraries
//	<root>/common/modstore     shared mod jars
//	<root>/common/versions     vanilla and mod loader version manifests
//	<root>/common/assets       game assets
//	<root>/instances/<server>  per-server game directories
//	<root>/runtime             managed Java runtimes
//	<root>/logs                launcher logs
type Layout struct {
	Root string
}

// Common returns the directory shared between all servers.
func (l Layout) Common() string { return filepath.Join(l.Root, "common") }

// Libraries returns the shared libraries root.
func (l Layout) Libraries() string { return filepath.Join(l.Common(), "libraries") }

// ModStore returns the shared mod store.
func (l Layout) ModStore() string { return filepath.Join(l.Common(), "modstore") }

// Versions returns the version manifest directory.
func (l Layout) Versions() string { return filepath.Join(l.Common(), "versions") }

// Assets returns the assets root.
func (l Layout) Assets() string { return filepath.Join(l.Common(), "assets") }

// Instances returns the directory holding every server instance.
func (l Layout) Instances() string { return filepath.Join(l.Root, "instances") }

// Instance returns the game directory for a server.
func (l Layout) Instance(serverID string) string {
	return filepath.Join(l.Instances(), serverID)
}

// Runtime returns the managed Java runtime directory.
func (l Layout) Runtime() string { return filepath.Join(l.Root, "runtime") }

// Logs returns the launcher log directory.
func (l Layout) Logs() string { return filepath.Join(l.Root, "logs") }

// Settings returns the path of the persisted launcher settings file.
func (l Layout) Settings() string { return filepath.Join(l.Root, "config.json") }

// Distribution returns the path of the cached distribution index.
func (l Layout) Distribution() string { return filepath.Join(l.Root, "distribution.json") }

// Accounts returns the path of the signed account file.
func (l Layout) Accounts() string { return filepath.Join(l.Root, "accounts.json") }

// MkdirAll creates the storage root and its fixed subdirectories.
func (l Layout) MkdirAll() error {
	for _, dir := range []string{l.Libraries(), l.ModStore(), l.Versions(), l.Instances(), l.Runtime(), l.Logs()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create %s: %w", dir, err)
		}
	}
	return nil
}
