// Package appstate manages the persistent launcher settings.
// It handles loading, saving, and per-server Java and mod configuration.
package appstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/logging"
	"lofty-launcher/internal/modcfg"
)

// ErrNotFound is returned by Load when no settings file exists.
var ErrNotFound = errors.New("settings file not found")

// defaultJVMOptions are applied to servers without stored Java settings.
var defaultJVMOptions = []string{
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+UseG1GC",
	"-XX:G1NewSizePercent=20",
	"-XX:G1ReservePercent=20",
	"-XX:MaxGCPauseMillis=50",
	"-XX:G1HeapRegionSize=32M",
}

// Default memory sizes in megabytes, used when a server does not suggest any.
const (
	defaultMinRAM = 1024
	defaultMaxRAM = 4096
)

// State represents the persistent launcher settings.
type State struct {
	mu sync.Mutex

	SelectedServer    *string                `json:"selectedServer,omitempty"`
	SelectedAccount   *string                `json:"selectedAccount,omitempty"`
	ModConfigurations []modcfg.ServerConfig  `json:"modConfigurations"`
	Java              map[string]*JavaConfig `json:"javaConfig"`
	Game              GameSettings           `json:"game"`

	path string
}

// JavaConfig is the per-server Java configuration.
type JavaConfig struct {
	// Executable is the java binary. Empty means the managed runtime.
	Executable string `json:"executable,omitempty"`
	// MinRAM and MaxRAM are JVM memory sizes such as "2G" or "1536M".
	MinRAM     string   `json:"minRAM"`
	MaxRAM     string   `json:"maxRAM"`
	JVMOptions []string `json:"jvmOptions"`
}

// GameSettings holds settings that apply to every server.
type GameSettings struct {
	ResolutionWidth  int  `json:"resWidth"`
	ResolutionHeight int  `json:"resHeight"`
	Fullscreen       bool `json:"fullscreen"`
	Autoconnect      bool `json:"autoConnect"`
	LaunchDetached   bool `json:"launchDetached"`
}

// New returns default settings bound to path.
func New(path string) *State {
	return &State{
		Java: make(map[string]*JavaConfig),
		Game: GameSettings{
			ResolutionWidth:  1280,
			ResolutionHeight: 720,
			Autoconnect:      true,
			LaunchDetached:   true,
		},
		path: path,
	}
}

// Load reads the settings stored at path.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading settings: %w", err)
	}

	s := New(path)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}
	if s.Java == nil {
		s.Java = make(map[string]*JavaConfig)
	}
	return s, nil
}

// LoadOrNew loads the settings at path, returning defaults when the file
// does not exist yet.
func LoadOrNew(path string) (*State, error) {
	s, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		slog.Info("no settings found, using defaults", "path", path)
		return New(path), nil
	}
	return s, err
}

// Save writes the settings back to disk.
func (s *State) Save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("unable to create settings directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error replacing settings: %w", err)
	}
	return nil
}

// SelectServer records the selected server.
func (s *State) SelectServer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slog.Debug("selecting server", "id", id, "previous", logging.StringPtr(s.SelectedServer))
	s.SelectedServer = &id
}

// SelectAccount records the selected account.
func (s *State) SelectAccount(uuid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedAccount = &uuid
}

// SyncDistribution reconciles the stored settings with a freshly loaded
// distribution: mod configurations are rebuilt, Java settings are created
// for new servers and a missing or stale server selection falls back to the
// main server.
func (s *State) SyncDistribution(d *distro.Distribution) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ModConfigurations = modcfg.Sync(d.Servers, s.ModConfigurations)

	for _, srv := range d.Servers {
		s.ensureJavaConfig(srv)
	}

	if s.SelectedServer == nil || d.Server(*s.SelectedServer) == nil {
		if main := d.MainServer(); main != nil {
			id := main.ID
			slog.Debug("defaulting selected server", "id", id)
			s.SelectedServer = &id
		}
	}
}

// ensureJavaConfig adds default Java settings for a server.
func (s *State) ensureJavaConfig(srv *distro.Server) {
	if _, ok := s.Java[srv.ID]; ok {
		return
	}

	minRAM, maxRAM := defaultMinRAM, defaultMaxRAM
	if srv.JavaOptions != nil && srv.JavaOptions.RAM != nil {
		if srv.JavaOptions.RAM.Minimum > 0 {
			minRAM = srv.JavaOptions.RAM.Minimum
		}
		if srv.JavaOptions.RAM.Recommended > 0 {
			maxRAM = srv.JavaOptions.RAM.Recommended
		}
	}

	s.Java[srv.ID] = &JavaConfig{
		MinRAM:     formatRAM(minRAM),
		MaxRAM:     formatRAM(maxRAM),
		JVMOptions: append([]string(nil), defaultJVMOptions...),
	}
}

// formatRAM renders megabytes as a JVM memory size.
func formatRAM(mb int) string {
	if mb%1024 == 0 {
		return strconv.Itoa(mb/1024) + "G"
	}
	return strconv.Itoa(mb) + "M"
}

// JavaConfig returns a copy of the Java settings for a server, or nil.
func (s *State) JavaConfig(serverID string) *JavaConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Java[serverID]
	if !ok {
		return nil
	}
	cp := *c
	cp.JVMOptions = append([]string(nil), c.JVMOptions...)
	return &cp
}

// SetJavaConfig replaces the Java settings for a server.
func (s *State) SetJavaConfig(serverID string, c JavaConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Java[serverID] = &c
}

// ModConfiguration returns the mod configuration for a server.
func (s *State) ModConfiguration(serverID string) map[string]*modcfg.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return modcfg.Find(s.ModConfigurations, serverID)
}

// SetModConfiguration replaces the mod configuration for a server.
func (s *State) SetModConfiguration(serverID string, mods map[string]*modcfg.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ModConfigurations {
		if s.ModConfigurations[i].ID == serverID {
			s.ModConfigurations[i].Mods = mods
			return
		}
	}
	s.ModConfigurations = append(s.ModConfigurations, modcfg.ServerConfig{ID: serverID, Mods: mods})
}

// GameSettings returns a copy of the game settings.
func (s *State) GameSettings() GameSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Game
}

// SetGameSettings replaces the game settings.
func (s *State) SetGameSettings(g GameSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Game = g
}

// SelectedServerID returns the selected server id, or "".
func (s *State) SelectedServerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SelectedServer == nil {
		return ""
	}
	return *s.SelectedServer
}

// SelectedAccountID returns the selected account uuid, or "".
func (s *State) SelectedAccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SelectedAccount == nil {
		return ""
	}
	return *s.SelectedAccount
}
