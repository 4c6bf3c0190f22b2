package app

import (
	"errors"
	"fmt"
	"log/slog"

	"lofty-launcher/internal/appstate"
	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/modcfg"
)

var (
	// ErrNoDistribution is returned before a distribution has been loaded.
	ErrNoDistribution = errors.New("no distribution loaded")
	// ErrUnknownServer is returned for server ids missing from the distribution.
	ErrUnknownServer = errors.New("unknown server")
	// ErrRequiredMod is returned when trying to toggle a required mod.
	ErrRequiredMod = errors.New("mod is required")
)

// ServerInfo is the frontend view of a distribution server.
type ServerInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	MinecraftVersion string `json:"minecraftVersion"`
	Address          string `json:"address"`
	MainServer       bool   `json:"mainServer"`
	Selected         bool   `json:"selected"`
}

// LoadDistribution reads the cached distribution index and reconciles the
// settings with it.
func (a *App) LoadDistribution() error {
	d, err := distro.LoadDistribution(a.layout.Distribution())
	if err != nil {
		return err
	}

	a.State.SyncDistribution(d)
	a.save("load_distribution")

	a.mu.Lock()
	a.distribution = d
	a.mu.Unlock()

	slog.Info("distribution loaded",
		"version", d.Version,
		"servers", len(d.Servers),
		"selected", a.State.SelectedServerID(),
	)
	return nil
}

// ReloadDistribution reloads the distribution and notifies the frontend.
func (a *App) ReloadDistribution() error {
	if err := a.LoadDistribution(); err != nil {
		return fmt.Errorf("unable to load distribution: %w", err)
	}
	a.ReloadLauncher("reload_distribution")
	return nil
}

func (a *App) getDistribution() *distro.Distribution {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.distribution
}

// server returns the distribution server with the given id.
func (a *App) server(id string) (*distro.Server, error) {
	d := a.getDistribution()
	if d == nil {
		return nil, ErrNoDistribution
	}
	srv := d.Server(id)
	if srv == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownServer, id)
	}
	return srv, nil
}

// GetServers returns every server of the distribution.
func (a *App) GetServers() []ServerInfo {
	d := a.getDistribution()
	if d == nil {
		return nil
	}

	selected := a.State.SelectedServerID()

	servers := make([]ServerInfo, 0, len(d.Servers))
	for _, srv := range d.Servers {
		servers = append(servers, ServerInfo{
			ID:               srv.ID,
			Name:             srv.Name,
			Description:      srv.Description,
			Icon:             srv.Icon,
			MinecraftVersion: srv.MinecraftVersion,
			Address:          srv.Address,
			MainServer:       srv.MainServer,
			Selected:         srv.ID == selected,
		})
	}
	return servers
}

// SelectServer changes the server launched by LaunchGame.
func (a *App) SelectServer(id string) error {
	if _, err := a.server(id); err != nil {
		return err
	}
	slog.Info("selecting server", "server", id)
	a.State.SelectServer(id)
	a.save("select_server")
	a.Emit("server:selected", id)
	return nil
}

// GetModConfiguration returns the user's mod choices for a server.
func (a *App) GetModConfiguration(serverID string) map[string]*modcfg.Config {
	return a.State.ModConfiguration(serverID)
}

// SetModEnabled toggles a top level optional mod of a server.
func (a *App) SetModEnabled(serverID, modID string, enabled bool) error {
	mods := a.State.ModConfiguration(serverID)
	cfg, ok := mods[modID]
	if !ok {
		return fmt.Errorf("server %s has no optional mod %s", serverID, modID)
	}
	if cfg.Enabled == nil {
		return fmt.Errorf("%w: %s", ErrRequiredMod, modID)
	}

	if cfg.IsLeaf() {
		mods[modID] = modcfg.Leaf(enabled)
	} else {
		mods[modID] = modcfg.Node(&enabled, cfg.Mods)
	}

	slog.Debug("toggling mod", "server", serverID, "mod", modID, "enabled", enabled)
	a.State.SetModConfiguration(serverID, mods)
	a.save("set_mod_enabled")
	return nil
}

// GetGameSettings returns the settings shared by every server.
func (a *App) GetGameSettings() appstate.GameSettings {
	return a.State.GameSettings()
}

// SetGameSettings replaces the settings shared by every server.
func (a *App) SetGameSettings(g appstate.GameSettings) error {
	if g.ResolutionWidth <= 0 || g.ResolutionHeight <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", g.ResolutionWidth, g.ResolutionHeight)
	}
	a.State.SetGameSettings(g)
	a.save("set_game_settings")
	return nil
}

// GetJavaConfig returns the Java settings of a server.
func (a *App) GetJavaConfig(serverID string) (*appstate.JavaConfig, error) {
	c := a.State.JavaConfig(serverID)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownServer, serverID)
	}
	return c, nil
}

// SetJavaConfig replaces the Java settings of a server.
func (a *App) SetJavaConfig(serverID string, c appstate.JavaConfig) error {
	if _, err := a.server(serverID); err != nil {
		return err
	}
	a.State.SetJavaConfig(serverID, c)
	a.save("set_java_config")
	return nil
}
