// Package modcfg tracks which optional mods a user enabled for each server.
//
// A mod's configuration is either a leaf (enabled or not) or a node carrying
// the configurations of its optional submodules:
//
//	true
//	{"value": false, "mods": {"com.example:addon": true}}
//
// Nodes of required mods have no value of their own; they only exist to hold
// optional submodules.
package modcfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"lofty-launcher/internal/distro"
)

// Config is the configuration of one mod.
type Config struct {
	// Enabled is nil on nodes of required mods.
	Enabled *bool
	// Mods is nil for leaves.
	Mods map[string]*Config
}

// Leaf returns a configuration without submodules.
func Leaf(enabled bool) *Config {
	return &Config{Enabled: &enabled}
}

// Node returns a configuration holding submodule configurations. A nil
// enabled marks the node of a required mod.
func Node(enabled *bool, mods map[string]*Config) *Config {
	if mods == nil {
		mods = map[string]*Config{}
	}
	return &Config{Enabled: enabled, Mods: mods}
}

// IsLeaf reports whether c has no submodule configurations.
func (c *Config) IsLeaf() bool {
	return c.Mods == nil
}

// Value returns the enabled flag, treating an absent value as enabled.
func (c *Config) Value() bool {
	return c.Enabled == nil || *c.Enabled
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := &Config{}
	if c.Enabled != nil {
		v := *c.Enabled
		out.Enabled = &v
	}
	if c.Mods != nil {
		out.Mods = make(map[string]*Config, len(c.Mods))
		for k, v := range c.Mods {
			out.Mods[k] = v.Clone()
		}
	}
	return out
}

type nodeJSON struct {
	Value *bool              `json:"value,omitempty"`
	Mods  map[string]*Config `json:"mods"`
}

// MarshalJSON writes leaves as booleans and nodes as objects.
func (c *Config) MarshalJSON() ([]byte, error) {
	if c.IsLeaf() {
		return json.Marshal(c.Value())
	}
	return json.Marshal(nodeJSON{Value: c.Enabled, Mods: c.Mods})
}

// UnmarshalJSON accepts a boolean or a {"value","mods"} object.
func (c *Config) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = Config{Enabled: &b}
		return nil
	}

	var n nodeJSON
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("mod configuration must be a boolean or an object: %w", err)
	}
	if n.Mods == nil {
		n.Mods = map[string]*Config{}
	}
	*c = Config{Enabled: n.Value, Mods: n.Mods}
	return nil
}

// ServerConfig holds the mod configurations of one server, keyed by the
// versionless Maven id of each mod.
type ServerConfig struct {
	ID   string             `json:"id"`
	Mods map[string]*Config `json:"mods"`
}

// isOptionalType reports whether modules of type t can be toggled.
func isOptionalType(t distro.ModuleType) bool {
	switch t {
	case distro.TypeForgeMod, distro.TypeLiteMod, distro.TypeLiteLoader, distro.TypeFabricMod:
		return true
	}
	return false
}

// scanModules returns the configurations of the toggleable modules in mods.
// Required modules only appear when they have optional submodules.
func scanModules(mods []*distro.Module) map[string]*Config {
	out := map[string]*Config{}
	for _, m := range mods {
		if !isOptionalType(m.Type) {
			continue
		}
		v := Scan(m.SubModules, m)
		if !m.IsRequired() || !v.IsLeaf() {
			out[m.VersionlessID()] = v
		}
	}
	return out
}

// Scan builds the default configuration of origin given its submodules. It
// returns a leaf with origin's default when no submodule is configurable.
func Scan(mods []*distro.Module, origin *distro.Module) *Config {
	found := scanModules(mods)
	if len(found) == 0 {
		return Leaf(origin.DefaultEnabled())
	}
	var enabled *bool
	if !origin.IsRequired() {
		def := origin.DefaultEnabled()
		enabled = &def
	}
	return Node(enabled, found)
}

// Merge carries the user's choices in old over to the freshly scanned
// configuration fresh. newRequired marks fresh as belonging to a required
// mod, in which case its node keeps no value. Merge may modify and return
// fresh.
func Merge(old, fresh *Config, newRequired bool) *Config {
	if old == nil || fresh == nil {
		return fresh
	}

	switch {
	case old.IsLeaf() && fresh.IsLeaf():
		return old.Clone()
	case old.IsLeaf():
		if !newRequired {
			v := old.Value()
			fresh.Enabled = &v
		}
		return fresh
	case fresh.IsLeaf():
		return Leaf(old.Value())
	}

	if !newRequired {
		v := old.Value()
		fresh.Enabled = &v
	}
	for id, sub := range fresh.Mods {
		if prev, ok := old.Mods[id]; ok && prev != nil {
			fresh.Mods[id] = Merge(prev, sub, false)
		}
	}
	return fresh
}

// Sync rebuilds the configuration of every server in the distribution,
// preserving choices from existing. Servers no longer in the distribution
// are dropped.
func Sync(servers []*distro.Server, existing []ServerConfig) []ServerConfig {
	byID := make(map[string]ServerConfig, len(existing))
	for _, c := range existing {
		byID[c.ID] = c
	}

	out := make([]ServerConfig, 0, len(servers))
	for _, s := range servers {
		oldMods := byID[s.ID].Mods
		mods := map[string]*Config{}

		for _, m := range s.Modules {
			if !isOptionalType(m.Type) {
				continue
			}
			id := m.VersionlessID()
			v := Scan(m.SubModules, m)

			if m.IsRequired() && v.IsLeaf() {
				continue
			}
			if prev, ok := oldMods[id]; ok && prev != nil {
				v = Merge(prev, v, m.IsRequired())
			}
			mods[id] = v
		}

		out = append(out, ServerConfig{ID: s.ID, Mods: mods})
	}
	return out
}

// Find returns the configuration for a server, or nil.
func Find(configs []ServerConfig, serverID string) map[string]*Config {
	for _, c := range configs {
		if c.ID == serverID {
			return maps.Clone(c.Mods)
		}
	}
	return nil
}

// IsEnabled reports whether module m is enabled under cfg. Without a
// configuration the module's default applies.
func IsEnabled(cfg *Config, m *distro.Module) bool {
	if cfg != nil {
		return cfg.Value()
	}
	return m.DefaultEnabled()
}

// Enabled lists the mods to load for a server.
type Enabled struct {
	// Mods are Forge and Fabric mods.
	Mods []*distro.Module
	// LiteMods are LiteLoader mods.
	LiteMods []*distro.Module
}

// Resolve walks modules and collects every toggleable module that is either
// required or enabled in cfg, descending into submodules of included ones.
func Resolve(cfg map[string]*Config, modules []*distro.Module) Enabled {
	var out Enabled
	for _, m := range modules {
		if !isOptionalType(m.Type) {
			continue
		}
		c := cfg[m.VersionlessID()]
		if !m.IsRequired() && !IsEnabled(c, m) {
			continue
		}

		if len(m.SubModules) > 0 {
			var sub map[string]*Config
			if c != nil {
				sub = c.Mods
			}
			nested := Resolve(sub, m.SubModules)
			out.Mods = append(out.Mods, nested.Mods...)
			out.LiteMods = append(out.LiteMods, nested.LiteMods...)
			if m.Type == distro.TypeLiteLoader {
				continue
			}
		}

		switch m.Type {
		case distro.TypeForgeMod, distro.TypeFabricMod:
			out.Mods = append(out.Mods, m)
		default:
			out.LiteMods = append(out.LiteMods, m)
		}
	}
	return out
}
