package distro

import (
	"fmt"
	"path/filepath"

	"lofty-launcher/internal/library"
)

// ModuleType is the kind of a distribution module.
type ModuleType string

const (
	TypeLibrary         ModuleType = "Library"
	TypeForgeHosted     ModuleType = "ForgeHosted"
	TypeForge           ModuleType = "Forge"
	TypeLiteLoader      ModuleType = "LiteLoader"
	TypeForgeMod        ModuleType = "ForgeMod"
	TypeLiteMod         ModuleType = "LiteMod"
	TypeFabric          ModuleType = "Fabric"
	TypeFabricMod       ModuleType = "FabricMod"
	TypeFile            ModuleType = "File"
	TypeVersionManifest ModuleType = "VersionManifest"
)

// IsMod reports whether modules of this type are loaded as mods.
func (t ModuleType) IsMod() bool {
	switch t {
	case TypeForgeMod, TypeLiteMod, TypeFabricMod:
		return true
	}
	return false
}

// IsModLoader reports whether the type is the server's mod loader.
func (t ModuleType) IsModLoader() bool {
	switch t {
	case TypeForgeHosted, TypeForge, TypeFabric:
		return true
	}
	return false
}

// Module is a single downloadable entry of a server.
type Module struct {
	// ID is the Maven identifier of the module (group:artifact:version[:classifier][@ext]).
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type ModuleType `json:"type"`
	// Classpath reports whether a library module is put on the classpath.
	// Absent means true.
	Classpath  *bool     `json:"classpath,omitempty"`
	Required   *Required `json:"required,omitempty"`
	Artifact   Artifact  `json:"artifact"`
	SubModules []*Module `json:"subModules,omitempty"`
}

// Required describes whether an optional module may be disabled.
type Required struct {
	Value *bool `json:"value,omitempty"`
	Def   *bool `json:"def,omitempty"`
}

// Artifact describes the file behind a module.
type Artifact struct {
	Size int64  `json:"size"`
	MD5  string `json:"MD5,omitempty"`
	URL  string `json:"url"`
	// Path overrides the default location of the file.
	Path string `json:"path,omitempty"`
}

// IsRequired reports whether the module must always be enabled.
func (m *Module) IsRequired() bool {
	if m.Required == nil || m.Required.Value == nil {
		return true
	}
	return *m.Required.Value
}

// DefaultEnabled reports whether an optional module starts enabled.
func (m *Module) DefaultEnabled() bool {
	if m.Required == nil || m.Required.Def == nil {
		return true
	}
	return *m.Required.Def
}

// OnClasspath reports whether the module's file belongs on the classpath.
func (m *Module) OnClasspath() bool {
	return m.Classpath == nil || *m.Classpath
}

// Coordinate parses the module id.
func (m *Module) Coordinate() (library.Coordinate, error) {
	c, err := library.ParseCoordinate(m.ID)
	if err != nil {
		return library.Coordinate{}, fmt.Errorf("module %q: %w", m.Name, err)
	}
	return c, nil
}

// VersionlessID returns the module id without its version, or the raw id
// when it is not a Maven identifier.
func (m *Module) VersionlessID() string {
	c, err := library.ParseCoordinate(m.ID)
	if err != nil {
		return m.ID
	}
	return c.VersionlessID()
}

// Path returns the absolute location of the module's file. Library and
// loader modules live under common/libraries, mods under common/modstore,
// version manifests under common/versions and plain files inside the
// server instance.
func (m *Module) Path(commonDir, instanceDir string) (string, error) {
	if m.Type == TypeFile {
		if m.Artifact.Path == "" {
			return "", fmt.Errorf("file module %q has no path", m.ID)
		}
		return filepath.Join(instanceDir, filepath.FromSlash(m.Artifact.Path)), nil
	}

	var root string
	switch {
	case m.Type.IsMod():
		root = filepath.Join(commonDir, "modstore")
	case m.Type == TypeVersionManifest:
		root = filepath.Join(commonDir, "versions")
	default:
		root = filepath.Join(commonDir, "libraries")
	}

	if m.Artifact.Path != "" {
		return filepath.Join(root, filepath.FromSlash(m.Artifact.Path)), nil
	}

	c, err := m.Coordinate()
	if err != nil {
		return "", err
	}
	if m.Type == TypeVersionManifest {
		id := c.Artifact + "-" + c.Version
		return filepath.Join(root, id, id+".json"), nil
	}
	return filepath.Join(root, filepath.FromSlash(c.Path())), nil
}

// VersionManifestModule returns the server's version manifest module, looking
// through the mod loader's submodules. It returns nil when the server runs
// vanilla.
func (s *Server) VersionManifestModule() *Module {
	for _, m := range s.Modules {
		if m.Type == TypeVersionManifest {
			return m
		}
		if m.Type.IsModLoader() {
			for _, sm := range m.SubModules {
				if sm.Type == TypeVersionManifest {
					return sm
				}
			}
		}
	}
	return nil
}

// ModLoader returns the server's mod loader module, or nil.
func (s *Server) ModLoader() *Module {
	for _, m := range s.Modules {
		if m.Type.IsModLoader() {
			return m
		}
	}
	return nil
}
