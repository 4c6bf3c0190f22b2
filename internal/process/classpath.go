package process

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/ioutil"
	"lofty-launcher/internal/library"
)

// orderedLibs maps versionless ids to paths, remembering first insertion.
// Setting an existing id replaces the path in place.
type orderedLibs struct {
	index map[string]int
	paths []string
}

func newOrderedLibs() *orderedLibs {
	return &orderedLibs{index: make(map[string]int)}
}

func (o *orderedLibs) set(id, path string) {
	if i, ok := o.index[id]; ok {
		o.paths[i] = path
		return
	}
	o.index[id] = len(o.paths)
	o.paths = append(o.paths, path)
}

// vanillaLibraries returns the rule-allowed libraries of the vanilla
// manifest. Legacy natives are extracted into nativesDir instead.
func (b *Builder) vanillaLibraries(libs *orderedLibs, nativesDir string) error {
	env := b.ruleEnv()
	for _, lib := range b.Version.Libraries {
		if !distro.Allowed(lib.Rules, env) {
			continue
		}

		if lib.IsNative() {
			if err := b.extractNatives(lib, nativesDir); err != nil {
				return err
			}
			continue
		}

		p, err := lib.ArtifactPath(b.Layout.Libraries())
		if err != nil {
			return err
		}
		libs.set(lib.VersionlessID(), p)
	}
	return nil
}

func (b *Builder) extractNatives(lib *distro.Library, nativesDir string) error {
	classifier, ok := lib.NativeClassifier(b.ruleEnv())
	if !ok {
		return nil
	}
	jar, err := lib.ClassifierPath(b.Layout.Libraries(), classifier)
	if err != nil {
		return err
	}

	exclude := []string{"META-INF/"}
	if lib.Extract != nil {
		exclude = lib.Extract.Exclude
	}

	slog.Debug("extracting natives", "library", lib.Name, "jar", jar)
	if err := ioutil.ExtractNatives(jar, nativesDir, exclude); err != nil {
		return fmt.Errorf("unable to extract natives of %s: %w", lib.Name, err)
	}
	return nil
}

// serverLibraries adds the server's library, Forge and Fabric modules, their
// library submodules, and the library submodules of enabled mods.
func (b *Builder) serverLibraries(libs *orderedLibs, instanceDir string, mods []*distro.Module) error {
	for _, m := range b.Server.Modules {
		switch m.Type {
		case distro.TypeLibrary, distro.TypeForgeHosted, distro.TypeFabric:
		default:
			continue
		}
		if m.OnClasspath() {
			p, err := m.Path(b.Layout.Common(), instanceDir)
			if err != nil {
				return err
			}
			libs.set(m.VersionlessID(), p)
		}
		if err := b.moduleLibraries(libs, instanceDir, m); err != nil {
			return err
		}
	}

	for _, m := range mods {
		if err := b.moduleLibraries(libs, instanceDir, m); err != nil {
			return err
		}
	}
	return nil
}

// moduleLibraries adds library submodules of m, recursively.
func (b *Builder) moduleLibraries(libs *orderedLibs, instanceDir string, m *distro.Module) error {
	for _, sm := range m.SubModules {
		if sm.Type == distro.TypeLibrary && sm.OnClasspath() {
			p, err := sm.Path(b.Layout.Common(), instanceDir)
			if err != nil {
				return err
			}
			libs.set(sm.VersionlessID(), p)
		}
		if err := b.moduleLibraries(libs, instanceDir, sm); err != nil {
			return err
		}
	}
	return nil
}

// classpath assembles and deduplicates the classpath.
func (b *Builder) classpath(instanceDir, nativesDir string, mods []*distro.Module) (*library.Resolution, error) {
	var entries []string
	if !b.atLeast("1.17") || b.usingFabric() {
		id := b.Version.ID
		entries = append(entries, filepath.Join(b.Layout.Versions(), id, id+".jar"))
	}

	libs := newOrderedLibs()
	if err := b.vanillaLibraries(libs, nativesDir); err != nil {
		return nil, err
	}
	if err := b.serverLibraries(libs, instanceDir, mods); err != nil {
		return nil, err
	}
	entries = append(entries, libs.paths...)

	res, err := library.Resolve(entries, library.Options{LibrariesRoot: b.Layout.Libraries()})
	if err != nil {
		return nil, fmt.Errorf("unable to resolve classpath: %w", err)
	}
	for _, s := range res.Superseded {
		slog.Debug("dropping superseded library", "path", s.Path, "by", s.By)
	}
	return res, nil
}
