package process

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/library"
)

// Mod list file names inside the instance directory.
const (
	forgeModListFile      = "forgeMods.list"
	fabricModListFile     = "fabricMods.list"
	legacyForgeModList    = "forgeModList.json"
	liteLoaderModListFile = "liteloaderModList.json"
)

// jsonModList is the legacy Forge and LiteLoader mod list format.
type jsonModList struct {
	RepositoryRoot string   `json:"repositoryRoot"`
	ModRef         []string `json:"modRef"`
}

// modArguments writes the mod list for the enabled mods and returns the
// arguments pointing the loader at it.
func (b *Builder) modArguments(instanceDir string, mods, liteMods []*distro.Module) ([]string, error) {
	var args []string

	switch {
	case b.usingFabric():
		if len(mods) == 0 {
			break
		}
		paths := make([]string, 0, len(mods))
		for _, m := range mods {
			p, err := m.Path(b.Layout.Common(), instanceDir)
			if err != nil {
				return nil, err
			}
			paths = append(paths, p)
		}
		file := filepath.Join(instanceDir, fabricModListFile)
		if err := writeLines(file, paths); err != nil {
			return nil, err
		}
		args = append(args, "--fabric.addMods", "@"+file)

	case b.modern():
		if len(mods) == 0 {
			break
		}
		ids, err := extensionlessIDs(mods)
		if err != nil {
			return nil, err
		}
		file := filepath.Join(instanceDir, forgeModListFile)
		if err := writeLines(file, ids); err != nil {
			return nil, err
		}
		args = append(args,
			"--fml.mavenRoots", filepath.Join("..", "..", "common", "modstore"),
			"--fml.modLists", file,
		)

	default:
		if len(mods) > 0 {
			ids, err := extensionlessIDs(mods)
			if err != nil {
				return nil, err
			}
			file := filepath.Join(instanceDir, legacyForgeModList)
			if err := writeJSONModList(file, "absolute:"+b.Layout.ModStore(), ids); err != nil {
				return nil, err
			}
			args = append(args, "--modListFile", "absolute:"+file)
		}
		if len(liteMods) > 0 {
			ids := make([]string, 0, len(liteMods))
			for _, m := range liteMods {
				ids = append(ids, m.ID)
			}
			file := filepath.Join(instanceDir, liteLoaderModListFile)
			if err := writeJSONModList(file, b.Layout.ModStore(), ids); err != nil {
				return nil, err
			}
			args = append(args, "--modRepo", file)
		}
	}

	if len(args) > 0 {
		slog.Debug("wrote mod list", "server", b.Server.ID, "mods", len(mods), "lite_mods", len(liteMods))
	}
	return args, nil
}

func extensionlessIDs(mods []*distro.Module) ([]string, error) {
	ids := make([]string, 0, len(mods))
	for _, m := range mods {
		c, err := library.ParseCoordinate(m.ID)
		if err != nil {
			return nil, fmt.Errorf("mod %q: %w", m.Name, err)
		}
		ids = append(ids, c.ExtensionlessID())
	}
	return ids, nil
}

func writeLines(path string, lines []string) error {
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("unable to write mod list: %w", err)
	}
	return nil
}

func writeJSONModList(path, root string, ids []string) error {
	data, err := json.MarshalIndent(jsonModList{RepositoryRoot: root, ModRef: ids}, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write mod list: %w", err)
	}
	return nil
}
