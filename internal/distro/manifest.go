package distro

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"lofty-launcher/internal/library"
)

// VersionManifest is a Mojang style version.json. Mod loaders (Forge,
// Fabric) ship the same shape, usually with inheritsFrom set and only the
// fields they add.
type VersionManifest struct {
	ID                 string      `json:"id"`
	InheritsFrom       string      `json:"inheritsFrom,omitempty"`
	Type               string      `json:"type"`
	MainClass          string      `json:"mainClass"`
	MinecraftArguments string      `json:"minecraftArguments,omitempty"`
	Arguments          *Arguments  `json:"arguments,omitempty"`
	AssetIndex         *AssetIndex `json:"assetIndex,omitempty"`
	Assets             string      `json:"assets,omitempty"`
	Libraries          []*Library  `json:"libraries"`
}

// AssetIndex identifies the asset index of a version.
type AssetIndex struct {
	ID string `json:"id"`
}

// AssetIndexID returns the asset index id, falling back to the legacy
// "assets" field.
func (v *VersionManifest) AssetIndexID() string {
	if v.AssetIndex != nil && v.AssetIndex.ID != "" {
		return v.AssetIndex.ID
	}
	return v.Assets
}

// Arguments holds the modern (1.13+) argument lists.
type Arguments struct {
	Game []Argument `json:"game,omitempty"`
	JVM  []Argument `json:"jvm,omitempty"`
}

// Argument is either a plain string or a set of values guarded by rules.
type Argument struct {
	Rules []Rule
	Value []string
}

// UnmarshalJSON accepts "value", {"rules":[...],"value":"v"} and
// {"rules":[...],"value":["a","b"]}.
func (a *Argument) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Argument{Value: []string{s}}
		return nil
	}

	var obj struct {
		Rules []Rule          `json:"rules"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("argument must be a string or an object: %w", err)
	}

	var values []string
	if err := json.Unmarshal(obj.Value, &s); err == nil {
		values = []string{s}
	} else if err := json.Unmarshal(obj.Value, &values); err != nil {
		return fmt.Errorf("argument value must be a string or a list: %w", err)
	}

	*a = Argument{Rules: obj.Rules, Value: values}
	return nil
}

// MarshalJSON writes plain arguments as strings.
func (a Argument) MarshalJSON() ([]byte, error) {
	if len(a.Rules) == 0 && len(a.Value) == 1 {
		return json.Marshal(a.Value[0])
	}
	return json.Marshal(struct {
		Rules []Rule   `json:"rules"`
		Value []string `json:"value"`
	}{a.Rules, a.Value})
}

// Library is a library entry of a version manifest.
type Library struct {
	Name      string            `json:"name"`
	URL       string            `json:"url,omitempty"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	Natives   map[string]string `json:"natives,omitempty"`
	Rules     []Rule            `json:"rules,omitempty"`
	Extract   *Extract          `json:"extract,omitempty"`
}

// LibraryDownloads lists the files of a library.
type LibraryDownloads struct {
	Artifact    *Download            `json:"artifact,omitempty"`
	Classifiers map[string]*Download `json:"classifiers,omitempty"`
}

// Download is a single downloadable file.
type Download struct {
	Path string `json:"path"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url"`
}

// Extract lists archive entries skipped when unpacking natives.
type Extract struct {
	Exclude []string `json:"exclude,omitempty"`
}

// IsNative reports whether the library is a legacy natives-only library.
func (l *Library) IsNative() bool {
	return len(l.Natives) > 0
}

// NativeClassifier returns the classifier holding the natives for the given
// platform, with ${arch} substituted. ok is false when the library ships no
// natives for it.
func (l *Library) NativeClassifier(env Env) (string, bool) {
	c, ok := l.Natives[mojangOS(env.OS)]
	if !ok {
		return "", false
	}
	bits := "64"
	if env.Arch == "386" || env.Arch == "arm" {
		bits = "32"
	}
	return strings.ReplaceAll(c, "${arch}", bits), true
}

// ArtifactPath returns where the library's main jar lives below the
// libraries root.
func (l *Library) ArtifactPath(librariesDir string) (string, error) {
	if l.Downloads != nil && l.Downloads.Artifact != nil && l.Downloads.Artifact.Path != "" {
		return filepath.Join(librariesDir, filepath.FromSlash(l.Downloads.Artifact.Path)), nil
	}
	c, err := library.ParseCoordinate(l.Name)
	if err != nil {
		return "", fmt.Errorf("library %q: %w", l.Name, err)
	}
	return filepath.Join(librariesDir, filepath.FromSlash(c.Path())), nil
}

// ClassifierPath returns where a classifier jar of the library lives.
func (l *Library) ClassifierPath(librariesDir, classifier string) (string, error) {
	if l.Downloads != nil {
		if d, ok := l.Downloads.Classifiers[classifier]; ok && d.Path != "" {
			return filepath.Join(librariesDir, filepath.FromSlash(d.Path)), nil
		}
	}
	c, err := library.ParseCoordinate(l.Name)
	if err != nil {
		return "", fmt.Errorf("library %q: %w", l.Name, err)
	}
	c.Classifier = classifier
	return filepath.Join(librariesDir, filepath.FromSlash(c.Path())), nil
}

// VersionlessID returns the library name without its version.
func (l *Library) VersionlessID() string {
	c, err := library.ParseCoordinate(l.Name)
	if err != nil {
		return l.Name
	}
	return c.VersionlessID()
}
