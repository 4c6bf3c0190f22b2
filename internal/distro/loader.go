package distro

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheSize is the number of decoded manifests kept in memory.
const cacheSize = 64

type cachedManifest struct {
	modTime  time.Time
	size     int64
	manifest *VersionManifest
}

// Loader reads version manifests from disk, caching decoded manifests until
// the file changes. It is safe for concurrent use.
type Loader struct {
	cache *lru.Cache[string, cachedManifest]
}

// NewLoader returns a Loader with an empty cache.
func NewLoader() (*Loader, error) {
	cache, err := lru.New[string, cachedManifest](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Loader{cache: cache}, nil
}

// Load returns the manifest stored at path. Callers must not modify it.
func (l *Loader) Load(path string) (*VersionManifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to stat version manifest: %w", err)
	}

	if c, ok := l.cache.Get(path); ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		return c.manifest, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read version manifest: %w", err)
	}

	var m VersionManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unable to decode version manifest %s: %w", path, err)
	}

	slog.Debug("loaded version manifest", "id", m.ID, "path", path)

	l.cache.Add(path, cachedManifest{modTime: info.ModTime(), size: info.Size(), manifest: &m})
	return &m, nil
}

// LoadDistribution reads the distribution index stored at path.
func LoadDistribution(path string) (*Distribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open distribution: %w", err)
	}
	defer f.Close()
	return DecodeDistribution(f)
}
