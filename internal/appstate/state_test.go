package appstate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/modcfg"
)

func boolPtr(b bool) *bool { return &b }

func testDistribution() *distro.Distribution {
	return &distro.Distribution{Servers: []*distro.Server{
		{ID: "creative"},
		{
			ID:          "survival",
			MainServer:  true,
			JavaOptions: &distro.JavaOptions{RAM: &distro.RAM{Recommended: 6144, Minimum: 1536}},
			Modules: []*distro.Module{{
				ID:       "com.example:minimap:2.3",
				Type:     distro.TypeForgeMod,
				Required: &distro.Required{Value: boolPtr(false), Def: boolPtr(false)},
			}},
		},
	}}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.json"))
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := LoadOrNew(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, 1280, s.GameSettings().ResolutionWidth)
	assert.True(t, s.GameSettings().Autoconnect)
}

func TestSyncDistribution(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "config.json"))
	s.SyncDistribution(testDistribution())

	require.NotNil(t, s.SelectedServer)
	assert.Equal(t, "survival", *s.SelectedServer)

	java := s.JavaConfig("survival")
	require.NotNil(t, java)
	assert.Equal(t, "1536M", java.MinRAM)
	assert.Equal(t, "6G", java.MaxRAM)
	assert.Contains(t, java.JVMOptions, "-XX:+UseG1GC")

	defaults := s.JavaConfig("creative")
	require.NotNil(t, defaults)
	assert.Equal(t, "1G", defaults.MinRAM)
	assert.Equal(t, "4G", defaults.MaxRAM)

	assert.Equal(t, modcfg.Leaf(false), s.ModConfiguration("survival")["com.example:minimap"])
}

func TestSyncKeepsValidSelection(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "config.json"))
	s.SelectServer("creative")
	s.SyncDistribution(testDistribution())
	assert.Equal(t, "creative", *s.SelectedServer)

	s.SelectServer("retired")
	s.SyncDistribution(testDistribution())
	assert.Equal(t, "survival", *s.SelectedServer)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	s := New(path)
	s.SyncDistribution(testDistribution())
	s.SelectAccount("uuid-1")
	s.SetModConfiguration("survival", map[string]*modcfg.Config{"com.example:minimap": modcfg.Leaf(true)})
	s.SetJavaConfig("creative", JavaConfig{Executable: "/opt/java/bin/java", MinRAM: "2G", MaxRAM: "8G"})
	s.SetGameSettings(GameSettings{ResolutionWidth: 1920, ResolutionHeight: 1080, Fullscreen: true})
	require.NoError(t, s.Save())

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "uuid-1", *loaded.SelectedAccount)
	assert.Equal(t, "uuid-1", loaded.SelectedAccountID())
	assert.Equal(t, "survival", loaded.SelectedServerID())
	assert.Equal(t, "survival", *loaded.SelectedServer)
	assert.True(t, loaded.ModConfiguration("survival")["com.example:minimap"].Value())
	assert.Equal(t, "/opt/java/bin/java", loaded.JavaConfig("creative").Executable)
	assert.Equal(t, s.GameSettings(), loaded.GameSettings())
	assert.True(t, loaded.GameSettings().Fullscreen)
	assert.False(t, loaded.GameSettings().LaunchDetached)
}

func TestJavaConfigIsACopy(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "config.json"))
	s.SyncDistribution(testDistribution())

	c := s.JavaConfig("survival")
	c.JVMOptions[0] = "-Xchanged"
	assert.NotEqual(t, "-Xchanged", s.JavaConfig("survival").JVMOptions[0])
	assert.Nil(t, s.JavaConfig("unknown"))
}
