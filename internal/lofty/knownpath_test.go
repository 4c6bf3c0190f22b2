package lofty

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppDataDir(t *testing.T) {
	t.Run("windows uses APPDATA", func(t *testing.T) {
		t.Setenv("APPDATA", `C:\Users\steve\AppData\Roaming`)
		dir, err := getDefaultAppDataDir("windows")
		require.NoError(t, err)
		assert.Equal(t, `C:\Users\steve\AppData\Roaming`, dir)
	})

	t.Run("linux prefers XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/data/xdg")
		dir, err := getDefaultAppDataDir("linux")
		require.NoError(t, err)
		assert.Equal(t, "/data/xdg", dir)
	})

	t.Run("linux falls back to local share", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		t.Setenv("HOME", "/home/steve")
		dir, err := getDefaultAppDataDir("linux")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/steve", ".local", "share"), dir)
	})

	t.Run("darwin uses application support", func(t *testing.T) {
		t.Setenv("HOME", "/Users/steve")
		dir, err := getDefaultAppDataDir("darwin")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/Users/steve", "Library", "Application Support"), dir)
	})
}

func TestLayout(t *testing.T) {
	l := Layout{Root: filepath.Join("data", dirName)}

	assert.Equal(t, filepath.Join("data", dirName, "common", "libraries"), l.Libraries())
	assert.Equal(t, filepath.Join("data", dirName, "common", "modstore"), l.ModStore())
	assert.Equal(t, filepath.Join("data", dirName, "instances", "survival"), l.Instance("survival"))
	assert.Equal(t, filepath.Join("data", dirName, "config.json"), l.Settings())
	assert.Equal(t, filepath.Join("data", dirName, "distribution.json"), l.Distribution())
	assert.Equal(t, filepath.Join("data", dirName, "accounts.json"), l.Accounts())
}

func TestLayoutMkdirAll(t *testing.T) {
	l := Layout{Root: t.TempDir()}
	require.NoError(t, l.MkdirAll())

	for _, dir := range []string{l.Libraries(), l.ModStore(), l.Versions(), l.Instances(), l.Runtime(), l.Logs()} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}
