package ioutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJar(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestExtractNatives(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "lwjgl-platform-2.9.4-natives-linux.jar")
	writeJar(t, jar, map[string]string{
		"liblwjgl64.so":         "native",
		"META-INF/MANIFEST.MF":  "manifest",
		"sub/libopenal64.so":    "openal",
		"META-INF/services/foo": "svc",
	})

	dest := filepath.Join(dir, "natives")
	require.NoError(t, ExtractNatives(jar, dest, []string{"META-INF/"}))

	data, err := os.ReadFile(filepath.Join(dest, "liblwjgl64.so"))
	require.NoError(t, err)
	assert.Equal(t, "native", string(data))
	assert.FileExists(t, filepath.Join(dest, "sub", "libopenal64.so"))
	assert.NoDirExists(t, filepath.Join(dest, "META-INF"))
}

func TestExtractNativesRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "evil.jar")
	writeJar(t, jar, map[string]string{"../escape.so": "x"})

	assert.Error(t, ExtractNatives(jar, filepath.Join(dir, "natives"), nil))
	assert.NoFileExists(t, filepath.Join(dir, "escape.so"))
}

func TestFindExecutable(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "jdk-17", "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	java := filepath.Join(bin, "java")
	require.NoError(t, os.WriteFile(java, []byte("#!/bin/sh\n"), 0o644))

	found, err := FindExecutable(dir, []string{"bin/java", "bin/javaw.exe"})
	require.NoError(t, err)
	assert.Equal(t, java, found)

	missing, err := FindExecutable(dir, []string{"bin/javaw.exe"})
	require.NoError(t, err)
	assert.Empty(t, missing)

	if runtime.GOOS != "windows" {
		require.NoError(t, MakeExecutable(java))
		info, err := os.Stat(java)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0o111)
	}
}
