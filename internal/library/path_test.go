package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "C:/Users/wiltark/AppData/Roaming/.loftylauncher/common/libraries"

func TestParsePath(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		root       string
		parsed     bool
		group      string
		artifact   string
		version    string
		classifier string
	}{
		{
			name:     "under libraries root",
			raw:      testRoot + "/org/ow2/asm/asm/9.8/asm-9.8.jar",
			root:     testRoot,
			parsed:   true,
			group:    "org.ow2.asm",
			artifact: "asm",
			version:  "9.8",
		},
		{
			name:     "backslashes under forward slash root",
			raw:      `C:\Users\wiltark\AppData\Roaming\.loftylauncher\common\libraries\com\google\guava\guava\32.1.1-jre\guava-32.1.1-jre.jar`,
			root:     testRoot,
			parsed:   true,
			group:    "com.google.guava",
			artifact: "guava",
			version:  "32.1.1-jre",
		},
		{
			name:     "relative path without root",
			raw:      "org/ow2/asm/asm-commons/9.6/asm-commons-9.6.jar",
			parsed:   true,
			group:    "org.ow2.asm",
			artifact: "asm-commons",
			version:  "9.6",
		},
		{
			name:     "absolute path outside root falls back to full prefix",
			raw:      "/opt/repo/net/sf/jopt-simple/jopt-simple/5.0.4/jopt-simple-5.0.4.jar",
			root:     testRoot,
			parsed:   true,
			group:    "opt.repo.net.sf.jopt-simple",
			artifact: "jopt-simple",
			version:  "5.0.4",
		},
		{
			name:       "classifier",
			raw:        "org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1-natives-windows.jar",
			parsed:     true,
			group:      "org.lwjgl",
			artifact:   "lwjgl",
			version:    "3.3.1",
			classifier: "natives-windows",
		},
		{
			name:     "upper case extension",
			raw:      "org/example/thing/1.0/thing-1.0.JAR",
			parsed:   true,
			group:    "org.example",
			artifact: "thing",
			version:  "1.0",
		},
		{
			name:     "duplicate separators",
			raw:      "org//example/thing/1.0//thing-1.0.jar",
			parsed:   true,
			group:    "org.example",
			artifact: "thing",
			version:  "1.0",
		},
		{name: "nonstandard jar", raw: "C:/weird/nonstandard.jar"},
		{name: "no group segment", raw: "asm/9.8/asm-9.8.jar"},
		{name: "no group segment under root", raw: testRoot + "/asm/9.8/asm-9.8.jar", root: testRoot},
		{name: "file name does not match artifact", raw: "org/foo/bar/1.0/baz-1.0.jar"},
		{name: "file name does not match version", raw: "org/foo/bar/1.0/bar-1.1.jar"},
		{name: "not a jar", raw: "org/foo/bar/1.0/bar-1.0.zip"},
		{name: "empty classifier", raw: "org/foo/bar/1.0/bar-1.0-.jar"},
		{name: "version run-on", raw: "org/foo/bar/1.0/bar-1.0x.jar"},
		{name: "bare file", raw: "client.jar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePath(tt.raw, tt.root)

			assert.Equal(t, tt.raw, p.Raw)
			require.Equal(t, tt.parsed, p.Parsed())
			if !tt.parsed {
				assert.Empty(t, p.Key())
				return
			}
			assert.Equal(t, tt.group, p.Group)
			assert.Equal(t, tt.artifact, p.Artifact)
			assert.Equal(t, tt.version, p.Version)
			assert.Equal(t, tt.classifier, p.Classifier)
		})
	}
}

func TestPathKey(t *testing.T) {
	plain := ParsePath("org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1.jar", "")
	natives := ParsePath("org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1-natives-linux.jar", "")

	assert.Equal(t, "org.lwjgl:lwjgl", plain.Key())
	assert.Equal(t, "org.lwjgl:lwjgl:natives-linux", natives.Key())
	assert.Equal(t, "org.lwjgl:lwjgl:3.3.1:natives-linux", natives.Coordinate().String())
}

func TestParsePathIsLosslessForCoordinates(t *testing.T) {
	ids := []string{
		"org.ow2.asm:asm:9.8",
		"com.google.guava:guava:32.1.1-jre",
		"net.minecraftforge:forge:1.20.1-47.2.0:universal",
		"org.lwjgl:lwjgl-glfw:3.3.1:natives-macos-arm64",
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			c, err := ParseCoordinate(id)
			require.NoError(t, err)

			p := ParsePath(testRoot+"/"+c.Path(), testRoot)
			require.True(t, p.Parsed())
			assert.Equal(t, c, p.Coordinate())
		})
	}
}
