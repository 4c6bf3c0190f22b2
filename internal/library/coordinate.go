package library

import (
	"fmt"
	"path"
	"strings"
)

// Coordinate is a Maven identifier of the form
// group:artifact:version[:classifier][@extension].
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	Extension  string
}

// ParseCoordinate parses a Maven identifier. The extension defaults to "jar".
func ParseCoordinate(id string) (Coordinate, error) {
	ext := "jar"
	if at := strings.LastIndexByte(id, '@'); at >= 0 {
		ext = id[at+1:]
		id = id[:at]
	}

	parts := strings.Split(id, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, fmt.Errorf("malformed maven identifier %q", id)
	}
	for _, part := range parts {
		if part == "" {
			return Coordinate{}, fmt.Errorf("malformed maven identifier %q", id)
		}
	}

	c := Coordinate{
		Group:     parts[0],
		Artifact:  parts[1],
		Version:   parts[2],
		Extension: ext,
	}
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// String returns the identifier in group:artifact:version[:classifier][@ext]
// form. The extension is omitted when it is "jar".
func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	if c.Extension != "" && c.Extension != "jar" {
		s += "@" + c.Extension
	}
	return s
}

// VersionlessID returns group:artifact[:classifier]. Two coordinates with the
// same versionless id occupy the same classpath slot.
func (c Coordinate) VersionlessID() string {
	s := c.Group + ":" + c.Artifact
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}

// ExtensionlessID returns group:artifact:version[:classifier].
func (c Coordinate) ExtensionlessID() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}

// FileName returns artifact-version[-classifier].ext.
func (c Coordinate) FileName() string {
	name := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	ext := c.Extension
	if ext == "" {
		ext = "jar"
	}
	return name + "." + ext
}

// Path returns the slash separated location of the artifact relative to a
// Maven repository root.
func (c Coordinate) Path() string {
	return path.Join(strings.ReplaceAll(c.Group, ".", "/"), c.Artifact, c.Version, c.FileName())
}
