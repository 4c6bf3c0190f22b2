// Package library resolves the Java classpath for a game launch. It parses
// Maven-style library paths, picks one version per artifact and assembles the
// ordered classpath handed to the JVM.
package library

import (
	"strings"
)

// Path is a single classpath entry decomposed into its Maven coordinates.
// A Path whose layout could not be recognised keeps only Raw and reports
// Parsed() == false; such entries are never grouped with anything.
type Path struct {
	// Raw is the path exactly as it was given.
	Raw string

	// Group is the dot-delimited group id (e.g. "org.ow2.asm").
	Group string

	// Artifact is the artifact id (e.g. "asm-commons").
	Artifact string

	// Version is the version directory name. It is not guaranteed to be a
	// strict semantic version.
	Version string

	// Classifier is the optional suffix after "<artifact>-<version>-" in the
	// file name (e.g. "natives-windows").
	Classifier string

	// FileName is the last path segment.
	FileName string

	parsed bool
}

// Parsed reports whether the path followed the Maven layout.
func (p Path) Parsed() bool {
	return p.parsed
}

// Key returns the grouping key for the path: "group:artifact", extended with
// ":classifier" for classified jars. Unparsed paths have an empty key.
func (p Path) Key() string {
	if !p.parsed {
		return ""
	}
	key := p.Group + ":" + p.Artifact
	if p.Classifier != "" {
		key += ":" + p.Classifier
	}
	return key
}

// Coordinate returns the Maven coordinate the path was parsed from.
func (p Path) Coordinate() Coordinate {
	return Coordinate{
		Group:      p.Group,
		Artifact:   p.Artifact,
		Version:    p.Version,
		Classifier: p.Classifier,
		Extension:  "jar",
	}
}

// ParsePath decomposes raw into (group, artifact, version) when it follows
// the layout <group...>/<artifact>/<version>/<artifact>-<version>[-classifier].jar.
//
// When librariesRoot is non-empty and raw lives under it, the group is read
// from the segments between the root and the artifact directory. Otherwise the
// group is every directory segment preceding the artifact directory.
// ParsePath never fails; unrecognised paths come back with Parsed() == false.
func ParsePath(raw, librariesRoot string) Path {
	p := Path{Raw: raw}

	segments := splitSegments(raw)
	if len(segments) == 0 {
		return p
	}
	p.FileName = segments[len(segments)-1]

	if root := splitSegments(librariesRoot); len(root) > 0 && hasSegmentPrefix(segments, root) {
		segments = segments[len(root):]
	} else {
		segments = dropVolume(segments)
	}

	// group (at least one segment), artifact, version, file
	if len(segments) < 4 {
		return p
	}

	n := len(segments)
	artifact, version := segments[n-3], segments[n-2]
	classifier, ok := matchFileName(p.FileName, artifact, version)
	if !ok {
		return p
	}

	p.Group = strings.Join(segments[:n-3], ".")
	p.Artifact = artifact
	p.Version = version
	p.Classifier = classifier
	p.parsed = true
	return p
}

// matchFileName checks that name is <artifact>-<version>[-classifier].jar and
// returns the classifier.
func matchFileName(name, artifact, version string) (string, bool) {
	if len(name) < len(".jar") || !strings.EqualFold(name[len(name)-len(".jar"):], ".jar") {
		return "", false
	}
	stem := name[:len(name)-len(".jar")]

	prefix := artifact + "-" + version
	if !strings.HasPrefix(stem, prefix) {
		return "", false
	}

	rest := stem[len(prefix):]
	if rest == "" {
		return "", true
	}
	if rest[0] != '-' || len(rest) == 1 {
		return "", false
	}
	return rest[1:], true
}

// splitSegments canonicalises both separator styles to '/' and returns the
// non-empty segments.
func splitSegments(path string) []string {
	path = strings.ReplaceAll(path, `\`, "/")

	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s == "" || s == "." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

// hasSegmentPrefix reports whether prefix is a whole-segment prefix of
// segments.
func hasSegmentPrefix(segments, prefix []string) bool {
	if len(prefix) >= len(segments) {
		return false
	}
	for i := range prefix {
		if segments[i] != prefix[i] {
			return false
		}
	}
	return true
}

// dropVolume removes a leading Windows drive letter ("C:").
func dropVolume(segments []string) []string {
	if len(segments) > 0 && len(segments[0]) == 2 && segments[0][1] == ':' {
		return segments[1:]
	}
	return segments
}
