package library

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Options controls how classpath entries are parsed.
type Options struct {
	// LibrariesRoot anchors group parsing (e.g. "<common>/libraries"). When
	// empty, the group is read from every directory above the artifact.
	LibrariesRoot string
}

// Superseded records an entry that lost to a higher (or earlier) version of
// the same artifact.
type Superseded struct {
	Path string
	By   string
}

// Resolution is the outcome of a deduplication pass.
type Resolution struct {
	// Classpath is the ordered, duplicate free result.
	Classpath Classpath

	// Superseded lists the dropped entries in input order.
	Superseded []Superseded
}

// member is one candidate of an artifact group.
type member struct {
	index int
	path  Path
}

// Deduplicate returns the classpath for paths with one entry per artifact.
// See Resolve for the selection rules.
func Deduplicate(paths []string, opts Options) (Classpath, error) {
	res, err := Resolve(paths, opts)
	if err != nil {
		return nil, err
	}
	return res.Classpath, nil
}

// Resolve groups paths by artifact and keeps the highest version of each
// group; on equal versions the first-seen entry wins. Paths that do not
// follow the Maven layout pass through untouched, although an identical raw
// path is only kept once.
//
// The result is a stable filter of the input: every surviving entry keeps
// its original position relative to the other survivors. An empty entry
// rejects the whole batch with an error wrapping ErrInvalidInput.
func Resolve(paths []string, opts Options) (*Resolution, error) {
	for i, raw := range paths {
		if strings.TrimSpace(raw) == "" {
			return nil, &InputError{Index: i, Reason: "empty path"}
		}
	}

	parsed := make([]Path, len(paths))
	winners := make(map[string]member)
	keep := make([]bool, len(paths))
	seenRaw := make(map[string]bool)
	var superseded []Superseded

	for i, raw := range paths {
		p := ParsePath(raw, opts.LibrariesRoot)
		parsed[i] = p

		if !p.Parsed() {
			if !seenRaw[raw] {
				seenRaw[raw] = true
				keep[i] = true
			}
			continue
		}

		key := p.Key()
		current, ok := winners[key]
		if !ok {
			winners[key] = member{index: i, path: p}
			keep[i] = true
			continue
		}

		// Strictly greater replaces; ties keep the first-seen member.
		if CompareVersions(p.Version, current.path.Version) > 0 {
			keep[current.index] = false
			keep[i] = true
			winners[key] = member{index: i, path: p}
		}
	}

	res := &Resolution{Classpath: make(Classpath, 0, len(winners)+len(seenRaw))}
	for i, raw := range paths {
		if keep[i] {
			res.Classpath = append(res.Classpath, raw)
			continue
		}
		if parsed[i].Parsed() {
			superseded = append(superseded, Superseded{
				Path: raw,
				By:   winners[parsed[i].Key()].path.Raw,
			})
		}
	}
	res.Superseded = superseded

	return res, nil
}

// DecodeList reads a JSON array of classpath entries. A null or non-string
// element rejects the whole list with an error wrapping ErrInvalidInput.
func DecodeList(r io.Reader) ([]string, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	paths := make([]string, len(raw))
	for i, elem := range raw {
		if string(elem) == "null" {
			return nil, &InputError{Index: i, Reason: "null entry"}
		}
		if err := json.Unmarshal(elem, &paths[i]); err != nil {
			return nil, &InputError{Index: i, Reason: "not a string"}
		}
	}

	return paths, nil
}
