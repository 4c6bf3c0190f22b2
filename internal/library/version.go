package library

import (
	"strings"
)

// version is a library version split into its numeric release prefix and the
// qualifier that follows it.
//
//	"32.1.1-jre"   -> [32 1 1] "jre"
//	"1.0.0-beta.2" -> [1 0 0]  "beta.2"
//	"9.8"          -> [9 8]    ""
//	"abc"          -> malformed
type version struct {
	numeric   []string
	qualifier string
	malformed bool
}

// parseVersion splits s into numeric components and a qualifier. A version
// without a leading digit is malformed.
func parseVersion(s string) version {
	var numeric []string
	end := 0
	for end < len(s) && isDigit(s[end]) {
		start := end
		for end < len(s) && isDigit(s[end]) {
			end++
		}
		numeric = append(numeric, s[start:end])

		// Only a '.' followed by another digit continues the release.
		if end+1 >= len(s) || s[end] != '.' || !isDigit(s[end+1]) {
			break
		}
		end++
	}

	if len(numeric) == 0 {
		return version{malformed: true}
	}

	return version{
		numeric:   numeric,
		qualifier: strings.TrimLeft(s[end:], "-._+"),
	}
}

// CompareVersions orders two library version strings. It returns -1 if a < b,
// 0 if they are equivalent and 1 if a > b.
//
// Numeric components are compared most significant first, the shorter list
// padded with zeros. On equal numbers a version without a qualifier outranks
// one with a qualifier, and two qualifiers compare lexicographically. Versions
// without a numeric prefix rank below every well-formed version and compare
// lexicographically among themselves. The order is total.
func CompareVersions(a, b string) int {
	va, vb := parseVersion(a), parseVersion(b)

	switch {
	case va.malformed && vb.malformed:
		return strings.Compare(a, b)
	case va.malformed:
		return -1
	case vb.malformed:
		return 1
	}

	if c := compareNumeric(va.numeric, vb.numeric); c != 0 {
		return c
	}

	// A qualifier marks a variant or pre-release and ranks below the plain
	// release.
	switch {
	case va.qualifier == vb.qualifier:
		return 0
	case va.qualifier == "":
		return 1
	case vb.qualifier == "":
		return -1
	}
	return strings.Compare(va.qualifier, vb.qualifier)
}

// VersionAtLeast reports whether actual >= desired under CompareVersions.
func VersionAtLeast(desired, actual string) bool {
	return CompareVersions(actual, desired) >= 0
}

// compareNumeric compares component lists, padding the shorter with zeros.
func compareNumeric(a, b []string) int {
	for i := range max(len(a), len(b)) {
		x, y := "0", "0"
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := compareDigits(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// compareDigits compares two decimal digit strings by magnitude without
// converting them, so arbitrarily long components cannot overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
