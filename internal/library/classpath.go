package library

import "strings"

// Classpath is an ordered list of classpath entries in which every path
// appears once.
type Classpath []string

// Separator returns the classpath separator for the given GOOS value.
func Separator(goos string) string {
	if goos == "windows" {
		return ";"
	}
	return ":"
}

// Join returns the classpath as a single argument for the host identified
// by goos.
func (c Classpath) Join(goos string) string {
	return strings.Join(c, Separator(goos))
}
