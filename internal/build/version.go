// Package build provides build-time information about the application.
package build

// These variables are set at build time via ldflags.
var (
	// Release is the release branch/mode (e.g., "release", "dev").
	Release string

	// Version is the build version string (e.g., "2.3.1").
	Version string

	// BuildNumber is the numeric build number.
	BuildNumber int
)

// Name is the launcher name reported to the game through ${launcher_name}.
const Name = "lofty-launcher"

// IsDev returns true if the application is running in development mode.
func IsDev() bool {
	return isDevMode()
}

// isDevMode returns true if the application is running in development mode.
func isDevMode() bool {
	return Release == "dev"
}

// VersionString returns Version, or "dev" for unversioned builds.
func VersionString() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
