package distro

import (
	"regexp"
)

// Rule is a Mojang allow/disallow rule.
type Rule struct {
	Action   string          `json:"action"`
	OS       *OSRule         `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// OSRule restricts a rule to an operating system.
type OSRule struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

// Env is the platform and feature set rules are evaluated against.
type Env struct {
	// OS and Arch use GOOS/GOARCH names.
	OS   string
	Arch string
	// OSVersion is matched against os.version rules when set.
	OSVersion string
	Features  map[string]bool
}

// mojangOS maps a GOOS name to the name used in manifests.
func mojangOS(goos string) string {
	if goos == "darwin" {
		return "osx"
	}
	return goos
}

// mojangArch maps a GOARCH name to the name used in manifests.
func mojangArch(goarch string) string {
	switch goarch {
	case "386":
		return "x86"
	case "amd64":
		return "x86_64"
	}
	return goarch
}

// matches reports whether every condition of the rule holds in env.
func (r Rule) matches(env Env) bool {
	if r.OS != nil {
		if r.OS.Name != "" && r.OS.Name != mojangOS(env.OS) {
			return false
		}
		if r.OS.Arch != "" && r.OS.Arch != mojangArch(env.Arch) {
			return false
		}
		if r.OS.Version != "" && env.OSVersion != "" {
			re, err := regexp.Compile(r.OS.Version)
			if err != nil || !re.MatchString(env.OSVersion) {
				return false
			}
		}
	}
	for name, want := range r.Features {
		if env.Features[name] != want {
			return false
		}
	}
	return true
}

// Allowed evaluates rules in order: with no rules everything is allowed,
// otherwise the last matching rule decides and nothing matching means
// disallowed.
func Allowed(rules []Rule, env Env) bool {
	if len(rules) == 0 {
		return true
	}
	allowed := false
	for _, r := range rules {
		if r.matches(env) {
			allowed = r.Action == "allow"
		}
	}
	return allowed
}
