package process

import (
	"regexp"
	"strings"

	"lofty-launcher/internal/distro"
)

var placeholderRe = regexp.MustCompile(`\$\{([a-zA-Z0-9_]+)\}`)

// substitute replaces every ${name} in arg. ok is false when a placeholder
// has no value.
func substitute(arg string, vars map[string]string) (string, bool) {
	ok := true
	out := placeholderRe.ReplaceAllStringFunc(arg, func(m string) string {
		name := m[2 : len(m)-1]
		v, found := vars[name]
		if !found {
			ok = false
			return m
		}
		return v
	})
	return out, ok
}

// expand substitutes placeholders in args. An argument with an unresolved
// placeholder is dropped, and so is the "--flag" right before it.
func expand(args []string, vars map[string]string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		v, ok := substitute(arg, vars)
		if ok {
			out = append(out, v)
			continue
		}
		if n := len(out); n > 0 && strings.HasPrefix(out[n-1], "--") && !strings.Contains(out[n-1], "=") {
			out = out[:n-1]
		}
	}
	return out
}

// flatten keeps the values of arguments whose rules allow them in env.
func flatten(args []distro.Argument, env distro.Env) []string {
	var out []string
	for _, a := range args {
		if distro.Allowed(a.Rules, env) {
			out = append(out, a.Value...)
		}
	}
	return out
}
