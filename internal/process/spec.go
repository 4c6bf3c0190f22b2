// Package process builds the command line used to start the game.
package process

import (
	"lofty-launcher/internal/library"
)

// LaunchSpec is everything needed to start the game process.
type LaunchSpec struct {
	// Executable is the java binary.
	Executable string
	MainClass  string
	// JVMArgs precede the main class. They already contain the joined
	// classpath after -cp.
	JVMArgs []string
	// Classpath is the deduplicated classpath, in launch order.
	Classpath library.Classpath
	// Superseded lists the classpath entries dropped in favour of a newer
	// version of the same artifact.
	Superseded []library.Superseded
	// ProgramArgs follow the main class.
	ProgramArgs []string
	// Dir is the working directory (the server instance directory).
	Dir string
	// Env holds extra environment variables in KEY=VALUE form.
	Env []string
	// Detached reports whether the game should outlive the launcher.
	Detached bool
	// NativesDir is the per-launch natives directory. It is removed when
	// the game exits.
	NativesDir string
}

// Argv returns the arguments passed to Executable.
func (s *LaunchSpec) Argv() []string {
	argv := make([]string, 0, len(s.JVMArgs)+1+len(s.ProgramArgs))
	argv = append(argv, s.JVMArgs...)
	argv = append(argv, s.MainClass)
	argv = append(argv, s.ProgramArgs...)
	return argv
}
