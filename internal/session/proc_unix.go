//go:build unix

package session

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcAttrs puts the game in its own process group. A detached game
// also gets its own session so it survives the launcher's terminal.
func setProcAttrs(cmd *exec.Cmd, detached bool) {
	if detached {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate signals the whole process group of the game.
func (s *Session) terminate() error {
	err := unix.Kill(-s.cmd.Process.Pid, unix.SIGTERM)
	if errors.Is(err, unix.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}
