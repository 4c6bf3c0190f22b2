//go:build windows

package session

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func setProcAttrs(cmd *exec.Cmd, detached bool) {
	flags := uint32(windows.CREATE_NEW_PROCESS_GROUP)
	if detached {
		flags |= windows.DETACHED_PROCESS
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: flags}
}

func (s *Session) terminate() error {
	return s.cmd.Process.Kill()
}
