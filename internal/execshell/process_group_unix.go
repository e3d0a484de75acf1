//go:build unix

package execshell

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the command in its own process group so that a
// cancelled shell takes its pipeline with it.
func configureProcessGroup(executable *exec.Cmd) {
	executable.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	executable.Cancel = func() error {
		if executable.Process == nil {
			return nil
		}
		return syscall.Kill(-executable.Process.Pid, syscall.SIGKILL)
	}
}
