//go:build unix

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killTree kills the process group led by p and then any descendant that
// moved to another group or session before the group was signalled.
func killTree(p *os.Process) error {
	if p == nil {
		return nil
	}

	escaped := descendants(p.Pid)

	err := unix.Kill(-p.Pid, unix.SIGKILL)
	if errors.Is(err, unix.ESRCH) {
		err = nil
	}

	for _, pid := range escaped {
		if kerr := unix.Kill(int(pid), unix.SIGKILL); kerr != nil && !errors.Is(kerr, unix.ESRCH) && err == nil {
			err = kerr
		}
	}

	return err
}

// killGroup signals whatever is left in the process group led by p. It is
// called after p has been reaped, so descendants are not enumerated.
func killGroup(p *os.Process) error {
	if p == nil {
		return nil
	}
	if err := unix.Kill(-p.Pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}
