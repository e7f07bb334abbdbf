//go:build !unix

package process

import (
	"errors"
	"os"
	"os/exec"

	"github.com/shirou/gopsutil/v3/process"
)

func setProcessGroup(cmd *exec.Cmd) {}

func killTree(p *os.Process) error {
	if p == nil {
		return nil
	}

	for _, pid := range descendants(p.Pid) {
		if child, err := process.NewProcess(pid); err == nil {
			_ = child.Kill()
		}
	}

	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func killGroup(p *os.Process) error {
	return killTree(p)
}
