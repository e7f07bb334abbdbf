package process

import (
	"github.com/shirou/gopsutil/v3/process"
)

// descendants returns the pids of every live descendant of pid, parents
// before their children. The tree is built from a single process table scan
// so it does not depend on external tools such as pgrep.
func descendants(pid int) []int32 {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}

	children := make(map[int32][]int32, len(procs))
	for _, p := range procs {
		ppid, err := p.Ppid()
		if err != nil {
			continue
		}
		children[ppid] = append(children[ppid], p.Pid)
	}

	var pids []int32
	queue := []int32{int32(pid)}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			pids = append(pids, child)
			queue = append(queue, child)
		}
	}
	return pids
}
