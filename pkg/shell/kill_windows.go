//go:build windows

package shell

import (
	"os/exec"
	"strconv"
)

func setProcessGroup(cmd *exec.Cmd) {
	// No pgid on Windows; taskkill walks the tree by parent pid instead.
}

// killProcessGroup terminates the child and its descendants with taskkill.
// Falls back to a single-process kill if taskkill is unavailable or fails.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
	if err := kill.Run(); err != nil {
		cmd.Process.Kill()
	}
}
