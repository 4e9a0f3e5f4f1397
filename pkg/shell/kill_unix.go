//go:build unix

package shell

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup makes the child the leader of a fresh process group so
// that everything it forks stays addressable under one pgid, even if the
// subject detaches from its parent.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGKILL to the whole group. Falls back to killing
// the direct child if the group signal fails (the leader may already have
// been reaped).
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	pgid, err := unix.Getpgid(cmd.Process.Pid)
	if err == nil {
		if err := unix.Kill(-pgid, unix.SIGKILL); err == nil {
			return
		}
	}
	cmd.Process.Kill()
}
