//go:build unix

package shell

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// A timed-out subject that forked a child must leave no descendant behind:
// the whole process group is killed, not just the direct child.
func TestRun_KillsProcessTree(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "pid")

	res := Run(RunSpec{
		Command: "sh",
		Args:    []string{"-c", "sleep 30 & echo $! > pid; wait"},
		Dir:     dir,
		Timeout: 300 * time.Millisecond,
	})
	if !res.TimedOut {
		t.Fatalf("expected timeout, got %+v", res)
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("subject never wrote its child pid: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("bad pid file %q: %v", data, err)
	}

	// Give the kernel a moment to reap, then probe with signal 0.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := unix.Kill(pid, 0); err == unix.ESRCH {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("descendant process %d still alive after group kill", pid)
}
