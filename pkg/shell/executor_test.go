package shell

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	if _, err := exec.LookPath("sh"); err != nil {
		fmt.Println("Skipping shell tests: sh not available")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestRun_CollectsOutput(t *testing.T) {
	res := Run(RunSpec{
		Command: "sh",
		Args:    []string{"-c", "echo out; echo err >&2"},
		Timeout: 5 * time.Second,
	})
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	if res.Stdout != "out\n" {
		t.Fatalf("unexpected stdout %q", res.Stdout)
	}
	if res.Stderr != "err\n" {
		t.Fatalf("unexpected stderr %q", res.Stderr)
	}
	if res.TimedOut || res.Signalled {
		t.Fatalf("unexpected flags in %+v", res)
	}
}

func TestRun_ExitCode(t *testing.T) {
	res := Run(RunSpec{
		Command: "sh",
		Args:    []string{"-c", "exit 3"},
		Timeout: 5 * time.Second,
	})
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
	if res.TimedOut {
		t.Fatal("run should not have timed out")
	}
}

func TestRun_StdinRoundtrip(t *testing.T) {
	res := Run(RunSpec{
		Command: "sh",
		Args:    []string{"-c", "cat"},
		Stdin:   "2 3\n",
		Timeout: 5 * time.Second,
	})
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", res.ExitCode)
	}
	if res.Stdout != "2 3\n" {
		t.Fatalf("unexpected stdout %q", res.Stdout)
	}
}

func TestRun_StdinIgnoredByChild(t *testing.T) {
	// The child exits without reading its input; captured output must
	// survive the broken pipe.
	res := Run(RunSpec{
		Command: "sh",
		Args:    []string{"-c", "echo done"},
		Stdin:   strings.Repeat("x", 1<<16),
		Timeout: 5 * time.Second,
	})
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", res.ExitCode)
	}
	if res.Stdout != "done\n" {
		t.Fatalf("unexpected stdout %q", res.Stdout)
	}
}

func TestRun_Timeout(t *testing.T) {
	start := time.Now()
	res := Run(RunSpec{
		Command: "sh",
		Args:    []string{"-c", "while true; do :; done"},
		Timeout: 500 * time.Millisecond,
	})
	elapsed := time.Since(start)
	if !res.TimedOut {
		t.Fatalf("expected TimedOut, got %+v", res)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("kill took too long: %v", elapsed)
	}
	if res.WallTime < 500*time.Millisecond {
		t.Fatalf("wall time %v below the deadline", res.WallTime)
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	res := Run(RunSpec{
		Command: "definitely-not-an-installed-binary",
		Timeout: time.Second,
	})
	if res.ExitCode != SpawnErrorExitCode {
		t.Fatalf("expected sentinel exit code, got %d", res.ExitCode)
	}
	if res.Stderr == "" {
		t.Fatal("expected spawn error in stderr")
	}
	if res.TimedOut {
		t.Fatal("spawn failure must not be reported as timeout")
	}
}

func TestRun_OutputCap(t *testing.T) {
	res := Run(RunSpec{
		Command:       "sh",
		Args:          []string{"-c", "head -c 65536 /dev/zero"},
		Timeout:       5 * time.Second,
		MaxOutputSize: 1024,
	})
	if !res.Truncated {
		t.Fatal("expected truncated output")
	}
	if len(res.Stdout) != 1024 {
		t.Fatalf("expected capped stdout, got %d bytes", len(res.Stdout))
	}
}
