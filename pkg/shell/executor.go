package shell

import (
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// SpawnErrorExitCode is reported when the command could not be started at
// all (missing interpreter, bad path). It is outside the 0-255 range so it
// can never collide with a real exit status, and distinct from the -1 Go
// reports for signalled processes.
const SpawnErrorExitCode = -255

// RunSpec describes a single supervised process invocation.
type RunSpec struct {
	Command string
	Args    []string
	Dir     string
	Stdin   string
	Timeout time.Duration
	// MaxOutputSize caps each of stdout and stderr in bytes. Writes past
	// the cap are discarded and the result is flagged Truncated.
	MaxOutputSize int64
}

// Result is the outcome of one process invocation. A timeout is not an
// error: it is reported through TimedOut with whatever output was captured
// before the kill.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	TimedOut  bool
	Signalled bool
	Truncated bool
	WallTime  time.Duration
}

// cappedBuffer is an append-only buffer that silently drops writes past its
// limit. It never returns an error so the copier keeps draining the pipe and
// the child is never blocked on a full pipe after the cap is reached.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       strings.Builder
	limit     int64
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	remaining := b.limit - int64(b.buf.Len())
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if int64(len(p)) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Run spawns the command in its own process group, feeds it stdin, collects
// stdout/stderr and enforces the deadline. If the deadline fires the whole
// process group is killed, including anything the subject forked. Run never
// returns an error for subject-side failures; a spawn failure is folded into
// the Result with SpawnErrorExitCode.
func Run(spec RunSpec) Result {
	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	setProcessGroup(cmd)

	limit := spec.MaxOutputSize
	if limit <= 0 {
		limit = 1 << 20
	}
	stdout := &cappedBuffer{limit: limit}
	stderr := &cappedBuffer{limit: limit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return Result{ExitCode: SpawnErrorExitCode, Stderr: err.Error()}
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return Result{
			ExitCode: SpawnErrorExitCode,
			Stderr:   errors.Wrap(err, "failed to start process").Error(),
		}
	}

	// The pipe applies backpressure: this goroutine stalls instead of
	// buffering when the child stops reading. If the child exits without
	// consuming all of its input the copy fails with EPIPE, which is
	// deliberately ignored: already-captured output stays valid.
	go func() {
		defer stdin.Close()
		io.Copy(stdin, strings.NewReader(spec.Stdin))
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(spec.Timeout)
	defer timer.Stop()

	var timedOut bool
	select {
	case <-done:
	case <-timer.C:
		timedOut = true
		killProcessGroup(cmd)
		<-done
	}
	// time.Since uses the monotonic clock, so the reading is immune to
	// wall-clock adjustments during the run.
	wall := time.Since(start)

	res := Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		TimedOut:  timedOut,
		Truncated: stdout.truncated || stderr.truncated,
		WallTime:  wall,
	}
	if ps := cmd.ProcessState; ps != nil {
		res.ExitCode = ps.ExitCode()
		res.Signalled = !ps.Exited()
	}
	return res
}
