// Package workspace manages the per-run isolated directories every
// submission is compiled and executed in.
package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	dirPrefix         = "run-"
	timestampLayout   = "20060102T150405"
	releaseRetryDelay = 500 * time.Millisecond
)

// Workspace is an ephemeral directory exclusively owned by one run. It holds
// the submission source, build artifacts and the execution working directory.
type Workspace struct {
	ID        string
	Root      string
	CreatedAt time.Time
}

// Path resolves a file name inside the workspace, rejecting anything that
// could escape its root.
func (w *Workspace) Path(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if cleaned != name || filepath.IsAbs(cleaned) ||
		strings.ContainsAny(cleaned, `/\`) || cleaned == ".." || cleaned == "." {
		return "", errors.Errorf("invalid workspace file name %q", name)
	}
	return filepath.Join(w.Root, cleaned), nil
}

// Manager creates and destroys workspaces under a single root directory.
// The root namespace is the only state shared between concurrent runs.
type Manager struct {
	root string
	ttl  time.Duration
}

// NewManager prepares the workspace root and sweeps out stale directories
// left behind by a previous crash.
func NewManager(root string, ttl time.Duration) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create workspace root")
	}
	m := &Manager{root: root, ttl: ttl}
	if removed, err := m.Sweep(); err != nil {
		slog.Warn("workspace sweep failed", "error", err)
	} else if removed > 0 {
		slog.Info("removed stale workspaces", "count", removed)
	}
	return m, nil
}

// Acquire creates a fresh, access-restricted workspace. The name embeds the
// creation timestamp (for the sweep) and a random suffix (collision-free and
// unpredictable).
func (m *Manager) Acquire() (*Workspace, error) {
	now := time.Now()
	id := dirPrefix + now.UTC().Format(timestampLayout) + "-" + uuid.NewString()[:8]
	dir := filepath.Join(m.root, id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "failed to create workspace")
	}
	return &Workspace{ID: id, Root: dir, CreatedAt: now}, nil
}

// Release deletes the workspace. A failed deletion is retried once after a
// short delay, tolerating child processes still holding file handles; a
// second failure is logged and swallowed, never propagated.
func (m *Manager) Release(w *Workspace) {
	if w == nil {
		return
	}
	if err := os.RemoveAll(w.Root); err == nil {
		return
	} else {
		slog.Warn("workspace release failed, retrying", "workspace", w.ID, "error", err)
	}
	time.Sleep(releaseRetryDelay)
	if err := os.RemoveAll(w.Root); err != nil {
		slog.Error("failed to release workspace", "workspace", w.ID, "error", err)
	}
}

// Sweep removes workspaces whose embedded timestamp is older than the TTL.
// Directories that do not match the naming convention are left alone, so a
// shared temp root is never damaged.
func (m *Manager) Sweep() (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read workspace root")
	}
	cutoff := time.Now().Add(-m.ttl)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		created, ok := parseCreatedAt(entry.Name())
		if !ok || !created.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(m.root, entry.Name())); err != nil {
			slog.Warn("failed to remove stale workspace", "workspace", entry.Name(), "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

func parseCreatedAt(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, dirPrefix) {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(name, dirPrefix)
	stamp, _, found := strings.Cut(rest, "-")
	if !found {
		return time.Time{}, false
	}
	created, err := time.Parse(timestampLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return created, true
}
