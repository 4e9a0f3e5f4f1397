package language

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, id, body string) {
	t.Helper()
	langDir := filepath.Join(dir, id)
	require.NoError(t, os.MkdirAll(langDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(langDir, "config.json"), []byte(body), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "python3", `{
		"run": ["python3", "{file}"],
		"source_file": "main.py",
		"fault_patterns": ["Traceback \\(most recent call last\\)"]
	}`)
	writeConfig(t, dir, "c", `{
		"compile": ["gcc", "{file}", "-O2", "-o", "{bin}"],
		"run": ["{bin}"],
		"source_file": "main.c",
		"artifact": "main",
		"compile_timeout_ms": 10000,
		"fault_patterns": ["Segmentation fault"]
	}`)

	reg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "python3"}, reg.IDs())
	assert.True(t, reg.Has("python3"))
	assert.False(t, reg.Has("cobol"))

	py, err := reg.Get("python3")
	require.NoError(t, err)
	assert.False(t, py.Compiled())
	assert.True(t, py.MatchesFault("Traceback (most recent call last):\n  File ..."))
	assert.False(t, py.MatchesFault("some warning"))

	c, err := reg.Get("c")
	require.NoError(t, err)
	assert.True(t, c.Compiled())
	assert.Equal(t, 10*time.Second, c.CompileTimeout)

	_, err = reg.Get("cobol")
	assert.Error(t, err)
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{
			name: "missing run command",
			cfg:  &Config{ID: "x", SourceFileName: "main.x"},
		},
		{
			name: "missing source file",
			cfg:  &Config{ID: "x", RunCmd: []string{"x"}},
		},
		{
			name: "compiled without artifact",
			cfg:  &Config{ID: "x", RunCmd: []string{"x"}, SourceFileName: "main.x", CompileCmd: []string{"xc"}},
		},
		{
			name: "bad fault pattern",
			cfg:  &Config{ID: "x", RunCmd: []string{"x"}, SourceFileName: "main.x", FaultPatterns: []string{"("}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.cfg)
			assert.Error(t, err)
		})
	}
}
