// Package language holds the data-only per-language command table. The
// judge is generic over these records; there is no per-language branching
// anywhere else in the codebase.
package language

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Config describes how one language is compiled and run. Command templates
// are argv slices whose elements may contain the placeholders {file}, {dir}
// and {bin}; {bin} resolves to the build artifact with the platform
// executable suffix.
type Config struct {
	ID             string        `json:"-"`
	CompileCmd     []string      `json:"compile,omitempty"`
	RunCmd         []string      `json:"run"`
	SourceFileName string        `json:"source_file"`
	Artifact       string        `json:"artifact,omitempty"`
	CompileTimeout time.Duration `json:"compile_timeout_ms,omitempty"`
	FaultPatterns  []string      `json:"fault_patterns,omitempty"`

	faultRe []*regexp.Regexp
}

// Compiled reports whether the language has a build step.
func (c *Config) Compiled() bool {
	return len(c.CompileCmd) > 0
}

// MatchesFault reports whether stderr matches one of the language's
// runtime-fault patterns.
func (c *Config) MatchesFault(stderr string) bool {
	for _, re := range c.faultRe {
		if re.MatchString(stderr) {
			return true
		}
	}
	return false
}

func (c *Config) compile() error {
	if len(c.RunCmd) == 0 {
		return errors.Errorf("language %s: missing run command", c.ID)
	}
	if c.SourceFileName == "" {
		return errors.Errorf("language %s: missing source file name", c.ID)
	}
	if c.Compiled() && c.Artifact == "" {
		return errors.Errorf("language %s: compiled language without artifact name", c.ID)
	}
	for _, p := range c.FaultPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return errors.Wrapf(err, "language %s: bad fault pattern %q", c.ID, p)
		}
		c.faultRe = append(c.faultRe, re)
	}
	return nil
}

// Registry is the immutable set of supported languages.
type Registry struct {
	langs map[string]*Config
}

// NewRegistry builds a registry from in-memory configs. Used by tests and
// embedded setups.
func NewRegistry(configs ...*Config) (*Registry, error) {
	langs := make(map[string]*Config, len(configs))
	for _, cfg := range configs {
		if err := cfg.compile(); err != nil {
			return nil, err
		}
		langs[cfg.ID] = cfg
	}
	return &Registry{langs: langs}, nil
}

// Load reads every <dir>/<id>/config.json under the languages directory.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read languages dir")
	}
	var configs []*Config
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cfg, err := loadConfig(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		cfg.ID = entry.Name()
		configs = append(configs, cfg)
	}
	return NewRegistry(configs...)
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(filepath.Join(path, "config.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open language config in %s", path)
	}
	defer file.Close()
	cfg := new(Config)
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid language config in %s", path)
	}
	cfg.CompileTimeout *= time.Millisecond
	return cfg, nil
}

// Get returns the config for a language id.
func (r *Registry) Get(id string) (*Config, error) {
	cfg, ok := r.langs[id]
	if !ok {
		return nil, errors.Errorf("unknown language %q", id)
	}
	return cfg, nil
}

// Has reports whether the language is supported.
func (r *Registry) Has(id string) bool {
	_, ok := r.langs[id]
	return ok
}

// IDs lists the supported language ids in stable order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.langs))
	for id := range r.langs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
