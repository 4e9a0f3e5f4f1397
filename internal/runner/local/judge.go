// Package local judges submissions with plain OS processes: one workspace
// per run, one build, one fresh process per test case.
package local

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/codearena/judgelet/internal/language"
	"github.com/codearena/judgelet/internal/repository/dto"
	"github.com/codearena/judgelet/internal/repository/models"
	"github.com/codearena/judgelet/internal/runner"
	"github.com/codearena/judgelet/internal/workspace"
	"github.com/codearena/judgelet/pkg/shell"
)

type Config struct {
	Workspaces *workspace.Manager
	Languages  *language.Registry
	// CompileTimeout bounds the build step, independent of the
	// submission's time limit. Per-language configs may override it.
	CompileTimeout time.Duration
	MaxOutputSize  int64
}

type Judge struct {
	cfg Config
}

func NewJudge(cfg Config) *Judge {
	if cfg.CompileTimeout <= 0 {
		cfg.CompileTimeout = 30 * time.Second
	}
	if cfg.MaxOutputSize <= 0 {
		cfg.MaxOutputSize = 1 << 20
	}
	return &Judge{cfg: cfg}
}

var _ runner.Judge = (*Judge)(nil)

// Judge runs one submission. All per-run state lives in the Submission and
// the Report, so concurrent calls are fully isolated from each other.
func (j *Judge) Judge(sub *dto.Submission) (*dto.Report, error) {
	lang, err := j.cfg.Languages.Get(sub.Language)
	if err != nil {
		return nil, err
	}

	ws, err := j.cfg.Workspaces.Acquire()
	if err != nil {
		return nil, errors.Wrap(err, "failed to acquire workspace")
	}
	defer j.cfg.Workspaces.Release(ws)

	srcPath, err := ws.Path(lang.SourceFileName)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(srcPath, []byte(sub.Code), 0o600); err != nil {
		return nil, errors.Wrap(err, "failed to write source file")
	}

	if fail := j.compile(lang, ws); fail != nil {
		slog.Debug("compile failed", "language", lang.ID, "workspace", ws.ID)
		return &dto.Report{
			Compile: fail,
			Summary: dto.Summary{OverallVerdict: models.VerdictCE, FirstFailureIndex: -1},
		}, nil
	}

	report := &dto.Report{}
	var total time.Duration
	for i, tc := range sub.TestCases {
		res := j.runOnce(lang, ws, tc.Input, sub.TimeLimit)
		outcome := classify(i, lang, res, tc.ExpectedOutput)
		slog.Debug("test case judged",
			"workspace", ws.ID, "index", i, "verdict", outcome.Verdict,
			"exitCode", res.ExitCode, "timedOut", res.TimedOut, "wallTime", res.WallTime)
		total += res.WallTime
		report.Outcomes = append(report.Outcomes, outcome)
	}
	report.Summary = summarize(report.Outcomes, total)
	return report, nil
}

// runOnce executes the language's run command for a single test case as a
// fresh process carrying no state from previous invocations.
func (j *Judge) runOnce(lang *language.Config, ws *workspace.Workspace, input string, limit time.Duration) shell.Result {
	argv := expandTemplate(lang.RunCmd, lang, ws)
	return shell.Run(shell.RunSpec{
		Command:       argv[0],
		Args:          argv[1:],
		Dir:           ws.Root,
		Stdin:         input,
		Timeout:       limit,
		MaxOutputSize: j.cfg.MaxOutputSize,
	})
}

// expandTemplate resolves the command placeholders against a workspace:
// {file} is the source path, {dir} the workspace root, {bin} the build
// artifact with the platform executable suffix.
func expandTemplate(tmpl []string, lang *language.Config, ws *workspace.Workspace) []string {
	src := filepath.Join(ws.Root, lang.SourceFileName)
	bin := ""
	if lang.Artifact != "" {
		bin = filepath.Join(ws.Root, lang.Artifact+exeSuffix())
	}
	argv := make([]string, len(tmpl))
	for i, arg := range tmpl {
		arg = strings.ReplaceAll(arg, "{file}", src)
		arg = strings.ReplaceAll(arg, "{dir}", ws.Root)
		arg = strings.ReplaceAll(arg, "{bin}", bin)
		argv[i] = arg
	}
	return argv
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
