package local

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codearena/judgelet/internal/language"
	"github.com/codearena/judgelet/internal/repository/dto"
	"github.com/codearena/judgelet/internal/workspace"
	"github.com/codearena/judgelet/pkg/shell"
)

// compile runs the language's build command once. Interpreted languages are
// a no-op success. A zero exit with a missing artifact is still a failure:
// some toolchains exit 0 on partial failure.
func (j *Judge) compile(lang *language.Config, ws *workspace.Workspace) *dto.CompileFailure {
	if !lang.Compiled() {
		return nil
	}

	timeout := lang.CompileTimeout
	if timeout <= 0 {
		timeout = j.cfg.CompileTimeout
	}
	argv := expandTemplate(lang.CompileCmd, lang, ws)
	res := shell.Run(shell.RunSpec{
		Command:       argv[0],
		Args:          argv[1:],
		Dir:           ws.Root,
		Timeout:       timeout,
		MaxOutputSize: j.cfg.MaxOutputSize,
	})

	switch {
	case res.TimedOut:
		return &dto.CompileFailure{
			Message: fmt.Sprintf("compilation timed out after %dms", timeout.Milliseconds()),
			Stderr:  res.Stderr,
		}
	case res.ExitCode != 0:
		return &dto.CompileFailure{
			Message: fmt.Sprintf("compiler exited with code %d", res.ExitCode),
			Stderr:  res.Stderr,
		}
	}

	artifact := filepath.Join(ws.Root, lang.Artifact+exeSuffix())
	if _, err := os.Stat(artifact); err != nil {
		return &dto.CompileFailure{
			Message: fmt.Sprintf("compiler exited successfully but produced no %s", lang.Artifact+exeSuffix()),
			Stderr:  res.Stderr,
		}
	}
	return nil
}
