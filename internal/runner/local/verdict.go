package local

import (
	"fmt"
	"strings"
	"time"

	"github.com/codearena/judgelet/internal/language"
	"github.com/codearena/judgelet/internal/repository/dto"
	"github.com/codearena/judgelet/internal/repository/models"
	"github.com/codearena/judgelet/pkg/shell"
	"github.com/codearena/judgelet/pkg/textdiff"
)

// classify maps one execution result to a verdict. Precedence is strict and
// first match wins: a timed-out run is TLE even when its partial output
// happens to equal the expected text.
func classify(index int, lang *language.Config, res shell.Result, expected string) dto.TestOutcome {
	outcome := dto.TestOutcome{
		Index:          index,
		ActualOutput:   res.Stdout,
		ExpectedOutput: expected,
		WallTime:       res.WallTime,
	}
	switch {
	case res.TimedOut:
		outcome.Verdict = models.VerdictTLE
		outcome.Message = fmt.Sprintf("time limit exceeded after %dms", res.WallTime.Milliseconds())
	case res.ExitCode != 0:
		outcome.Verdict = models.VerdictRE
		outcome.Message = fmt.Sprintf("process exited with code %d", res.ExitCode)
		if res.Stderr != "" {
			outcome.Message += ": " + firstLine(res.Stderr)
		}
	case res.Stderr != "" && lang.MatchesFault(res.Stderr):
		outcome.Verdict = models.VerdictRE
		outcome.Message = "runtime fault: " + firstLine(res.Stderr)
	case textdiff.Equal(expected, res.Stdout):
		outcome.Verdict = models.VerdictAC
	default:
		outcome.Verdict = models.VerdictWA
		outcome.Message = "output mismatch"
		outcome.Diff = textdiff.Compare(expected, res.Stdout)
	}
	return outcome
}

// summarize aggregates outcomes with fixed precedence: AC only when every
// outcome is AC, otherwise TLE beats RE beats WA.
func summarize(outcomes []dto.TestOutcome, total time.Duration) dto.Summary {
	s := dto.Summary{
		OverallVerdict:    models.VerdictAC,
		FirstFailureIndex: -1,
		TotalTime:         total,
	}
	var sawTLE, sawRE bool
	for _, o := range outcomes {
		if o.Verdict == models.VerdictAC {
			s.Passed++
			continue
		}
		s.Failed++
		if s.FirstFailureIndex == -1 {
			s.FirstFailureIndex = o.Index
		}
		switch o.Verdict {
		case models.VerdictTLE:
			sawTLE = true
		case models.VerdictRE:
			sawRE = true
		}
	}
	switch {
	case sawTLE:
		s.OverallVerdict = models.VerdictTLE
	case sawRE:
		s.OverallVerdict = models.VerdictRE
	case s.Failed > 0:
		s.OverallVerdict = models.VerdictWA
	}
	return s
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
