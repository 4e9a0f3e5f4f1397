package dto

import (
	"time"

	"github.com/codearena/judgelet/internal/repository/models"
	"github.com/codearena/judgelet/pkg/textdiff"
)

// TestCase is opaque text; the judge never parses or interprets it.
type TestCase struct {
	Input          string
	ExpectedOutput string
}

// Submission is the immutable input to one judging run.
type Submission struct {
	Language  string
	Code      string
	TimeLimit time.Duration
	TestCases []TestCase
}

// CompileFailure is the expected outcome of a failed build. It short-circuits
// the run: no test case executes after it.
type CompileFailure struct {
	Message string
	Stderr  string
}

// TestOutcome is the judged result of one test case.
type TestOutcome struct {
	Index          int
	Verdict        models.Verdict
	Message        string
	ActualOutput   string
	ExpectedOutput string
	Diff           []textdiff.LineDiff
	WallTime       time.Duration
}

// Summary aggregates a whole run.
type Summary struct {
	OverallVerdict    models.Verdict
	Passed            int
	Failed            int
	FirstFailureIndex int
	TotalTime         time.Duration
}

// Report is the full result of judging one submission. Compile is non-nil
// exactly when the run ended in CE, in which case Outcomes is empty.
type Report struct {
	Compile  *CompileFailure
	Outcomes []TestOutcome
	Summary  Summary
}
