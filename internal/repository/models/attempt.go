package models

import (
	"github.com/codearena/judgelet/pkg/textdiff"
)

// Verdict is the fixed classification of one execution or of a whole run.
type Verdict string

const (
	VerdictAC  Verdict = "AC"
	VerdictWA  Verdict = "WA"
	VerdictTLE Verdict = "TLE"
	VerdictRE  Verdict = "RE"
	VerdictCE  Verdict = "CE"
	// VerdictIE marks an internal judge failure, never a property of the
	// submission itself.
	VerdictIE Verdict = "IE"
)

type AttemptRequest struct {
	Id        int64             `json:"id"`
	Language  string            `json:"language"`
	Code      string            `json:"code"`
	TimeoutMs int               `json:"timeout_ms,omitempty"`
	TestCases []TestCaseRequest `json:"test_cases"`
}

type CompileError struct {
	Message string `json:"message"`
	Stderr  string `json:"stderr"`
}

type TestResult struct {
	Index          int                 `json:"index"`
	Verdict        Verdict             `json:"verdict"`
	Message        string              `json:"message,omitempty"`
	Output         string              `json:"output"`
	ExpectedOutput string              `json:"expected_output"`
	Diff           []textdiff.LineDiff `json:"diff,omitempty"`
	TimeMs         int64               `json:"time_ms"`
}

type AttemptResponse struct {
	Id           int64         `json:"id"`
	Verdict      Verdict       `json:"verdict"`
	CompileError *CompileError `json:"compile_error,omitempty"`
	Tests        []TestResult  `json:"tests,omitempty"`
	Passed       int           `json:"passed"`
	Failed       int           `json:"failed"`
	FirstFailure int           `json:"first_failure"`
	TotalTimeMs  int64         `json:"total_time_ms"`
	AvgTimeMs    int64         `json:"avg_time_ms"`
	Error        string        `json:"error,omitempty"`
}
