package runner

import "github.com/codearena/judgelet/internal/repository/dto"

type Judge interface {
	// Judge runs one submission to completion: compile once, then every
	// test case in order. The returned error is reserved for internal
	// faults; all submission-side outcomes are carried in the Report.
	Judge(*dto.Submission) (*dto.Report, error)
}
