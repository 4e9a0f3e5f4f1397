package mappers

import (
	"github.com/codearena/judgelet/internal/repository/dto"
	"github.com/codearena/judgelet/internal/repository/models"
)

func ReportToAttemptResponse(req *models.AttemptRequest, report *dto.Report) *models.AttemptResponse {
	resp := &models.AttemptResponse{
		Id:           req.Id,
		Verdict:      report.Summary.OverallVerdict,
		Passed:       report.Summary.Passed,
		Failed:       report.Summary.Failed,
		FirstFailure: report.Summary.FirstFailureIndex,
		TotalTimeMs:  report.Summary.TotalTime.Milliseconds(),
		Tests:        make([]models.TestResult, 0, len(report.Outcomes)),
	}
	if n := len(report.Outcomes); n > 0 {
		resp.AvgTimeMs = report.Summary.TotalTime.Milliseconds() / int64(n)
	}
	if report.Compile != nil {
		resp.CompileError = &models.CompileError{
			Message: report.Compile.Message,
			Stderr:  report.Compile.Stderr,
		}
		return resp
	}
	for _, o := range report.Outcomes {
		resp.Tests = append(resp.Tests, models.TestResult{
			Index:          o.Index,
			Verdict:        o.Verdict,
			Message:        o.Message,
			Output:         o.ActualOutput,
			ExpectedOutput: o.ExpectedOutput,
			Diff:           o.Diff,
			TimeMs:         o.WallTime.Milliseconds(),
		})
	}
	return resp
}
