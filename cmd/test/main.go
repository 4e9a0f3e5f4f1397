package main

import (
	"fmt"
	"os"
	"time"

	"github.com/codearena/judgelet/internal/language"
	"github.com/codearena/judgelet/internal/repository/dto"
	"github.com/codearena/judgelet/internal/runner/local"
	"github.com/codearena/judgelet/internal/workspace"
)

func main() {
	languages, err := language.NewRegistry(&language.Config{
		ID:             "sh",
		RunCmd:         []string{"sh", "{file}"},
		SourceFileName: "main.sh",
	})
	if err != nil {
		panic(err)
	}
	workspaces, err := workspace.NewManager(os.TempDir()+"/judgelet-test", time.Hour)
	if err != nil {
		panic(err)
	}
	judge := local.NewJudge(local.Config{
		Workspaces: workspaces,
		Languages:  languages,
	})

	report, err := judge.Judge(&dto.Submission{
		Language:  "sh",
		Code:      `read a b; echo $((a + b))`,
		TimeLimit: 2 * time.Second,
		TestCases: []dto.TestCase{
			{Input: "2 3", ExpectedOutput: "5"},
			{Input: "10 20", ExpectedOutput: "30"},
		},
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(report.Summary.OverallVerdict, report.Summary.Passed, "passed")
	for _, o := range report.Outcomes {
		fmt.Printf("#%d %s %dms %q\n", o.Index, o.Verdict, o.WallTime.Milliseconds(), o.ActualOutput)
	}
}
