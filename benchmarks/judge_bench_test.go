package benchmarks

import (
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/codearena/judgelet/internal/language"
	"github.com/codearena/judgelet/internal/repository/dto"
	"github.com/codearena/judgelet/internal/repository/models"
	"github.com/codearena/judgelet/internal/runner/local"
	"github.com/codearena/judgelet/internal/workspace"
)

var judge *local.Judge

func initJudge() error {
	if _, err := exec.LookPath("sh"); err != nil {
		return fmt.Errorf("sh not available")
	}
	languages, err := language.NewRegistry(
		&language.Config{
			ID:             "sh",
			RunCmd:         []string{"sh", "{file}"},
			SourceFileName: "main.sh",
		},
		&language.Config{
			ID:             "shc",
			CompileCmd:     []string{"sh", "-c", "cp {file} {bin}"},
			RunCmd:         []string{"sh", "{bin}"},
			SourceFileName: "main.sh",
			Artifact:       "prog",
		},
	)
	if err != nil {
		return err
	}
	workspaces, err := workspace.NewManager(os.TempDir()+"/judgelet-bench", time.Hour)
	if err != nil {
		return err
	}
	judge = local.NewJudge(local.Config{Workspaces: workspaces, Languages: languages})
	return nil
}

func TestMain(m *testing.M) {
	if err := initJudge(); err != nil {
		fmt.Printf("Skipping judge benchmarks: %v\n", err)
		os.Exit(0)
	}
	m.Run()
}

func BenchmarkShEcho(b *testing.B) {
	sub := &dto.Submission{
		Language:  "sh",
		Code:      `echo "Hello, World!"`,
		TimeLimit: 5 * time.Second,
		TestCases: []dto.TestCase{{Input: "", ExpectedOutput: "Hello, World!"}},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		report, err := judge.Judge(sub)
		if err != nil {
			b.Fatalf("Judge failed: %v", err)
		}
		if report.Summary.OverallVerdict != models.VerdictAC {
			b.Fatalf("Unexpected verdict: %s", report.Summary.OverallVerdict)
		}
	}
}

func BenchmarkShMultipleInputs(b *testing.B) {
	cases := make([]dto.TestCase, 0, 5)
	for _, n := range []string{"5", "10", "15", "20", "25"} {
		cases = append(cases, dto.TestCase{Input: n, ExpectedOutput: ""})
	}
	sub := &dto.Submission{
		Language:  "sh",
		Code:      "read n; echo $((n * 2))",
		TimeLimit: 5 * time.Second,
		TestCases: cases,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		report, err := judge.Judge(sub)
		if err != nil {
			b.Fatalf("Judge failed: %v", err)
		}
		if len(report.Outcomes) != len(cases) {
			b.Fatalf("Unexpected outcome count: %d", len(report.Outcomes))
		}
	}
}

func BenchmarkShCompiled(b *testing.B) {
	sub := &dto.Submission{
		Language:  "shc",
		Code:      `echo built`,
		TimeLimit: 5 * time.Second,
		TestCases: []dto.TestCase{{Input: "", ExpectedOutput: "built"}},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		report, err := judge.Judge(sub)
		if err != nil {
			b.Fatalf("Judge failed: %v", err)
		}
		if report.Summary.OverallVerdict != models.VerdictAC {
			b.Fatalf("Unexpected verdict: %s", report.Summary.OverallVerdict)
		}
	}
}
