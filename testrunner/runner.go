// Package testrunner discovers and runs the AuroraLang script fixtures
// under testdata/scripts, comparing each script's printed output against
// its golden .out file.
package testrunner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/auroralang/aurora/builtins"
	"github.com/auroralang/aurora/interpreter"
	"github.com/auroralang/aurora/module"
)

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	Path    string
	Result  Result
	Message string
	Elapsed time.Duration
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

type Config struct {
	ScriptsDir string
	Filter     string
	Limit      int
	Verbose    bool
	Timeout    time.Duration
}

// Run discovers *.aur scripts under cfg.ScriptsDir and runs each against a
// fresh interpreter, comparing captured print() output to a sibling .out
// file of the same base name. A script with no .out file is skipped
// rather than failed, since it may be a fixture used only by another test
// (e.g. one half of a require() pair).
func Run(cfg Config) ([]TestResult, Summary) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	var scripts []string
	filepath.Walk(cfg.ScriptsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".aur") {
			return nil
		}
		if cfg.Filter != "" {
			rel, _ := filepath.Rel(cfg.ScriptsDir, path)
			if !strings.Contains(rel, cfg.Filter) {
				return nil
			}
		}
		scripts = append(scripts, path)
		return nil
	})
	if cfg.Limit > 0 && len(scripts) > cfg.Limit {
		scripts = scripts[:cfg.Limit]
	}

	start := time.Now()
	var results []TestResult
	var summary Summary
	summary.Total = len(scripts)

	for _, path := range scripts {
		rel, _ := filepath.Rel(cfg.ScriptsDir, path)
		tr := runSingleScript(path, rel, cfg.Timeout)
		results = append(results, tr)

		switch tr.Result {
		case Pass:
			summary.Passed++
		case Fail:
			summary.Failed++
		case Skip:
			summary.Skipped++
		case Error:
			summary.Errors++
		}

		if cfg.Verbose {
			msg := ""
			if tr.Message != "" {
				msg = " " + tr.Message
			}
			fmt.Printf("%s %s%s\n", tr.Result, rel, msg)
		}
	}

	summary.Elapsed = time.Since(start)
	return results, summary
}

func runSingleScript(path, rel string, timeout time.Duration) TestResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: "read error: " + err.Error()}
	}

	goldenPath := strings.TrimSuffix(path, ".aur") + ".out"
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		return TestResult{Path: rel, Result: Skip, Message: "no .out golden file"}
	}

	start := time.Now()
	var out bytes.Buffer
	interp := interpreter.New()
	loader := module.NewLoader(interp, interp.GlobalEnv())
	interp.SetModuleLoader(loader)
	builtins.RegisterAll(interp.GlobalEnv())

	prevStdout := builtins.Stdout
	builtins.Stdout = &out
	defer func() { builtins.Stdout = prevStdout }()

	type evalOutcome struct{ err error }
	done := make(chan evalOutcome, 1)
	go func() {
		_, err := interp.Eval(string(source), path)
		done <- evalOutcome{err: err}
	}()

	var outcome evalOutcome
	select {
	case outcome = <-done:
	case <-time.After(timeout):
		return TestResult{Path: rel, Result: Error, Message: fmt.Sprintf("timeout (%s)", timeout), Elapsed: time.Since(start)}
	}
	elapsed := time.Since(start)

	if outcome.err != nil {
		return TestResult{Path: rel, Result: Fail, Message: outcome.err.Error(), Elapsed: elapsed}
	}
	if out.String() != string(golden) {
		return TestResult{
			Path:    rel,
			Result:  Fail,
			Message: fmt.Sprintf("output mismatch:\n--- want ---\n%s--- got ---\n%s", golden, out.String()),
			Elapsed: elapsed,
		}
	}
	return TestResult{Path: rel, Result: Pass, Elapsed: elapsed}
}
