package testing

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	stdt "testing"

	"github.com/deepnoodle-ai/wonton/assert"

	"github.com/chaos-lang/chaos"
)

func writeTest(t *stdt.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.Nil(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestStatus_String(t *stdt.T) {
	assert.Equal(t, StatusPassed.String(), "PASS")
	assert.Equal(t, StatusFailed.String(), "FAIL")
	assert.Equal(t, StatusSkipped.String(), "SKIP")
	assert.Equal(t, StatusError.String(), "ERROR")
	assert.Equal(t, Status(99).String(), "UNKNOWN")
}

func TestParseExpectation(t *stdt.T) {
	exp := ParseExpectation(`int x = 5
print x
print "a"

# Output:
# 5
#
# a
`)
	assert.True(t, exp.HasOutput)
	assert.Equal(t, exp.Output, "5\n\na\n")
	assert.Equal(t, exp.Error, "")
	assert.Equal(t, exp.Skip, "")
}

func TestParseExpectation_Directives(t *stdt.T) {
	exp := ParseExpectation("print y\n// Error: undefined variable\n")
	assert.False(t, exp.HasOutput)
	assert.Equal(t, exp.Error, "undefined variable")

	exp = ParseExpectation("# Skip: needs loops\n")
	assert.Equal(t, exp.Skip, "needs loops")

	exp = ParseExpectation("# Skip:\n")
	assert.Equal(t, exp.Skip, "skipped")

	exp = ParseExpectation("print 1\n# a note\n")
	assert.False(t, exp.HasOutput)
	assert.Equal(t, exp.Output, "")
}

func TestParseExpectation_CodeEndsOutputBlock(t *stdt.T) {
	exp := ParseExpectation("# Output:\n# 1\nprint 1\n# 2\n")
	assert.Equal(t, exp.Output, "1\n")
}

func TestParseExpectation_BlankLineEndsOutputBlock(t *stdt.T) {
	exp := ParseExpectation("print 1\n# Output:\n# 1\n\n# prints the literal\n")
	assert.True(t, exp.HasOutput)
	assert.Equal(t, exp.Output, "1\n")

	// Without the blank line the note is part of the output
	exp = ParseExpectation("print 1\n# Output:\n# 1\n# prints the literal\n")
	assert.Equal(t, exp.Output, "1\nprints the literal\n")
}

func TestDiscoverTestFiles(t *stdt.T) {
	tmpDir := t.TempDir()
	writeTest(t, tmpDir, "calc.kaos", "")
	writeTest(t, tmpDir, "util.kaos", "")
	writeTest(t, tmpDir, "notes.txt", "")

	subDir := filepath.Join(tmpDir, "sub")
	assert.Nil(t, os.Mkdir(subDir, 0o755))
	writeTest(t, subDir, "sub.kaos", "")

	t.Run("discovers in directory", func(t *stdt.T) {
		files, err := DiscoverTestFiles([]string{tmpDir})
		assert.Nil(t, err)
		assert.Equal(t, len(files), 2)
	})

	t.Run("recursive with ...", func(t *stdt.T) {
		files, err := DiscoverTestFiles([]string{tmpDir + "/..."})
		assert.Nil(t, err)
		assert.Equal(t, len(files), 3)
	})

	t.Run("specific file", func(t *stdt.T) {
		files, err := DiscoverTestFiles([]string{filepath.Join(tmpDir, "calc.kaos")})
		assert.Nil(t, err)
		assert.Equal(t, len(files), 1)
	})

	t.Run("glob", func(t *stdt.T) {
		files, err := DiscoverTestFiles([]string{filepath.Join(tmpDir, "c*")})
		assert.Nil(t, err)
		assert.Equal(t, files, []string{filepath.Join(tmpDir, "calc.kaos")})
	})

	t.Run("ignores other files", func(t *stdt.T) {
		files, err := DiscoverTestFiles([]string{filepath.Join(tmpDir, "notes.txt")})
		assert.Nil(t, err)
		assert.Equal(t, len(files), 0)
	})

	t.Run("missing path", func(t *stdt.T) {
		_, err := DiscoverTestFiles([]string{filepath.Join(tmpDir, "nope")})
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "path not found")
	})
}

func TestRunFile(t *stdt.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name   string
		source string
		status Status
	}{
		{"pass", "int x = 5\nprint x\n# Output:\n# 5\n", StatusPassed},
		{"no_directives", "print 1\n", StatusPassed},
		{"wrong_output", "print 1\n# Output:\n# 2\n", StatusFailed},
		{"expected_error", "print y\n# Error: undefined variable \"y\"\n", StatusPassed},
		{"missing_error", "print 1\n# Error: boom\n", StatusFailed},
		{"other_error", "print y\n# Error: type mismatch\n", StatusFailed},
		{"unexpected_error", "print y\n", StatusError},
		{"skipped", "# Skip: later\nprint y\n", StatusSkipped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *stdt.T) {
			path := writeTest(t, dir, tt.name+".kaos", tt.source)
			result := RunFile(ctx, path)
			assert.Equal(t, result.Name, tt.name)
			assert.Equal(t, result.Status, tt.status)
		})
	}
}

func TestRunFile_Failure(t *stdt.T) {
	path := writeTest(t, t.TempDir(), "mismatch.kaos", "print 1\n# Output:\n# 2\n")
	result := RunFile(context.Background(), path)
	assert.Equal(t, result.Status, StatusFailed)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, result.Failures[0], Failure{
		Message: "output does not match",
		Got:     "1\n",
		Want:    "2\n",
	})
	assert.Equal(t, result.Output, "1\n")
}

func TestRunFile_Options(t *stdt.T) {
	path := writeTest(t, t.TempDir(), "order.kaos", "print 1\nprint 2\n# Output:\n# 2\n# 1\n")
	result := RunFile(context.Background(), path, chaos.WithReversedStatements())
	assert.Equal(t, result.Status, StatusPassed)
}

func TestOutput_StartTest(t *stdt.T) {
	var buf bytes.Buffer
	output := NewOutput(OutputConfig{Writer: &buf})
	output.StartTest("hello")
	assert.Equal(t, buf.String(), "=== RUN   hello\n")
}

func TestOutput_EndTest(t *stdt.T) {
	t.Run("passed test", func(t *stdt.T) {
		var buf bytes.Buffer
		output := NewOutput(OutputConfig{Writer: &buf, Verbose: true})
		output.EndTest(&TestResult{Name: "hello", Status: StatusPassed, Output: "hi\n"})
		assert.Equal(t, buf.String(), "--- PASS: hello (0.000s)\n    hi\n")
	})

	t.Run("failed test", func(t *stdt.T) {
		var buf bytes.Buffer
		output := NewOutput(OutputConfig{Writer: &buf})
		output.EndTest(&TestResult{
			Name:   "mismatch",
			Status: StatusFailed,
			Failures: []Failure{
				{Message: "output does not match", Got: "1\n", Want: "2\n"},
			},
		})
		expected := "--- FAIL: mismatch (0.000s)\n" +
			"    output does not match\n" +
			"        got:\n" +
			"            1\n" +
			"        want:\n" +
			"            2\n"
		assert.Equal(t, buf.String(), expected)
	})

	t.Run("skipped test", func(t *stdt.T) {
		var buf bytes.Buffer
		output := NewOutput(OutputConfig{Writer: &buf})
		output.EndTest(&TestResult{Name: "later", Status: StatusSkipped, SkipReason: "not implemented"})
		assert.Contains(t, buf.String(), "SKIP")
		assert.Contains(t, buf.String(), "not implemented")
	})

	t.Run("errored test", func(t *stdt.T) {
		var buf bytes.Buffer
		output := NewOutput(OutputConfig{Writer: &buf})
		output.EndTest(&TestResult{Name: "broken", Status: StatusError, Error: errors.New("kaboom")})
		assert.Contains(t, buf.String(), "--- ERROR: broken")
		assert.Contains(t, buf.String(), "    kaboom\n")
	})
}

func TestSummary(t *stdt.T) {
	summary := &Summary{
		Tests: []*TestResult{
			{Status: StatusPassed},
			{Status: StatusPassed},
			{Status: StatusFailed},
			{Status: StatusSkipped},
		},
	}
	summary.ComputeTotals()

	assert.Equal(t, summary.Passed, 2)
	assert.Equal(t, summary.Failed, 1)
	assert.Equal(t, summary.Skipped, 1)
	assert.Equal(t, summary.Errors, 0)
	assert.Equal(t, summary.TotalTests(), 4)
	assert.False(t, summary.Success())

	var buf bytes.Buffer
	NewOutput(OutputConfig{Writer: &buf}).Summary(summary)
	assert.Equal(t, buf.String(), "\nFAIL\n2 passed, 1 failed, 1 skipped\n")
}

func TestRun_Integration(t *stdt.T) {
	tmpDir := t.TempDir()
	writeTest(t, tmpDir, "ok.kaos", "print true\n# Output:\n# true\n")
	writeTest(t, tmpDir, "bad.kaos", "print 1\n# Output:\n# 2\n")
	writeTest(t, tmpDir, "later.kaos", "# Skip: not ready\n")

	summary, err := Run(context.Background(), &Config{Patterns: []string{tmpDir}})
	assert.Nil(t, err)
	assert.Equal(t, len(summary.Tests), 3)
	assert.Equal(t, summary.Passed, 1)
	assert.Equal(t, summary.Failed, 1)
	assert.Equal(t, summary.Skipped, 1)
	assert.False(t, summary.Success())
}

func TestRun_RunPattern(t *stdt.T) {
	tmpDir := t.TempDir()
	writeTest(t, tmpDir, "alpha.kaos", "print 1\n")
	writeTest(t, tmpDir, "beta.kaos", "print 2\n")
	writeTest(t, tmpDir, "gamma.kaos", "print 3\n")

	summary, err := Run(context.Background(), &Config{
		Patterns:   []string{tmpDir},
		RunPattern: "alpha|gamma",
	})
	assert.Nil(t, err)
	assert.Equal(t, summary.TotalTests(), 2)
	assert.Equal(t, summary.Passed, 2)

	_, err = Run(context.Background(), &Config{Patterns: []string{tmpDir}, RunPattern: "("})
	assert.NotNil(t, err)
}
