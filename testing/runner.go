package testing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chaos-lang/chaos"
)

// Config holds configuration for running tests.
type Config struct {
	// Patterns specifies files or directories to search for tests.
	// Default is current directory.
	Patterns []string

	// RunPattern filters tests to run by name regex.
	RunPattern string

	// Options are passed to every compilation and run.
	Options []chaos.Option
}

// DiscoverTestFiles finds all *.kaos files matching the given patterns.
// If no patterns are provided, searches the current directory.
func DiscoverTestFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if isTestFile(path) && !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		// Handle "..." suffix for recursive search
		recursive := false
		searchDir := pattern
		if strings.HasSuffix(pattern, "...") {
			recursive = true
			searchDir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if searchDir == "" {
				searchDir = "."
			}
		}

		info, err := os.Stat(searchDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", searchDir)
			}
			return nil, err
		}

		switch {
		case !info.IsDir():
			add(pattern)
		case recursive:
			err = filepath.WalkDir(searchDir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		default:
			entries, err := os.ReadDir(searchDir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() {
					add(filepath.Join(searchDir, e.Name()))
				}
			}
		}
	}
	return files, nil
}

func isTestFile(path string) bool {
	return strings.HasSuffix(path, ".kaos")
}

// TestName returns the name a test file runs under.
func TestName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".kaos")
}

// Run executes tests according to the given configuration.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	files, err := DiscoverTestFiles(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	var runRe *regexp.Regexp
	if cfg.RunPattern != "" {
		runRe, err = regexp.Compile(cfg.RunPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}

	summary := &Summary{}
	start := time.Now()
	for _, file := range files {
		if runRe != nil && !runRe.MatchString(TestName(file)) {
			continue
		}
		summary.Tests = append(summary.Tests, RunFile(ctx, file, cfg.Options...))
	}
	summary.Duration = time.Since(start)
	summary.ComputeTotals()
	return summary, nil
}

// RunFile compiles and runs one test file and checks it against its
// directives. A file without directives passes when it runs without error.
func RunFile(ctx context.Context, filename string, opts ...chaos.Option) *TestResult {
	result := &TestResult{Name: TestName(filename), Filename: filename}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	source, err := os.ReadFile(filename)
	if err != nil {
		result.Status = StatusError
		result.Error = err
		return result
	}
	exp := ParseExpectation(string(source))
	if exp.Skip != "" {
		result.Status = StatusSkipped
		result.SkipReason = exp.Skip
		return result
	}

	var buf bytes.Buffer
	runOpts := append([]chaos.Option{chaos.WithFilename(filename)}, opts...)
	runOpts = append(runOpts, chaos.WithOutput(&buf))
	program, err := chaos.Compile(ctx, string(source), runOpts...)
	if err == nil {
		err = chaos.Run(ctx, program, runOpts...)
	}
	result.Output = buf.String()

	switch {
	case exp.Error != "":
		if err == nil {
			result.Failures = append(result.Failures, Failure{
				Message: "expected an error",
				Want:    exp.Error,
			})
		} else if !strings.Contains(err.Error(), exp.Error) {
			result.Failures = append(result.Failures, Failure{
				Message: "error does not match",
				Got:     err.Error(),
				Want:    exp.Error,
			})
		}
	case err != nil:
		result.Status = StatusError
		result.Error = err
		return result
	}

	if exp.HasOutput && result.Output != exp.Output {
		result.Failures = append(result.Failures, Failure{
			Message: "output does not match",
			Got:     result.Output,
			Want:    exp.Output,
		})
	}
	if len(result.Failures) > 0 {
		result.Status = StatusFailed
	} else {
		result.Status = StatusPassed
	}
	return result
}
