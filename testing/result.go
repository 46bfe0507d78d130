// Package testing runs Chaos programs against the output they declare in
// their trailing comments.
package testing

import (
	"time"
)

// Status represents the outcome of a test.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	case StatusSkipped:
		return "SKIP"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Failure describes a mismatch between what a program did and what it
// declared.
type Failure struct {
	Message string
	Got     string
	Want    string
}

// TestResult holds the outcome of running one test file.
type TestResult struct {
	Name       string        // Test name, the file name without extension
	Filename   string        // Path to the test file
	Status     Status        // Pass, fail, skip, or error
	Duration   time.Duration // How long compiling and running took
	Failures   []Failure     // Mismatches found
	Output     string        // Everything the program printed
	SkipReason string        // Why the test was skipped
	Error      error         // Error if Status == StatusError
}

// Summary aggregates results across all test files.
type Summary struct {
	Tests    []*TestResult
	Passed   int
	Failed   int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// TotalTests returns the total number of tests run.
func (s *Summary) TotalTests() int {
	return s.Passed + s.Failed + s.Skipped + s.Errors
}

// Success returns true if all tests passed (no failures or errors).
func (s *Summary) Success() bool {
	return s.Failed == 0 && s.Errors == 0
}

// ComputeTotals recalculates the aggregate counts from the test results.
func (s *Summary) ComputeTotals() {
	s.Passed, s.Failed, s.Skipped, s.Errors = 0, 0, 0, 0
	for _, t := range s.Tests {
		switch t.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusError:
			s.Errors++
		}
	}
}
