package testing

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/wonton/color"
)

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Writer is where output is written.
	Writer io.Writer

	// Verbose shows the printed output of passing tests too.
	Verbose bool

	// UseColor enables ANSI color codes.
	UseColor bool
}

// Output handles formatting and printing test results.
type Output struct {
	w        io.Writer
	verbose  bool
	useColor bool
}

// NewOutput creates a new Output formatter.
func NewOutput(cfg OutputConfig) *Output {
	return &Output{
		w:        cfg.Writer,
		verbose:  cfg.Verbose,
		useColor: cfg.UseColor,
	}
}

// StartTest prints the "=== RUN" line for a test.
func (o *Output) StartTest(name string) {
	fmt.Fprintf(o.w, "=== RUN   %s\n", name)
}

// EndTest prints the result line for a test (--- PASS, --- FAIL, etc.).
func (o *Output) EndTest(result *TestResult) {
	var statusStr string
	switch result.Status {
	case StatusPassed:
		statusStr = o.colorize(color.Green, "--- PASS:")
	case StatusFailed:
		statusStr = o.colorize(color.Red, "--- FAIL:")
	case StatusSkipped:
		statusStr = o.colorize(color.Yellow, "--- SKIP:")
	case StatusError:
		statusStr = o.colorize(color.Red, "--- ERROR:")
	default:
		statusStr = fmt.Sprintf("--- %s:", result.Status)
	}
	fmt.Fprintf(o.w, "%s %s (%.3fs)\n", statusStr, result.Name, result.Duration.Seconds())

	if result.Status == StatusSkipped && result.SkipReason != "" {
		fmt.Fprintf(o.w, "    %s\n", result.SkipReason)
	}
	if result.Status == StatusError && result.Error != nil {
		o.printIndented(result.Error.Error())
	}
	for _, failure := range result.Failures {
		o.printFailure(failure)
	}
	if o.verbose && result.Status == StatusPassed && result.Output != "" {
		o.printIndented(strings.TrimSuffix(result.Output, "\n"))
	}
}

func (o *Output) printFailure(f Failure) {
	fmt.Fprintf(o.w, "    %s\n", f.Message)
	if f.Got != "" {
		fmt.Fprintf(o.w, "        %s:\n", o.colorize(color.Red, "got"))
		o.printBlock(f.Got)
	}
	if f.Want != "" {
		fmt.Fprintf(o.w, "        %s:\n", o.colorize(color.Green, "want"))
		o.printBlock(f.Want)
	}
}

func (o *Output) printIndented(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(o.w, "    %s\n", line)
	}
}

func (o *Output) printBlock(text string) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		fmt.Fprintf(o.w, "            %s\n", line)
	}
}

// Summary prints the final summary line.
func (o *Output) Summary(summary *Summary) {
	fmt.Fprintln(o.w)
	if summary.Success() {
		fmt.Fprintln(o.w, o.colorize(color.Green, "PASS"))
	} else {
		fmt.Fprintln(o.w, o.colorize(color.Red, "FAIL"))
	}

	parts := []string{}
	if summary.Passed > 0 {
		parts = append(parts, o.colorize(color.Green, fmt.Sprintf("%d passed", summary.Passed)))
	}
	if summary.Failed > 0 {
		parts = append(parts, o.colorize(color.Red, fmt.Sprintf("%d failed", summary.Failed)))
	}
	if summary.Skipped > 0 {
		parts = append(parts, o.colorize(color.Yellow, fmt.Sprintf("%d skipped", summary.Skipped)))
	}
	if summary.Errors > 0 {
		parts = append(parts, o.colorize(color.Red, fmt.Sprintf("%d errors", summary.Errors)))
	}
	if len(parts) > 0 {
		fmt.Fprintln(o.w, strings.Join(parts, ", "))
	}
}

// colorize applies color if enabled.
func (o *Output) colorize(c color.Color, s string) string {
	if o.useColor {
		return c.Apply(s)
	}
	return s
}

// PrintResults prints all results in Go test style.
func (o *Output) PrintResults(summary *Summary) {
	for _, test := range summary.Tests {
		o.StartTest(test.Name)
		o.EndTest(test)
	}
	o.Summary(summary)
}
