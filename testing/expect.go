package testing

import (
	"strings"
)

// Expectation is what a test file declares about itself in comment
// directives:
//
//	print 5
//	# Output:
//	# 5
//
// The expected output is every comment line after "# Output:" up to the
// first line that is not a comment. A blank line or code line ends the
// block, so notes after the output must be set apart by a blank line. An
// empty comment ("#") stands for an empty output line.
//
// "# Error: text" expects compiling or running to fail with an error
// containing text, and "# Skip: reason" skips the file. Directives may also
// use "//" comments.
type Expectation struct {
	Output    string
	HasOutput bool
	Error     string
	Skip      string
}

// ParseExpectation reads the directives of a test file.
func ParseExpectation(source string) Expectation {
	var exp Expectation
	var out []string
	inOutput := false
	for _, line := range strings.Split(source, "\n") {
		text, ok := commentText(line)
		if !ok {
			inOutput = false
			continue
		}
		switch {
		case text == "Output:":
			exp.HasOutput = true
			inOutput = true
		case strings.HasPrefix(text, "Error:"):
			exp.Error = strings.TrimSpace(strings.TrimPrefix(text, "Error:"))
			inOutput = false
		case strings.HasPrefix(text, "Skip:"):
			exp.Skip = strings.TrimSpace(strings.TrimPrefix(text, "Skip:"))
			if exp.Skip == "" {
				exp.Skip = "skipped"
			}
			inOutput = false
		case inOutput:
			out = append(out, text)
		}
	}
	if len(out) > 0 {
		exp.Output = strings.Join(out, "\n") + "\n"
	}
	return exp
}

// commentText returns the text of a line that is a whole-line comment, with
// the marker and one following space removed.
func commentText(line string) (string, bool) {
	line = strings.TrimSpace(line)
	var rest string
	switch {
	case strings.HasPrefix(line, "#"):
		rest = line[1:]
	case strings.HasPrefix(line, "//"):
		rest = line[2:]
	default:
		return "", false
	}
	return strings.TrimPrefix(rest, " "), true
}
