package build

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// maxDiagnostics caps how many compiler errors are listed after a failed build.
const maxDiagnostics = 20

// CompilerError is one javac error line from Gradle output.
type CompilerError struct {
	File    string
	Line    int
	Message string
}

func (e CompilerError) String() string {
	return fmt.Sprintf("%s:%d: %s", filepath.Base(e.File), e.Line, e.Message)
}

// javac output format: /src/main/java/dev/Trivia.java:42: error: cannot find symbol
var javacLineRe = regexp.MustCompile(`^(.+\.java):(\d+):\s+error:\s+(.+)$`)

// ParseCompilerErrors extracts javac errors from build output in the order
// they appear. Duplicate lines (javac repeated across tasks) are dropped.
func ParseCompilerErrors(output string) []CompilerError {
	var errs []CompilerError
	seen := make(map[string]bool)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		m := javacLineRe.FindStringSubmatch(line)
		if m == nil || seen[line] {
			continue
		}
		seen[line] = true
		n, _ := strconv.Atoi(m[2])
		errs = append(errs, CompilerError{File: m[1], Line: n, Message: m[3]})
	}
	return errs
}

// reportDiagnostics prints the compiler errors found in a failed build.
func (b *Builder) reportDiagnostics(output string) {
	errs := ParseCompilerErrors(output)
	if len(errs) == 0 {
		return
	}

	b.out.Error("%d compiler error(s)", len(errs))
	shown := errs
	if len(shown) > maxDiagnostics {
		shown = shown[:maxDiagnostics]
	}
	lines := make([]string, len(shown))
	for i, e := range shown {
		lines[i] = e.String()
	}
	b.out.Numbered(lines)
	if len(errs) > maxDiagnostics {
		b.out.Plain("  ... and %d more (see log)", len(errs)-maxDiagnostics)
	}
}
