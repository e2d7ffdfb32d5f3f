// Package report writes the run's log file and prints the final summary.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lucasnoah/triviabuild/internal/console"
)

// Header identifies the run at the top of the log file.
type Header struct {
	Timestamp        string
	RunID            string
	MinecraftVersion string
	// ExpectedQuestions is the denominator of the question count line.
	ExpectedQuestions int
}

// Summary is everything the final report needs from the stages.
type Summary struct {
	Errors         []string
	Warnings       []string
	QuestionCount  int
	BuildRequested bool
	BuildSucceeded bool
}

// Passed is true when there are no errors and any requested build succeeded.
func (s Summary) Passed() bool {
	return len(s.Errors) == 0 && (!s.BuildRequested || s.BuildSucceeded)
}

// Reporter emits the end-of-run report.
type Reporter struct {
	root   string
	path   string
	header Header
	book   *Logbook
	out    *console.Printer
}

// New creates a Reporter writing to path (relative paths resolve against root).
func New(root, path string, header Header, book *Logbook, out *console.Printer) *Reporter {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return &Reporter{root: root, path: path, header: header, book: book, out: out}
}

// Path returns the log file location.
func (r *Reporter) Path() string {
	return r.path
}

// Report overwrites the log file and prints the summary. It returns
// s.Passed(); a log file that cannot be written is only a warning.
func (r *Reporter) Report(s Summary) bool {
	r.out.Header("BUILD REPORT")

	if err := WriteAtomic(r.path, []byte(r.render(s))); err != nil {
		r.out.Warn("Could not write %s: %v", r.path, err)
	}

	passed := s.Passed()
	if passed {
		r.out.Success("ALL CHECKS PASSED")
	} else {
		if len(s.Errors) > 0 {
			r.out.Error("%d error(s) found", len(s.Errors))
			r.out.Numbered(s.Errors)
		}
		if s.BuildRequested && !s.BuildSucceeded {
			r.out.Error("Build failed")
		}
	}

	if len(s.Warnings) > 0 {
		r.out.Warn("%d warning(s)", len(s.Warnings))
		r.out.Numbered(s.Warnings)
	}

	r.out.Success("Complete log: %s", r.displayPath())
	return passed
}

func (r *Reporter) render(s Summary) string {
	bar := strings.Repeat("=", 80)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nTRIVIA - BUILD LOG\n%s\n\n", bar, bar)
	fmt.Fprintf(&b, "Timestamp: %s\n", r.header.Timestamp)
	if r.header.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", r.header.RunID)
	}
	fmt.Fprintf(&b, "Minecraft Version: %s\n", r.header.MinecraftVersion)
	fmt.Fprintf(&b, "Bundled Questions: %d/%d\n", s.QuestionCount, r.header.ExpectedQuestions)

	result := "PASSED"
	if !s.Passed() {
		result = "FAILED"
	}
	fmt.Fprintf(&b, "Result: %s (%d errors, %d warnings)\n", result, len(s.Errors), len(s.Warnings))
	writeList(&b, "Errors", s.Errors)
	writeList(&b, "Warnings", s.Warnings)

	if r.book != nil && len(r.book.Lines()) > 0 {
		b.WriteString("\n")
		for _, l := range r.book.Lines() {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Reporter) displayPath() string {
	if rel, err := filepath.Rel(r.root, r.path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return r.path
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for i, item := range items {
		fmt.Fprintf(b, "  %d. %s\n", i+1, item)
	}
}
