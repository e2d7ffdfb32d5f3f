package report

import (
	"fmt"
	"strings"
	"time"
)

// Logbook collects timestamped lines during a run. The Reporter writes them
// into the log file after the run header.
type Logbook struct {
	lines []string
	now   func() time.Time
}

// NewLogbook creates an empty Logbook.
func NewLogbook() *Logbook {
	return &Logbook{now: time.Now}
}

// Printf records a single timestamped entry. Multi-line text is kept as is.
func (l *Logbook) Printf(format string, args ...any) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.lines = append(l.lines, fmt.Sprintf("[%s] %s", l.now().Format(time.RFC3339), line))
}

// Lines returns the recorded entries in order.
func (l *Logbook) Lines() []string {
	return l.lines
}
