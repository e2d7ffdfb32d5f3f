package validate

import "fmt"

// Result collects the findings of one or more checks. Checks append to their
// own Result and the Validator merges them in order.
type Result struct {
	Errors   []string
	Warnings []string
	// QuestionCount is the number of records seen in the questions file,
	// zero when the file could not be read.
	QuestionCount int
}

// Passed reports whether no errors were recorded.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// Errorf appends a formatted error.
func (r *Result) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Warnf appends a formatted warning.
func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends other's findings after r's.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	if other.QuestionCount > 0 {
		r.QuestionCount = other.QuestionCount
	}
}
