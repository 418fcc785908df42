package bib

import "fmt"

// Severity classifies a reported issue. Errors fail the build; warnings are
// surfaced in the build result but never block it.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Issue is a single validation or integrity finding with enough context
// (item id, field, offending value) to reproduce it.
type Issue struct {
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return i.Message
}

// Warningf builds a warning-severity issue.
func Warningf(format string, args ...any) Issue {
	return Issue{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an error-severity issue.
func Errorf(format string, args ...any) Issue {
	return Issue{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// SplitIssues partitions issues into error and warning message lists.
func SplitIssues(issues []Issue) (errors, warnings []string) {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			errors = append(errors, issue.Message)
		} else {
			warnings = append(warnings, issue.Message)
		}
	}
	return errors, warnings
}
