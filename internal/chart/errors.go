package chart

import "fmt"

// MalformedError aborts a chart load. A chart that would silently
// mis-render is worse than one that refuses to load.
type MalformedError struct {
	Field  string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed chart: %v: %v", e.Field, e.Reason)
}

func Malformed(field, format string, args ...interface{}) *MalformedError {
	return &MalformedError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
