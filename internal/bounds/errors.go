package bounds

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNilImpl is returned when no implementation is given.
var ErrNilImpl = errors.New("implementation is nil")

// SiteError pins a fatal engine error to the invocation that caused it.
type SiteError struct {
	Impl       string
	Function   string
	Invocation int
	Callee     string
	Site       string
	Err        error
}

// Error returns "impl X, fn f, call #i to g (site): cause".
func (e *SiteError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "impl %s, fn %s, call #%d to %s", e.Impl, e.Function, e.Invocation, e.Callee)

	if e.Site != "" {
		fmt.Fprintf(&sb, " (%s)", e.Site)
	}

	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())

	return sb.String()
}

// Unwrap returns the engine error.
func (e *SiteError) Unwrap() error {
	return e.Err
}

// Location returns the function and call identification without the cause.
func (e *SiteError) Location() string {
	loc := fmt.Sprintf("fn %s, call #%d to %s", e.Function, e.Invocation, e.Callee)
	if e.Site != "" {
		loc += " (" + e.Site + ")"
	}

	return loc
}
