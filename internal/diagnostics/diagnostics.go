// Package diagnostics carries positioned, coded errors from the assembler
// toolchain to the user.
package diagnostics

import "fmt"

// Error is a fatal diagnostic: an error code, the source position, and the
// offending token when one exists.
type Error struct {
	Code    string
	File    string
	Line    int
	Token   string
	Message string
}

// NewError creates a diagnostic for a source line. tok may be empty when no
// single token is at fault.
func NewError(code string, line int, tok, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Line:    line,
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	pos := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		pos = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Token != "" {
		return fmt.Sprintf("[%s] %s: %s: %q", e.Code, pos, e.Message, e.Token)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, pos, e.Message)
}
