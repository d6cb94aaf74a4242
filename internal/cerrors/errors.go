// Package cerrors implements the single error kind the canonical JSON codec
// raises: every failure, whatever its cause, is a *CanonicalError carrying a
// free-form message. Category (invalid format, out of range, structural,
// unsupported, ...) is expressed by the message text, not by distinct Go
// types or sentinel values.
package cerrors

import "fmt"

// CanonicalError is the only error type the codec returns.
type CanonicalError struct {
	msg string
}

func (e *CanonicalError) Error() string { return e.msg }

// New builds a CanonicalError from a format string and arguments, the same
// way fmt.Errorf does. If one of the arguments is already a *CanonicalError,
// its message is embedded without being re-wrapped a second time.
func New(format string, args ...interface{}) error {
	return &CanonicalError{msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches position context (e.g. a JSON decoder's line:column) to an
// existing error, producing a new CanonicalError.
func Wrap(line, column int, err error) error {
	return New("line %d:%d: %v", line, column, err)
}

// As reports whether err is a *CanonicalError and returns it.
func As(err error) (*CanonicalError, bool) {
	ce, ok := err.(*CanonicalError)
	return ce, ok
}
