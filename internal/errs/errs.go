// Package errs defines the single error kind the codec raises for every
// decode or encode failure.
package errs

import "fmt"

// CodecError is the one error kind the codec ever returns for a malformed
// input or an unrepresentable value. It carries a human-readable message;
// where a tag byte triggered the failure, the message names it.
//
// Hook failures are the one exception: a panic or error returned by a
// caller-supplied hook surfaces as-is, unwrapped, so the caller sees
// exactly what their hook produced.
type CodecError struct {
	Msg string
}

func (e *CodecError) Error() string { return e.Msg }

// New builds a CodecError from a formatted message.
func New(format string, args ...any) *CodecError {
	return &CodecError{Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a CodecError that includes the text of an underlying error.
// The underlying error is not preserved for errors.Is/As purposes: per the
// codec's error model there is exactly one kind of error, so there is
// nothing useful to unwrap into.
func Wrap(context string, err error) *CodecError {
	return &CodecError{Msg: fmt.Sprintf("%s: %v", context, err)}
}
