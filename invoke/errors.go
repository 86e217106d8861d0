package invoke

import (
	"errors"
	"fmt"
)

// ErrNoDigest is returned (wrapped in [*Error]) when the backend exits
// zero but the dump-hash output contains no usable digest.
var ErrNoDigest = errors.New("invoke: no digest in backend output")

// Error describes a failed backend invocation.
type Error struct {
	// ExitCode is the process exit code, or -1 if the process did not
	// run to completion.
	ExitCode int

	// StderrTail holds the last captured bytes of the process stderr.
	StderrTail string

	// Timeout reports whether the invocation was cut off by the
	// caller's deadline.
	Timeout bool

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("invoke: backend timed out: %v", e.Err)
	case e.StderrTail != "":
		return fmt.Sprintf("invoke: backend exited %d: %v: %s", e.ExitCode, e.Err, e.StderrTail)
	default:
		return fmt.Sprintf("invoke: backend exited %d: %v", e.ExitCode, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }
