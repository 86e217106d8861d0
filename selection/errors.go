package selection

import "errors"

// Sentinel errors for selection building.
var (
	// ErrInvalidPath is returned when a path is malformed or escapes the
	// root after normalization.
	ErrInvalidPath = errors.New("selection: invalid path")

	// ErrOutsideRoot is returned when an absolute entry does not live
	// under the selection root.
	ErrOutsideRoot = errors.New("selection: path outside root")
)
