package isoset

import (
	"errors"

	"github.com/meigma/isoset/invoke"
	"github.com/meigma/isoset/registry"
	"github.com/meigma/isoset/selection"
)

// ErrNoTargets is returned when an archive call names no backend targets.
var ErrNoTargets = errors.New("isoset: no targets")

// Errors re-exported from selection.
var (
	// ErrInvalidPath is returned when a selection path is malformed or
	// escapes the root after normalization.
	ErrInvalidPath = selection.ErrInvalidPath

	// ErrOutsideRoot is returned when a selection entry does not live
	// under the root.
	ErrOutsideRoot = selection.ErrOutsideRoot
)

// Errors re-exported from registry.
var (
	// ErrUnknownArchive is returned when looking up a name that was
	// never recorded.
	ErrUnknownArchive = registry.ErrUnknownArchive

	// ErrDuplicateArchive is returned when recording a second result
	// for the same (name, target) pair.
	ErrDuplicateArchive = registry.ErrDuplicateArchive
)

// ErrNoDigest is returned (wrapped in [*invoke.Error]) when the backend
// exits zero but reports no usable digest.
var ErrNoDigest = invoke.ErrNoDigest
