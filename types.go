package isoset

import (
	"github.com/meigma/isoset/registry"
	"github.com/meigma/isoset/selection"
)

// --- Re-exports from registry ---

// Target identifies a backend server and content namespace. Two Targets
// are distinct even if only the namespace differs.
type Target = registry.Target

// ArchiveResult holds the outcome of one archive invocation against one
// target: the opaque content digest and its browsable link.
type ArchiveResult = registry.Result

// --- Re-exports from selection ---

// Set is the resolved archive selection.
type Set = selection.Set

// BuildSet resolves a selection under root: explicit files, directory
// entries, minus blacklist pattern matches.
var BuildSet = selection.Build

// Match reports whether a root-relative path matches a blacklist pattern.
var Match = selection.Match
