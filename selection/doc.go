// Package selection resolves which local files belong in an archive
// request: explicit file and directory entries relative to a single root,
// minus glob-style blacklist patterns applied during directory walks.
//
// The package is pure path and filesystem-read logic. It never talks to
// the backend; building a [Set] is the fail-fast step that validates all
// caller input before any external process is spawned.
package selection
