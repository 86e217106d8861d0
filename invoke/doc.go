// Package invoke translates archive selections and digests into the
// external backend binary's argument contract and parses structured
// results back.
//
// Process execution goes through the narrow [Runner] interface so tests
// can substitute a deterministic fake for the real binary. The argument
// lists built here are stable: identical inputs always produce identical
// argv, which golden-output comparisons depend on.
package invoke
