// Package registry keeps the digests produced by archive invocations for
// the duration of a pipeline run, keyed by a caller-chosen logical name
// and the backend target the digest came from.
//
// A Registry is an explicitly constructed value with caller-controlled
// lifetime; there is no process-wide instance. Nothing is persisted
// across runs.
package registry

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
)

// Sentinel errors for registry operations.
var (
	// ErrUnknownArchive is returned when looking up a name that was
	// never recorded. This is a caller programming error, not a
	// transient condition.
	ErrUnknownArchive = errors.New("registry: unknown archive")

	// ErrDuplicateArchive is returned when recording a second result
	// for the same (name, target) pair.
	ErrDuplicateArchive = errors.New("registry: duplicate archive")
)

// Target identifies a backend server and content namespace. Two Targets
// are distinct even if only the namespace differs.
type Target struct {
	// Server is the backend address, e.g. "https://isolate.example.com".
	Server string

	// Namespace is the backend-side content partition, e.g.
	// "default-gzip".
	Namespace string
}

func (t Target) String() string {
	return t.Server + "/" + t.Namespace
}

// BrowseURL returns the human-browsable link for a digest on this target.
func (t Target) BrowseURL(digest string) string {
	return fmt.Sprintf("%s/browse?namespace=%s&hash=%s",
		t.Server, url.QueryEscape(t.Namespace), url.QueryEscape(digest))
}

// Result holds the outcome of one archive invocation against one target.
type Result struct {
	// Name is the logical label the archive was recorded under.
	Name string

	// Target is the backend the content was archived to.
	Target Target

	// Digest is the opaque content identifier returned by the backend.
	Digest string

	// Link is the browsable UI link for the digest.
	Link string
}

// Registry stores one Result per (name, target) pair. It is safe for
// concurrent use.
type Registry struct {
	mu sync.Mutex

	// results preserves record order per name, so Lookup on a
	// single-target name is deterministic.
	results map[string][]Result
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{results: make(map[string][]Result)}
}

// Record stores res under name. Recording the same (name, target) twice
// fails fast with ErrDuplicateArchive rather than silently overwriting.
func (r *Registry) Record(name string, res Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.results[name] {
		if existing.Target == res.Target {
			return fmt.Errorf("%w: %q already recorded for %s",
				ErrDuplicateArchive, name, res.Target)
		}
	}
	res.Name = name
	r.results[name] = append(r.results[name], res)
	return nil
}

// Lookup returns the first-recorded result for name. Use
// [Registry.LookupTarget] or [Registry.Results] when the same name was
// archived to several targets.
func (r *Registry) Lookup(name string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := r.results[name]
	if len(results) == 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownArchive, name)
	}
	return results[0], nil
}

// LookupTarget returns the result recorded for (name, target).
func (r *Registry) LookupTarget(name string, target Target) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range r.results[name] {
		if res.Target == target {
			return res, nil
		}
	}
	return Result{}, fmt.Errorf("%w: %q on %s", ErrUnknownArchive, name, target)
}

// Results returns all results recorded under name, in record order.
func (r *Registry) Results(name string) ([]Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := r.results[name]
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchive, name)
	}
	out := make([]Result, len(results))
	copy(out, results)
	return out, nil
}
