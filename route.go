package isoset

import (
	"github.com/meigma/isoset/invoke"
	"github.com/meigma/isoset/selection"
)

// Invocation pairs one backend target with the selection it will
// archive. Each invocation is independent: no retry, and no
// short-circuit across a routing call's siblings.
type Invocation struct {
	Target Target
	Set    *selection.Set
}

// Route expands one selection into an explicit invocation plan, one per
// target, preserving target order. The selection is resolved once and
// shared; targets never trigger a rebuild.
func Route(set *selection.Set, targets []Target) []Invocation {
	invs := make([]Invocation, 0, len(targets))
	for _, target := range targets {
		invs = append(invs, Invocation{Target: target, Set: set})
	}
	return invs
}

// Args returns the archive argv this invocation will run with, given the
// digest dump path.
func (inv Invocation) Args(dumpPath string) []string {
	return invoke.ArchiveArgs(inv.Target.Server, inv.Target.Namespace, inv.Set, dumpPath)
}
