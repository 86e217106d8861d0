package isoset

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/meigma/isoset/invoke"
	"github.com/meigma/isoset/selection"
)

// TargetOutcome reports one target's share of an Archive call. Result is
// nil when Err is set.
type TargetOutcome struct {
	Target Target
	Result *ArchiveResult
	Step   Step
	Err    error
}

// Archive sends set to every target and records each successful digest
// under name.
//
// The selection is resolved before anything runs; caller-input errors
// surface without spawning a process. Per-target invocations run
// concurrently, bounded by the client's parallelism, and are reported
// independently: the returned slice holds one outcome per target in
// target order, and a failure against one backend never aborts the
// siblings. The returned error is non-nil only for caller errors that
// prevent the call as a whole.
func (c *Client) Archive(ctx context.Context, name string, set *selection.Set, targets ...Target) ([]TargetOutcome, error) {
	if name == "" {
		return nil, fmt.Errorf("isoset: empty archive name")
	}
	if set == nil {
		return nil, fmt.Errorf("%w: nil selection", ErrInvalidPath)
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	invs := Route(set, targets)
	outcomes := make([]TargetOutcome, len(invs))

	sem := semaphore.NewWeighted(int64(c.parallelism))
	var g errgroup.Group
	for i, inv := range invs {
		i, inv := i, inv
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = TargetOutcome{Target: inv.Target, Err: err}
			continue
		}
		g.Go(func() error {
			defer sem.Release(1)
			outcomes[i] = c.archiveOne(ctx, name, inv)
			return nil
		})
	}
	_ = g.Wait()

	for i := range outcomes {
		o := &outcomes[i]
		if o.Err != nil || o.Result == nil {
			continue
		}
		if err := c.registry.Record(name, *o.Result); err != nil {
			o.Err = err
		}
	}
	return outcomes, nil
}

// archiveOne runs a single invocation and shapes its outcome.
func (c *Client) archiveOne(ctx context.Context, name string, inv Invocation) TargetOutcome {
	ctx, cancel := c.invokeCtx(ctx)
	defer cancel()

	c.log().Info("archiving", "name", name, "target", inv.Target.String())
	out, err := invoke.Archive(ctx, c.runner, c.bin, inv.Target.Server, inv.Target.Namespace, inv.Set)

	step := Step{
		Name:  fmt.Sprintf("archive %s (%s)", name, inv.Target),
		Args:  append([]string{c.bin}, out.Args...),
		Infra: true,
	}
	if err != nil {
		c.log().Warn("archive failed",
			"name", name, "target", inv.Target.String(), "error", err)
		return TargetOutcome{Target: inv.Target, Step: step, Err: err}
	}

	link := inv.Target.BrowseURL(out.Digest)
	step.Links = []Link{{Label: name, URL: link}}
	c.log().Info("archived",
		"name", name, "target", inv.Target.String(), "digest", out.Digest)

	return TargetOutcome{
		Target: inv.Target,
		Result: &ArchiveResult{Name: name, Target: inv.Target, Digest: out.Digest, Link: link},
		Step:   step,
	}
}
