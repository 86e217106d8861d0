package isoset

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/meigma/isoset/invoke"
	"github.com/meigma/isoset/registry"
)

// Defaults for client construction.
const (
	// DefaultBinary is the backend binary resolved on PATH when no
	// explicit path is configured.
	DefaultBinary = "isolate"

	// DefaultParallelism bounds concurrent invocations per Archive
	// call.
	DefaultParallelism = 4
)

// Client issues archive and download invocations against backend targets
// and records the resulting digests.
//
// A Client is safe for concurrent use. Construct one per pipeline run;
// its registry holds the run's digests and is discarded with it.
type Client struct {
	bin         string
	runner      invoke.Runner
	registry    *registry.Registry
	logger      *slog.Logger
	timeout     time.Duration
	parallelism int
}

// NewClient creates a client with the given options.
//
// By default the client runs the "isolate" binary from PATH with no
// per-invocation timeout and a fresh private registry.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		bin:         DefaultBinary,
		parallelism: DefaultParallelism,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.runner == nil {
		c.runner = &invoke.ExecRunner{}
	}
	if c.registry == nil {
		c.registry = registry.New()
	}
	return c, nil
}

// Registry returns the registry the client records archive results in.
func (c *Client) Registry() *registry.Registry { return c.registry }

// Lookup returns the first-recorded result for name.
func (c *Client) Lookup(name string) (ArchiveResult, error) {
	return c.registry.Lookup(name)
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}

// invokeCtx applies the per-invocation timeout, if configured.
func (c *Client) invokeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
