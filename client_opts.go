package isoset

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/meigma/isoset/invoke"
	"github.com/meigma/isoset/registry"
)

// Option configures a Client.
type Option func(*Client) error

// WithBinary sets the backend binary path or name. Use [invoke.LookTool]
// to resolve and sanity-check an installed binary first.
func WithBinary(path string) Option {
	return func(c *Client) error {
		if path == "" {
			return fmt.Errorf("isoset: empty binary path")
		}
		c.bin = path
		return nil
	}
}

// WithRunner substitutes the process runner. Tests inject a fake runner
// here to avoid spawning the real binary.
func WithRunner(r invoke.Runner) Option {
	return func(c *Client) error {
		if r == nil {
			return fmt.Errorf("isoset: nil runner")
		}
		c.runner = r
		return nil
	}
}

// WithRegistry shares a registry between clients. By default each client
// gets a fresh private one.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Client) error {
		if r == nil {
			return fmt.Errorf("isoset: nil registry")
		}
		c.registry = r
		return nil
	}
}

// WithLogger sets the logger for invocation progress. Logging is off by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithTimeout bounds each individual invocation. A hung backend process
// is terminated at the deadline and reported as a timeout. Zero means no
// timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("isoset: negative timeout %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithParallelism bounds how many invocations one Archive call runs
// concurrently.
func WithParallelism(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			return fmt.Errorf("isoset: parallelism %d below 1", n)
		}
		c.parallelism = n
		return nil
	}
}
