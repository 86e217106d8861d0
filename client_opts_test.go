package isoset

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/isoset/internal/isofake"
	"github.com/meigma/isoset/registry"
)

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	c, err := NewClient()
	require.NoError(t, err)
	assert.Equal(t, DefaultBinary, c.bin)
	assert.Equal(t, DefaultParallelism, c.parallelism)
	assert.NotNil(t, c.runner)
	assert.NotNil(t, c.Registry())
	assert.Zero(t, c.timeout)
}

func TestClientOptions(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	runner := isofake.NewRunner(nil)
	c, err := NewClient(
		WithBinary("/opt/isolate/isolate"),
		WithRunner(runner),
		WithRegistry(reg),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithTimeout(time.Minute),
		WithParallelism(8),
	)
	require.NoError(t, err)
	assert.Equal(t, "/opt/isolate/isolate", c.bin)
	assert.Same(t, reg, c.Registry())
	assert.Equal(t, time.Minute, c.timeout)
	assert.Equal(t, 8, c.parallelism)
}

func TestClientOptionValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(WithBinary(""))
	require.Error(t, err)

	_, err = NewClient(WithRunner(nil))
	require.Error(t, err)

	_, err = NewClient(WithRegistry(nil))
	require.Error(t, err)

	_, err = NewClient(WithTimeout(-time.Second))
	require.Error(t, err)

	_, err = NewClient(WithParallelism(0))
	require.Error(t, err)
}

func TestSharedRegistryAcrossClients(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	first, err := NewClient(WithRunner(isofake.NewRunner(nil)), WithRegistry(reg))
	require.NoError(t, err)
	second, err := NewClient(WithRunner(isofake.NewRunner(nil)), WithRegistry(reg))
	require.NoError(t, err)

	require.NoError(t, reg.Record("built", registry.Result{Target: mainTarget, Digest: "d/1"}))

	got, err := first.Lookup("built")
	require.NoError(t, err)
	assert.Equal(t, "d/1", got.Digest)
	got, err = second.Lookup("built")
	require.NoError(t, err)
	assert.Equal(t, "d/1", got.Digest)
}
