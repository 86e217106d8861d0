package isoset

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/isoset/internal/isofake"
	"github.com/meigma/isoset/invoke"
)

var (
	mainTarget   = Target{Server: "https://iso.example.com", Namespace: "default-gzip"}
	mirrorTarget = Target{Server: "https://mirror.example.com", Namespace: "default-zstd"}
)

// writeTree creates the given relative files under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// readTree collects every regular file under dir, keyed by slash path.
func readTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	require.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	}))
	return files
}

func newFakeClient(t *testing.T, runner *isofake.Runner, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(append([]Option{WithRunner(runner), WithBinary("isolate")}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	content := map[string]string{
		"a":         "alpha",
		"b":         "beta",
		"sub/dir/e": "epsilon",
	}
	writeTree(t, root, content)

	set, err := BuildSet(root, nil, []string{"."}, nil)
	require.NoError(t, err)

	runner := isofake.NewRunner(nil)
	c := newFakeClient(t, runner, WithParallelism(2))

	outcomes, err := c.Archive(context.Background(), "tests", set, mainTarget, mirrorTarget)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	for _, o := range outcomes {
		require.NoError(t, o.Err)
		require.NotNil(t, o.Result)
		assert.NotEmpty(t, o.Result.Digest)
		assert.Equal(t, o.Target.BrowseURL(o.Result.Digest), o.Result.Link)
	}
	// Independent digests: the zstd namespace stores different bytes.
	assert.NotEqual(t, outcomes[0].Result.Digest, outcomes[1].Result.Digest)

	// Download from each target into a fresh directory and compare
	// content, not path identity.
	for _, o := range outcomes {
		dest := t.TempDir()
		_, err := c.Download(context.Background(), DownloadRequest{
			Target:    o.Target,
			Digest:    o.Result.Digest,
			OutputDir: dest,
		})
		require.NoError(t, err)
		assert.Equal(t, content, readTree(t, dest))
	}
}

func TestArchiveRecordsInRegistry(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"f": "data"})
	set, err := BuildSet(root, nil, []string{"."}, nil)
	require.NoError(t, err)

	c := newFakeClient(t, isofake.NewRunner(nil))
	outcomes, err := c.Archive(context.Background(), "tests", set, mainTarget, mirrorTarget)
	require.NoError(t, err)

	res, err := c.Lookup("tests")
	require.NoError(t, err)
	assert.Equal(t, mainTarget, res.Target)
	assert.Equal(t, outcomes[0].Result.Digest, res.Digest)

	all, err := c.Registry().Results("tests")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestArchivePartialFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"f": "data"})
	set, err := BuildSet(root, nil, []string{"."}, nil)
	require.NoError(t, err)

	down := Target{Server: "https://down.example.com", Namespace: "default-gzip"}
	runner := isofake.NewRunner(nil)
	runner.FailServer(down.Server, "server on fire")

	c := newFakeClient(t, runner)
	outcomes, err := c.Archive(context.Background(), "tests", set, down, mainTarget)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	var invErr *invoke.Error
	require.ErrorAs(t, outcomes[0].Err, &invErr)
	assert.Equal(t, 1, invErr.ExitCode)
	assert.Equal(t, "server on fire", invErr.StderrTail)
	assert.Nil(t, outcomes[0].Result)

	// The sibling target still succeeded and was recorded.
	require.NoError(t, outcomes[1].Err)
	_, err = c.Registry().LookupTarget("tests", mainTarget)
	require.NoError(t, err)
	_, err = c.Registry().LookupTarget("tests", down)
	require.ErrorIs(t, err, ErrUnknownArchive)
}

func TestArchiveDuplicateName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"f": "data"})
	set, err := BuildSet(root, nil, []string{"."}, nil)
	require.NoError(t, err)

	c := newFakeClient(t, isofake.NewRunner(nil))

	_, err = c.Archive(context.Background(), "tests", set, mainTarget)
	require.NoError(t, err)

	outcomes, err := c.Archive(context.Background(), "tests", set, mainTarget)
	require.NoError(t, err)
	require.ErrorIs(t, outcomes[0].Err, ErrDuplicateArchive)
}

func TestArchiveCallerErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"f": "data"})
	set, err := BuildSet(root, nil, []string{"."}, nil)
	require.NoError(t, err)

	runner := isofake.NewRunner(nil)
	c := newFakeClient(t, runner)

	_, err = c.Archive(context.Background(), "tests", set)
	require.ErrorIs(t, err, ErrNoTargets)

	_, err = c.Archive(context.Background(), "tests", nil, mainTarget)
	require.ErrorIs(t, err, ErrInvalidPath)

	_, err = c.Archive(context.Background(), "", set, mainTarget)
	require.Error(t, err)

	// Fail-fast means no process was ever spawned.
	assert.Empty(t, runner.Calls())
}

func TestArchiveStepReporting(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"f": "data"})
	set, err := BuildSet(root, []string{"f"}, nil, []string{"*.pyc"})
	require.NoError(t, err)

	c := newFakeClient(t, isofake.NewRunner(nil))
	outcomes, err := c.Archive(context.Background(), "tests", set, mainTarget)
	require.NoError(t, err)

	step := outcomes[0].Step
	assert.Equal(t, "archive tests (https://iso.example.com/default-gzip)", step.Name)
	assert.True(t, step.Infra)

	require.GreaterOrEqual(t, len(step.Args), 8)
	assert.Equal(t, "isolate", step.Args[0])
	assert.Equal(t, "archive", step.Args[1])
	assert.Equal(t, "-verbose", step.Args[2])
	assert.Contains(t, step.Args, "-files")
	assert.Contains(t, step.Args, root+":f")
	assert.Contains(t, step.Args, "-blacklist")
	assert.Contains(t, step.Args, "*.pyc")

	require.Len(t, step.Links, 1)
	assert.Equal(t, "tests", step.Links[0].Label)
	assert.Equal(t, outcomes[0].Result.Link, step.Links[0].URL)
}

func TestRoute(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"f": "data"})
	set, err := BuildSet(root, nil, []string{"."}, nil)
	require.NoError(t, err)

	invs := Route(set, []Target{mainTarget, mirrorTarget})
	require.Len(t, invs, 2)
	assert.Equal(t, mainTarget, invs[0].Target)
	assert.Equal(t, mirrorTarget, invs[1].Target)
	assert.Same(t, set, invs[0].Set)

	args := invs[0].Args("/tmp/dump")
	assert.Equal(t, "archive", args[0])
	assert.Contains(t, args, mainTarget.Server)
}
