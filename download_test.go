package isoset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/isoset/internal/isofake"
	"github.com/meigma/isoset/invoke"
)

func TestDownloadArchiveByName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	content := map[string]string{"a": "alpha", "sub/b": "beta"}
	writeTree(t, root, content)
	set, err := BuildSet(root, nil, []string{"."}, nil)
	require.NoError(t, err)

	c := newFakeClient(t, isofake.NewRunner(nil))
	_, err = c.Archive(context.Background(), "tests", set, mainTarget)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out")
	step, err := c.DownloadArchive(context.Background(), "tests", dest)
	require.NoError(t, err)

	assert.Equal(t, content, readTree(t, dest))
	assert.True(t, step.Infra)
	assert.Equal(t, "isolate", step.Args[0])
	assert.Equal(t, "download", step.Args[1])
}

func TestDownloadArchiveUnknownName(t *testing.T) {
	t.Parallel()

	c := newFakeClient(t, isofake.NewRunner(nil))
	_, err := c.DownloadArchive(context.Background(), "never-archived", t.TempDir())
	require.ErrorIs(t, err, ErrUnknownArchive)
}

func TestDownloadUnknownDigest(t *testing.T) {
	t.Parallel()

	c := newFakeClient(t, isofake.NewRunner(nil))
	step, err := c.Download(context.Background(), DownloadRequest{
		Target:    mainTarget,
		Digest:    "sha256:doesnotexist",
		OutputDir: t.TempDir(),
	})

	var invErr *invoke.Error
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, 1, invErr.ExitCode)
	assert.Contains(t, invErr.StderrTail, "unknown isolated")
	// The step still describes what was attempted.
	assert.Equal(t, "download", step.Args[1])
}
