package isoset

import (
	"context"

	"github.com/meigma/isoset/invoke"
)

// DownloadRequest names a digest to retrieve and where to put it. It is
// stateless; nothing is retained after execution.
type DownloadRequest struct {
	Target    Target
	Digest    string
	OutputDir string
}

// Download retrieves req.Digest from req.Target into req.OutputDir,
// creating the directory if absent. The returned Step describes the
// invocation for the caller's reporting layer even on failure.
func (c *Client) Download(ctx context.Context, req DownloadRequest) (Step, error) {
	ctx, cancel := c.invokeCtx(ctx)
	defer cancel()

	c.log().Info("downloading",
		"digest", req.Digest, "target", req.Target.String(), "dir", req.OutputDir)
	args, err := invoke.Download(ctx, c.runner, c.bin,
		req.Target.Server, req.Target.Namespace, req.Digest, req.OutputDir)

	step := Step{
		Name:  "download " + req.Digest,
		Args:  append([]string{c.bin}, args...),
		Infra: true,
	}
	if err != nil {
		c.log().Warn("download failed",
			"digest", req.Digest, "target", req.Target.String(), "error", err)
		return step, err
	}
	return step, nil
}

// DownloadArchive retrieves a previously recorded archive by its logical
// name, from the target it was first recorded against.
func (c *Client) DownloadArchive(ctx context.Context, name, outputDir string) (Step, error) {
	res, err := c.registry.Lookup(name)
	if err != nil {
		return Step{}, err
	}
	return c.Download(ctx, DownloadRequest{
		Target:    res.Target,
		Digest:    res.Digest,
		OutputDir: outputDir,
	})
}
