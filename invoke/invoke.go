package invoke

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meigma/isoset/selection"
)

// ArchiveArgs builds the backend argv for archiving set to the given
// server and namespace, with the resulting digest written to dumpPath.
//
// Flag order is part of the contract:
//
//	archive -verbose -isolate-server <addr> -namespace <ns> -dump-hash <path>
//	        [-files <root>:<rel>]* [-dirs <root>:<rel>]* [-blacklist <pattern>]*
//
// File and directory entries come out of the Set sorted; blacklist
// patterns keep the caller's order.
func ArchiveArgs(server, namespace string, set *selection.Set, dumpPath string) []string {
	args := []string{
		"archive",
		"-verbose",
		"-isolate-server", server,
		"-namespace", namespace,
		"-dump-hash", dumpPath,
	}
	root := set.Root()
	for _, f := range set.Files() {
		args = append(args, "-files", root+":"+f)
	}
	for _, d := range set.Dirs() {
		args = append(args, "-dirs", root+":"+d)
	}
	for _, pattern := range set.Excludes() {
		args = append(args, "-blacklist", pattern)
	}
	return args
}

// DownloadArgs builds the backend argv for retrieving digest into outDir:
//
//	download -verbose -isolate-server <addr> -namespace <ns>
//	         -isolated <digest> -output-dir <dir>
func DownloadArgs(server, namespace, digest, outDir string) []string {
	return []string{
		"download",
		"-verbose",
		"-isolate-server", server,
		"-namespace", namespace,
		"-isolated", digest,
		"-output-dir", outDir,
	}
}

// ArchiveOutput is the parsed result of one archive invocation.
type ArchiveOutput struct {
	// Digest is the opaque content identifier reported by the backend.
	Digest string

	// Args is the full argv the invocation ran with, for step
	// reporting.
	Args []string
}

// Archive runs one archive invocation for set against the given server
// and namespace, and parses the resulting digest out of the dump file.
// Failures are reported as [*Error].
func Archive(ctx context.Context, r Runner, bin, server, namespace string, set *selection.Set) (ArchiveOutput, error) {
	dumpDir, err := os.MkdirTemp("", "isoset-dump-")
	if err != nil {
		return ArchiveOutput{}, fmt.Errorf("create dump dir: %w", err)
	}
	defer os.RemoveAll(dumpDir)
	dumpPath := filepath.Join(dumpDir, "hash")

	args := ArchiveArgs(server, namespace, set, dumpPath)
	out := ArchiveOutput{Args: args}

	res, err := r.Run(ctx, bin, args)
	if err != nil {
		return out, newError(ctx, res, err)
	}

	digest, err := readDumpedDigest(dumpPath)
	if err != nil {
		return out, &Error{ExitCode: res.ExitCode, StderrTail: res.StderrTail, Err: err}
	}
	out.Digest = digest
	return out, nil
}

// Download runs one download invocation, creating outDir if absent. It
// returns the argv it ran with for step reporting.
func Download(ctx context.Context, r Runner, bin, server, namespace, digest, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	args := DownloadArgs(server, namespace, digest, outDir)
	res, err := r.Run(ctx, bin, args)
	if err != nil {
		return args, newError(ctx, res, err)
	}
	return args, nil
}

// readDumpedDigest reads and validates the digest the backend wrote to
// the dump file. The digest is opaque; the only requirement is a single
// non-empty token.
func readDumpedDigest(dumpPath string) (string, error) {
	raw, err := os.ReadFile(dumpPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDigest, err)
	}
	digest := strings.TrimSpace(string(raw))
	if digest == "" || strings.ContainsAny(digest, " \t\n") {
		return "", fmt.Errorf("%w: %q", ErrNoDigest, digest)
	}
	return digest, nil
}

func newError(ctx context.Context, res RunResult, err error) *Error {
	return &Error{
		ExitCode:   res.ExitCode,
		StderrTail: res.StderrTail,
		Timeout:    errors.Is(ctx.Err(), context.DeadlineExceeded),
		Err:        err,
	}
}
