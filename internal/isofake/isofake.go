// Package isofake provides an in-process stand-in for the external
// archiver binary, for deterministic tests.
//
// The fake honors the real argument contract: it resolves -files/-dirs
// entries against their root, applies -blacklist patterns, stores the
// content addressed by a real digest, and reproduces it on download.
// Namespaces ending in "-zstd" store content compressed, mirroring how
// backend namespaces encode compression conventions. The stored payload
// layout is private to this package; the real wire format belongs to the
// external binary.
package isofake

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"

	"github.com/meigma/isoset/invoke"
	"github.com/meigma/isoset/selection"
)

// Store is a content-addressed blob store shared by fake runners,
// partitioned by (server, namespace) like the real backend.
type Store struct {
	mu    sync.Mutex
	blobs map[blobKey]map[string][]byte
}

type blobKey struct {
	server    string
	namespace string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{blobs: make(map[blobKey]map[string][]byte)}
}

func (s *Store) put(key blobKey, dig string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blobs[key] == nil {
		s.blobs[key] = make(map[string][]byte)
	}
	s.blobs[key][dig] = payload
}

func (s *Store) get(key blobKey, dig string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.blobs[key][dig]
	return payload, ok
}

// Runner is an [invoke.Runner] that executes archive and download
// invocations against a Store instead of spawning a process.
type Runner struct {
	store *Store

	mu       sync.Mutex
	failures map[string]string
	calls    [][]string
}

// NewRunner creates a runner backed by store. A nil store gets a fresh
// private one.
func NewRunner(store *Store) *Runner {
	if store == nil {
		store = NewStore()
	}
	return &Runner{store: store, failures: make(map[string]string)}
}

// FailServer makes every invocation against server fail with exit code 1
// and the given stderr text.
func (r *Runner) FailServer(server, stderr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[server] = stderr
}

// Calls returns the argv of every invocation run so far, in order.
func (r *Runner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Run dispatches on the backend subcommand.
func (r *Runner) Run(ctx context.Context, bin string, args []string) (invoke.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return invoke.RunResult{ExitCode: -1}, err
	}
	if len(args) == 0 {
		return fail("missing subcommand")
	}

	r.mu.Lock()
	r.calls = append(r.calls, append([]string(nil), args...))
	r.mu.Unlock()

	parsed := parseArgs(args[1:])
	if stderr, ok := r.failureFor(parsed.flags["-isolate-server"]); ok {
		return fail(stderr)
	}

	switch args[0] {
	case "archive":
		return r.archive(parsed)
	case "download":
		return r.download(parsed)
	default:
		return fail(fmt.Sprintf("unknown subcommand %q", args[0]))
	}
}

func (r *Runner) failureFor(server string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stderr, ok := r.failures[server]
	return stderr, ok
}

func (r *Runner) archive(parsed parsedArgs) (invoke.RunResult, error) {
	key := blobKey{
		server:    parsed.flags["-isolate-server"],
		namespace: parsed.flags["-namespace"],
	}
	dumpPath := parsed.flags["-dump-hash"]
	if key.server == "" || dumpPath == "" {
		return fail("archive: missing -isolate-server or -dump-hash")
	}

	root, files, err := splitEntries(parsed.multi["-files"])
	if err != nil {
		return fail(err.Error())
	}
	dirRoot, dirs, err := splitEntries(parsed.multi["-dirs"])
	if err != nil {
		return fail(err.Error())
	}
	if root == "" {
		root = dirRoot
	}
	if dirRoot != "" && dirRoot != root {
		return fail("archive: entries span multiple roots")
	}

	set, err := selection.Build(root, files, dirs, parsed.multi["-blacklist"])
	if err != nil {
		return fail(err.Error())
	}

	contents := make(map[string][]byte)
	for _, rel := range set.Paths() {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return fail(err.Error())
		}
		contents[rel] = data
	}

	payload, err := encodePayload(contents, key.namespace)
	if err != nil {
		return fail(err.Error())
	}

	dig := digest.FromBytes(payload).String()
	r.store.put(key, dig, payload)

	if err := os.WriteFile(dumpPath, []byte(dig+"\n"), 0o644); err != nil {
		return fail(err.Error())
	}
	return invoke.RunResult{ExitCode: 0}, nil
}

func (r *Runner) download(parsed parsedArgs) (invoke.RunResult, error) {
	key := blobKey{
		server:    parsed.flags["-isolate-server"],
		namespace: parsed.flags["-namespace"],
	}
	dig := parsed.flags["-isolated"]
	outDir := parsed.flags["-output-dir"]
	if dig == "" || outDir == "" {
		return fail("download: missing -isolated or -output-dir")
	}

	payload, ok := r.store.get(key, dig)
	if !ok {
		return fail(fmt.Sprintf("download: unknown isolated %q on %s/%s", dig, key.server, key.namespace))
	}

	contents, err := decodePayload(payload, key.namespace)
	if err != nil {
		return fail(err.Error())
	}

	for rel, data := range contents {
		path := filepath.Join(outDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fail(err.Error())
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fail(err.Error())
		}
	}
	return invoke.RunResult{ExitCode: 0}, nil
}

func fail(stderr string) (invoke.RunResult, error) {
	return invoke.RunResult{ExitCode: 1, StderrTail: stderr}, errors.New("exit status 1")
}

type parsedArgs struct {
	flags map[string]string
	multi map[string][]string
}

func parseArgs(args []string) parsedArgs {
	parsed := parsedArgs{
		flags: make(map[string]string),
		multi: make(map[string][]string),
	}
	for i := 0; i < len(args); i++ {
		switch flag := args[i]; flag {
		case "-verbose":
		case "-files", "-dirs", "-blacklist":
			if i+1 < len(args) {
				parsed.multi[flag] = append(parsed.multi[flag], args[i+1])
				i++
			}
		default:
			if i+1 < len(args) {
				parsed.flags[flag] = args[i+1]
				i++
			}
		}
	}
	return parsed
}

// splitEntries splits "root:rel" entries, requiring a single shared root.
func splitEntries(entries []string) (root string, rels []string, err error) {
	for _, entry := range entries {
		sep := strings.LastIndex(entry, ":")
		if sep <= 0 || sep == len(entry)-1 {
			return "", nil, fmt.Errorf("malformed entry %q", entry)
		}
		entryRoot, rel := entry[:sep], entry[sep+1:]
		if root == "" {
			root = entryRoot
		} else if entryRoot != root {
			return "", nil, fmt.Errorf("entries span multiple roots: %q and %q", root, entryRoot)
		}
		rels = append(rels, rel)
	}
	return root, rels, nil
}

// fileEntry is the stored form of one archived file. Entries are encoded
// path-sorted so identical content always yields identical payload bytes,
// and therefore an identical digest.
type fileEntry struct {
	Path string
	Data []byte
}

func encodePayload(contents map[string][]byte, namespace string) ([]byte, error) {
	entries := make([]fileEntry, 0, len(contents))
	for path, data := range contents {
		entries = append(entries, fileEntry{Path: path, Data: data})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return nil, err
	}
	if !compressedNamespace(namespace) {
		return buf.Bytes(), nil
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(buf.Bytes(), nil), nil
}

func decodePayload(payload []byte, namespace string) (map[string][]byte, error) {
	if compressedNamespace(namespace) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		payload, err = dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, err
		}
	}
	var entries []fileEntry
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&entries); err != nil {
		return nil, err
	}
	contents := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		contents[entry.Path] = entry.Data
	}
	return contents, nil
}

func compressedNamespace(namespace string) bool {
	return strings.HasSuffix(namespace, "-zstd")
}
