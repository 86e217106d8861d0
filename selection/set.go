package selection

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Set is the resolved archive selection: explicit file entries, directory
// entries, the blacklist patterns that filtered them, and the full
// enumeration of files the request covers. All paths are stored
// slash-separated and relative to the root.
//
// A Set is immutable once built. Accessors return copies.
type Set struct {
	root     string
	files    []string
	dirs     []string
	excludes []string
	paths    []string
}

// Build resolves a selection under root.
//
// Entries in files and dirs may be absolute or root-relative; absolute
// entries must live under root. A dirs entry of "." (or the root itself)
// selects the whole tree. Directory walks drop any descendant file whose
// root-relative path matches a blacklist pattern and prune any matched
// subdirectory; the walk root itself is never pruned. Explicit file
// entries bypass the blacklist entirely.
//
// The enumeration returned by [Set.Paths] is deduplicated and
// lexicographically sorted, so identical inputs always produce an
// identical request regardless of processing order.
func Build(root string, files, dirs, excludes []string) (*Set, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("%w: root %q is not absolute", ErrInvalidPath, root)
	}
	root = filepath.Clean(root)

	relFiles, err := relativize(root, files)
	if err != nil {
		return nil, err
	}
	relDirs, err := relativize(root, dirs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var paths []string
	add := func(rel string) {
		if _, ok := seen[rel]; ok {
			return
		}
		seen[rel] = struct{}{}
		paths = append(paths, rel)
	}

	// Explicit files win over the blacklist.
	for _, f := range relFiles {
		add(f)
	}

	for _, d := range relDirs {
		if err := walkDir(root, d, excludes, add); err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)

	return &Set{
		root:     root,
		files:    relFiles,
		dirs:     relDirs,
		excludes: slices.Clone(excludes),
		paths:    paths,
	}, nil
}

// Root returns the absolute selection root.
func (s *Set) Root() string { return s.root }

// Files returns the explicit file entries, sorted and deduplicated.
func (s *Set) Files() []string { return slices.Clone(s.files) }

// Dirs returns the directory entries, sorted and deduplicated.
func (s *Set) Dirs() []string { return slices.Clone(s.dirs) }

// Excludes returns the blacklist patterns in caller order.
func (s *Set) Excludes() []string { return slices.Clone(s.excludes) }

// Paths returns the resolved enumeration: explicit files plus every
// non-blacklisted descendant file of the directory entries.
func (s *Set) Paths() []string { return slices.Clone(s.paths) }

// relativize normalizes entries to sorted, deduplicated, slash-separated
// root-relative form, validating containment.
func relativize(root string, entries []string) ([]string, error) {
	seen := make(map[string]struct{})
	rels := make([]string, 0, len(entries))
	for _, entry := range entries {
		rel, err := relativizeOne(root, entry)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[rel]; ok {
			continue
		}
		seen[rel] = struct{}{}
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	return rels, nil
}

func relativizeOne(root, entry string) (string, error) {
	if entry == "" {
		return "", fmt.Errorf("%w: empty entry", ErrInvalidPath)
	}
	if filepath.IsAbs(entry) {
		rel, err := filepath.Rel(root, filepath.Clean(entry))
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidPath, entry, err)
		}
		if escapes(rel) {
			return "", fmt.Errorf("%w: %q not under %q", ErrOutsideRoot, entry, root)
		}
		return filepath.ToSlash(rel), nil
	}
	rel := filepath.Clean(filepath.FromSlash(entry))
	if escapes(rel) {
		return "", fmt.Errorf("%w: %q escapes root", ErrInvalidPath, entry)
	}
	return filepath.ToSlash(rel), nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// walkDir enumerates non-blacklisted descendant files of dir. A matched
// subdirectory is pruned without descending; dir itself is exempt.
func walkDir(root, dir string, excludes []string, add func(string)) error {
	start := root
	if dir != "." {
		start = filepath.Join(root, filepath.FromSlash(dir))
	}
	return filepath.WalkDir(start, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walk %s: %w", dir, walkErr)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("walk %s: %w", dir, err)
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if path != start && MatchAny(excludes, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if MatchAny(excludes, rel) {
			return nil
		}
		add(rel)
		return nil
	})
}
