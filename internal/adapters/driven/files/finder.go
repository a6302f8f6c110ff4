// Package files selects local recipe files for upload using doublestar patterns.
package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// Ensure Finder implements the interface.
var _ driven.FileFinder = (*Finder)(nil)

// Finder walks directories and keeps files matching the include patterns.
type Finder struct {
	includes []string
}

// NewFinder creates a finder. With no patterns every file is included.
func NewFinder(includes []string) *Finder {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Finder{includes: includes}
}

// Find expands the given paths into a sorted, de-duplicated list of files.
func (f *Finder) Find(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var found []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			found = append(found, path)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			if f.Matches(filepath.Base(abs)) {
				add(abs)
			}
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(abs, path)
			if err != nil {
				return err
			}
			if f.Matches(rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	sort.Strings(found)
	return found, nil
}

// Matches reports whether a path relative to a walk root is included.
func (f *Finder) Matches(path string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range f.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
