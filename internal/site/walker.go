package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindArticles lists every regular file under root whose name ends in suffix.
//
// Traversal uses an explicit stack instead of recursion. Entries come back in
// pre-order: each directory's entries in os.ReadDir order, with a subdirectory's
// contents appearing where the subdirectory sits in its parent's listing.
// Symlinks are resolved with os.Stat
func FindArticles(root, suffix string) ([]string, error) {
	if err := CheckSourceRoot(root); err != nil {
		return nil, err
	}

	var articles []string
	stack := []string{root}
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			if info.Mode().IsRegular() && strings.HasSuffix(info.Name(), suffix) {
				articles = append(articles, path)
			}
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		// Push in reverse so the first listed entry is popped first
		for i := len(entries) - 1; i >= 0; i-- {
			stack = append(stack, filepath.Join(path, entries[i].Name()))
		}
	}

	return articles, nil
}

// CheckSourceRoot returns an error wrapping ErrSourceRootMissing unless root is an
// existing directory
func CheckSourceRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrSourceRootMissing, root, err)
		}
		return fmt.Errorf("stat source root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceRootMissing, root)
	}
	return nil
}
