package site

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newSiteDirs creates articles/, templates/ with fixed fragments and returns the
// options for a build into dist/
func newSiteDirs(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()

	opts := DefaultOptions()
	opts.SourceRoot = filepath.Join(root, "articles")
	opts.OutputRoot = filepath.Join(root, "dist")
	opts.TemplatesDir = filepath.Join(root, "templates")

	require.NoError(t, os.MkdirAll(opts.SourceRoot, 0755))
	writeFile(t, filepath.Join(opts.TemplatesDir, HeadTemplate), "<html><body>")
	writeFile(t, filepath.Join(opts.TemplatesDir, AdTemplate), "<div class=\"ad\"></div>")
	writeFile(t, filepath.Join(opts.TemplatesDir, FooterTemplate), "</body></html>")
	return opts
}

// snapshot returns every file under root keyed by slash separated relative path
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}
