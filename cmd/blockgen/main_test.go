package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("impl X {}\n"), 0644))
		paths = append(paths, path)
	}
	return paths
}

func TestExpandPatternsPlainPaths(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.rs", "b.rs")

	files, err := expandPatterns(paths)
	require.NoError(t, err)
	assert.Equal(t, paths, files)
}

func TestExpandPatternsGlob(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.rs", "sub/b.rs", "sub/deep/c.rs")

	files, err := expandPatterns([]string{filepath.Join(dir, "**", "*.rs")})
	require.NoError(t, err)
	assert.ElementsMatch(t, paths, files)
}

func TestExpandPatternsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.rs")

	files, err := expandPatterns([]string{paths[0], filepath.Join(dir, "*.rs")})
	require.NoError(t, err)
	assert.Equal(t, paths, files)
}

func TestExpandPatternsInvalid(t *testing.T) {
	_, err := expandPatterns([]string{"[unclosed"})
	assert.Error(t, err)
}
