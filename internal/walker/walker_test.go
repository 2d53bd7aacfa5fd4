package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Report.PDF")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	files := Collect([]string{path})
	require.Len(t, files, 1)
	assert.Equal(t, path, files[0].Path)
	assert.Equal(t, "Report.PDF", files[0].Name)
	assert.Equal(t, "pdf", files[0].Extension)
	assert.Equal(t, int64(5), files[0].Size)
	assert.Equal(t, "document", files[0].Category)
}

func TestCollectDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "deeper"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.md"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "deeper", "c.json"), []byte("{}"), 0o644))

	files := Collect([]string{dir})
	assert.Len(t, files, 3)

	paths := make(map[string]bool)
	for _, f := range files {
		paths[f.Name] = true
	}
	assert.True(t, paths["a.txt"])
	assert.True(t, paths["b.md"])
	assert.True(t, paths["c.json"])
}

func TestCollectSkipsIgnoredDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "x.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("k"), 0o644))

	files := Collect([]string{dir})
	require.Len(t, files, 1)
	assert.Equal(t, "keep.txt", files[0].Name)
}

func TestCollectMissingRootIsSkipped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("r"), 0o644))

	files := Collect([]string{filepath.Join(dir, "ghost"), filepath.Join(dir, "real.txt")})
	require.Len(t, files, 1)
	assert.Equal(t, "real.txt", files[0].Name)
}

func TestCategoryForExtension(t *testing.T) {
	assert.Equal(t, "code", CategoryForExtension("go"))
	assert.Equal(t, "spreadsheet", CategoryForExtension("csv"))
	assert.Equal(t, "other", CategoryForExtension("zzz"))
	assert.Equal(t, "other", CategoryForExtension(""))
}
