package cmd

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spyglass/internal/index"
)

func openWatchTestIndexer(t *testing.T) *index.Indexer {
	t.Helper()
	dir := t.TempDir()
	idx, err := index.New(index.Config{
		DBPath:       filepath.Join(dir, "index.db"),
		VectorDBPath: filepath.Join(dir, "vectors.db"),
		OllamaURL:    "http://127.0.0.1:1", // unreachable; lexical indexing still runs
		EmbedModel:   "all-minilm",
		EmbedDim:     4,
		ChunkSize:    100,
		ChunkOverlap: 10,
		Concurrency:  2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestWatcherConfigReportsProgress(t *testing.T) {
	idx := openWatchTestIndexer(t)
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "note.txt"), []byte("some words"), 0o644))

	var mu sync.Mutex
	var statuses []index.ProcessingStatus
	cfg := watcherConfig(idx, func(s index.ProcessingStatus) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, s)
	})

	require.NotNil(t, cfg.Reindex)
	require.NotNil(t, cfg.Remove)
	assert.True(t, cfg.Extensions["txt"])

	cfg.Reindex([]string{docs})

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, statuses, "incremental runs must hit the progress sink")
	last := statuses[len(statuses)-1]
	assert.Equal(t, 1, last.Total)
	assert.Equal(t, 1, last.Processed)
	assert.Equal(t, 100, last.Percentage)
}
