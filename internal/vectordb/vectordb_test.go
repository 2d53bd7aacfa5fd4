package vectordb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 4

func openTestStore(t *testing.T) *SQLiteVectorStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vectors.db"), testDim)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id, path string, idx int, embedding []float32) EmbeddingRecord {
	return EmbeddingRecord{
		ID:          id,
		Text:        "chunk " + id,
		Path:        path,
		ChunkIndex:  idx,
		TotalChunks: 2,
		MimeType:    "text/plain",
		Embedding:   embedding,
	}
}

func TestReplaceAndSearch(t *testing.T) {
	s := openTestStore(t)

	err := s.ReplaceForPath("/docs/a.txt", []EmbeddingRecord{
		record("1_chunk_0", "/docs/a.txt", 0, []float32{1, 0, 0, 0}),
		record("1_chunk_1", "/docs/a.txt", 1, []float32{0, 1, 0, 0}),
	})
	require.NoError(t, err)

	results, err := s.Search([]float32{0.9, 0.1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1_chunk_0", results[0].ID)
	assert.Equal(t, "/docs/a.txt", results[0].Path)
	assert.Equal(t, "chunk 1_chunk_0", results[0].Text)
}

func TestReplaceForPathSwapsOldChunks(t *testing.T) {
	s := openTestStore(t)
	path := "/docs/a.txt"

	require.NoError(t, s.ReplaceForPath(path, []EmbeddingRecord{
		record("1_chunk_0", path, 0, []float32{1, 0, 0, 0}),
		record("1_chunk_1", path, 1, []float32{0, 1, 0, 0}),
	}))
	require.NoError(t, s.ReplaceForPath(path, []EmbeddingRecord{
		record("1_chunk_0", path, 0, []float32{0, 0, 1, 0}),
	}))

	results, err := s.Search([]float32{0, 0, 1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1_chunk_0", results[0].ID)
}

func TestDeleteByPath(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.ReplaceForPath("/docs/a.txt", []EmbeddingRecord{
		record("1_chunk_0", "/docs/a.txt", 0, []float32{1, 0, 0, 0}),
	}))
	require.NoError(t, s.ReplaceForPath("/docs/b.txt", []EmbeddingRecord{
		record("2_chunk_0", "/docs/b.txt", 0, []float32{0, 1, 0, 0}),
	}))

	require.NoError(t, s.DeleteByPath("/docs/a.txt"))

	results, err := s.Search([]float32{1, 0, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2_chunk_0", results[0].ID)

	// Deleting an unknown path is a no-op.
	require.NoError(t, s.DeleteByPath("/docs/missing.txt"))
}

func TestDimensionMismatch(t *testing.T) {
	s := openTestStore(t)

	err := s.ReplaceForPath("/docs/a.txt", []EmbeddingRecord{
		record("1_chunk_0", "/docs/a.txt", 0, []float32{1, 0}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensions")

	_, err = s.Search([]float32{1, 0}, 5)
	require.Error(t, err)
}
