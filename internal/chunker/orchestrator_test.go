package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors in order, one per input text.
type stubEmbedder struct {
	vectors [][]float32
	texts   []string
}

func (s *stubEmbedder) Embed(texts []string) ([][]float32, error) {
	s.texts = texts
	if s.vectors != nil {
		return s.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{float32(i), 1}
	}
	return out, nil
}

func TestOrchestratorUnsupportedExtension(t *testing.T) {
	o := NewOrchestrator(DefaultConfig())
	path := writeTemp(t, "photo.exe", "\x00\x01\x02\x03")

	_, err := o.ChunkFile(path, 4, &stubEmbedder{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), `"exe"`)
}

func TestOrchestratorDispatchesByExtension(t *testing.T) {
	o := NewOrchestrator(DefaultConfig())
	emb := &stubEmbedder{}
	path := writeTemp(t, "data.json", `{"a":1}`)

	pairs, err := o.ChunkFile(path, 7, emb)
	require.NoError(t, err)

	require.Len(t, pairs, 1)
	assert.Equal(t, jsonMime, pairs[0].Chunk.MimeType)
	assert.Len(t, emb.texts, 1)
	assert.Equal(t, []float32{0, 1}, pairs[0].Embedding)
}

func TestOrchestratorEmptyFileProducesNothing(t *testing.T) {
	o := NewOrchestrator(DefaultConfig())
	path := writeTemp(t, "empty.txt", "")

	pairs, err := o.ChunkFile(path, 0, &stubEmbedder{})
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestOrchestratorDropsEmptyEmbeddings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 2
	cfg.ChunkOverlap = 0
	o := NewOrchestrator(cfg)
	emb := &stubEmbedder{vectors: [][]float32{{1, 2}, {}}}
	path := writeTemp(t, "doc.txt", "one two three four")

	pairs, err := o.ChunkFile(path, 18, emb)
	require.NoError(t, err)

	require.Len(t, pairs, 1)
	assert.Equal(t, "one two", pairs[0].Chunk.Content)
}

func TestOrchestratorEmbeddingCountMismatch(t *testing.T) {
	o := NewOrchestrator(DefaultConfig())
	emb := &stubEmbedder{vectors: [][]float32{{1}, {2}}}
	path := writeTemp(t, "short.txt", "just a few words")

	_, err := o.ChunkFile(path, 16, emb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 embeddings")
}

func TestOrchestratorExtensions(t *testing.T) {
	exts := NewOrchestrator(DefaultConfig()).Extensions()

	for _, e := range []string{"txt", "md", "json", "pdf", "docx"} {
		assert.True(t, exts[e], e)
	}
	assert.False(t, exts["exe"])
}
