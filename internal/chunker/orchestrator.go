package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Embedder is the batch text→vector boundary. One vector per input text in
// the same order; a per-item failure comes back as an empty vector, not an
// error.
type Embedder interface {
	Embed(texts []string) ([][]float32, error)
}

// ChunkEmbedding pairs a chunk with its embedding, ready for the vector
// store.
type ChunkEmbedding struct {
	Chunk     Chunk
	Embedding []float32
}

// Orchestrator maps a file to the first chunker that claims it and drives
// chunking plus batched embedding. It holds no shared mutable state, so
// constructing one per call site is cheap and safe for concurrent use.
type Orchestrator struct {
	chunkers []Chunker
	cfg      Config
}

// NewOrchestrator builds the default chunker set. Order matters: the first
// claimant wins, so specific formats come before the plain-text fallback.
func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		cfg: cfg,
		chunkers: []Chunker{
			JSONChunker{},
			DocxChunker{},
			PdfChunker{},
			MarkdownChunker{},
			TextChunker{},
		},
	}
}

// Extensions returns the set of extensions (without dot) any registered
// chunker handles.
func (o *Orchestrator) Extensions() map[string]bool {
	exts := make(map[string]bool)
	for _, c := range o.chunkers {
		for _, e := range c.Extensions() {
			exts[e] = true
		}
	}
	return exts
}

// ChunkFile chunks the file with the first claiming chunker, embeds all
// chunks in one batch, and returns the pairs. Chunks whose embedding came
// back empty are dropped. If no chunker claims the file the result is
// ErrUnsupported wrapped with the extension.
func (o *Orchestrator) ChunkFile(path string, size int64, emb Embedder) ([]ChunkEmbedding, error) {
	var chunker Chunker
	for _, c := range o.chunkers {
		if c.Claims(path) {
			chunker = c
			break
		}
	}
	if chunker == nil {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	chunks, err := chunker.Chunk(path, size, o.cfg)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	embeddings, err := emb.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", path, err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embed %s: expected %d embeddings, got %d", path, len(chunks), len(embeddings))
	}

	pairs := make([]ChunkEmbedding, 0, len(chunks))
	for i, c := range chunks {
		if len(embeddings[i]) == 0 {
			continue // the embedder signals per-item failure this way
		}
		pairs = append(pairs, ChunkEmbedding{Chunk: c, Embedding: embeddings[i]})
	}
	return pairs, nil
}
