package index

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"spyglass/internal/chunker"
	"spyglass/internal/embedder"
	"spyglass/internal/store"
	"spyglass/internal/vectordb"
)

// Config holds the indexer configuration.
type Config struct {
	DBPath       string
	VectorDBPath string
	OllamaURL    string
	EmbedModel   string
	EmbedDim     int
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
}

// SearchHit is one file surfaced by a combined search. Semantic hits carry
// the matching chunk text.
type SearchHit struct {
	Path       string
	Name       string
	Category   string
	Snippet    string
	Section    string
	PageNumber int
}

// Indexer is the public API for indexing, searching, and removing files.
type Indexer struct {
	store     *store.SQLiteStore
	vectors   *vectordb.SQLiteVectorStore
	embedder  *embedder.OllamaEmbedder
	processor *Processor
}

// New creates an Indexer with the given configuration, opening both databases.
func New(cfg Config) (*Indexer, error) {
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	vectors, err := vectordb.Open(cfg.VectorDBPath, cfg.EmbedDim)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	chunkCfg := chunker.DefaultConfig()
	if cfg.ChunkSize > 0 {
		chunkCfg.ChunkSize = cfg.ChunkSize
	}
	if cfg.ChunkOverlap >= 0 {
		chunkCfg.ChunkOverlap = cfg.ChunkOverlap
	}
	emb := embedder.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbedModel)
	orch := chunker.NewOrchestrator(chunkCfg)

	return &Indexer{
		store:     s,
		vectors:   vectors,
		embedder:  emb,
		processor: NewProcessor(s, vectors, orch, emb, cfg.Concurrency),
	}, nil
}

// Process indexes every regular file under the given roots.
func (idx *Indexer) Process(ctx context.Context, roots []string, onProgress ProgressFunc) Summary {
	return idx.processor.Process(ctx, roots, onProgress)
}

// Search combines lexical and semantic results, lexical first, deduplicated
// by path. A failed query embedding degrades to lexical-only results.
func (idx *Indexer) Search(query string, k int) ([]SearchHit, error) {
	files, err := idx.store.Search(query)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	seen := make(map[string]bool)
	var hits []SearchHit
	for _, f := range files {
		seen[f.Path] = true
		hits = append(hits, SearchHit{Path: f.Path, Name: f.Name, Category: f.Category})
	}

	if k <= 0 || query == "" {
		return hits, nil
	}
	vec, err := idx.embedder.EmbedSingle(query)
	if err != nil {
		log.Warn("query embedding unavailable, lexical results only", "err", err)
		return hits, nil
	}
	if len(vec) == 0 {
		log.Warn("embedding model returned an empty vector, lexical results only")
		return hits, nil
	}
	results, err := idx.vectors.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	for _, r := range results {
		if seen[r.Path] {
			continue
		}
		seen[r.Path] = true
		hits = append(hits, SearchHit{
			Path:       r.Path,
			Name:       filepath.Base(r.Path),
			Snippet:    r.Text,
			Section:    r.Section,
			PageNumber: r.PageNumber,
		})
	}
	return hits, nil
}

// Remove deletes a file from the lexical index and, if a row was removed,
// from the vector store as well.
func (idx *Indexer) Remove(path string) error {
	removed, err := idx.store.DeleteFile(path)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if !removed {
		return nil
	}
	if err := idx.vectors.DeleteByPath(path); err != nil {
		return fmt.Errorf("delete chunks %s: %w", path, err)
	}
	return nil
}

// Extensions reports the file extensions the chunkers understand.
func (idx *Indexer) Extensions() map[string]bool {
	return idx.processor.orchestrator.Extensions()
}

// Vectors exposes the vector store for retrieval-augmented queries.
func (idx *Indexer) Vectors() vectordb.VectorStore { return idx.vectors }

// Embedder exposes the embedding client.
func (idx *Indexer) Embedder() *embedder.OllamaEmbedder { return idx.embedder }

// Close releases both databases.
func (idx *Indexer) Close() error {
	return errors.Join(idx.store.Close(), idx.vectors.Close())
}
