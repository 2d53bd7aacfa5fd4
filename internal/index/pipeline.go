package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"spyglass/internal/chunker"
	"spyglass/internal/store"
	"spyglass/internal/vectordb"
	"spyglass/internal/walker"
)

// ProcessingStatus is a point-in-time snapshot of a processing run.
type ProcessingStatus struct {
	Total      int
	Processed  int
	Percentage int
}

// ProgressFunc receives a status update after each file finishes, success or
// not.
type ProgressFunc func(ProcessingStatus)

// Summary reports the outcome of a processing run.
type Summary struct {
	Success        bool
	TotalFiles     int
	ProcessedFiles int
	Errors         []string
}

// Processor runs files through lexical indexing and chunk embedding with a
// bounded number of files in flight.
type Processor struct {
	store        store.Store
	vectors      vectordb.VectorStore
	orchestrator *chunker.Orchestrator
	embedder     chunker.Embedder
	limit        int64
}

// NewProcessor creates a Processor allowing up to concurrency files in flight
// at once.
func NewProcessor(st store.Store, vectors vectordb.VectorStore, orch *chunker.Orchestrator, emb chunker.Embedder, concurrency int) *Processor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Processor{
		store:        st,
		vectors:      vectors,
		orchestrator: orch,
		embedder:     emb,
		limit:        int64(concurrency),
	}
}

// Process walks the given roots and indexes every regular file found. Each
// file counts toward progress whether it succeeded or failed, so a completed
// run always reports Processed == Total.
func (p *Processor) Process(ctx context.Context, roots []string, onProgress ProgressFunc) Summary {
	records := walker.Collect(roots)
	total := len(records)

	sem := semaphore.NewWeighted(p.limit)
	var wg sync.WaitGroup
	var processed atomic.Int64

	var mu sync.Mutex
	var errs []string

	for _, rec := range records {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Sprintf("%s: %v", rec.Path, err))
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(rec walker.FileRecord) {
			defer wg.Done()
			defer sem.Release(1)

			if err := p.processFile(rec); err != nil {
				log.Warn("failed to process file", "path", rec.Path, "err", err)
				mu.Lock()
				errs = append(errs, fmt.Sprintf("%s: %v", rec.Path, err))
				mu.Unlock()
			}

			done := int(processed.Add(1))
			if onProgress != nil {
				onProgress(statusOf(done, total))
			}
		}(rec)
	}
	wg.Wait()

	return Summary{
		Success:        len(errs) == 0,
		TotalFiles:     total,
		ProcessedFiles: int(processed.Load()),
		Errors:         errs,
	}
}

// processFile indexes one file lexically, then replaces its stored chunk
// embeddings. Files no chunker understands still get a lexical row so name
// and path search covers them.
func (p *Processor) processFile(rec walker.FileRecord) error {
	fileID, err := p.store.IndexFile(store.FileRecord{
		Path:      rec.Path,
		Name:      rec.Name,
		Extension: rec.Extension,
		Size:      rec.Size,
		Category:  rec.Category,
	})
	if err != nil {
		return fmt.Errorf("index %s: %w", rec.Path, err)
	}

	pairs, err := p.orchestrator.ChunkFile(rec.Path, rec.Size, p.embedder)
	if errors.Is(err, chunker.ErrUnsupported) {
		log.Debug("no chunker for file", "path", rec.Path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("chunk %s: %w", rec.Path, err)
	}

	embeddings := make([]vectordb.EmbeddingRecord, 0, len(pairs))
	for _, pair := range pairs {
		embeddings = append(embeddings, vectordb.EmbeddingRecord{
			ID:          fmt.Sprintf("%d_chunk_%d", fileID, pair.Chunk.Index),
			Text:        pair.Chunk.Content,
			Path:        rec.Path,
			ChunkIndex:  pair.Chunk.Index,
			TotalChunks: pair.Chunk.TotalChunks,
			MimeType:    pair.Chunk.MimeType,
			Section:     pair.Chunk.Section,
			PageNumber:  pair.Chunk.PageNumber,
			Embedding:   pair.Embedding,
		})
	}
	// Replacing with an empty set still clears chunks left by a previous
	// version of the file.
	if err := p.vectors.ReplaceForPath(rec.Path, embeddings); err != nil {
		return fmt.Errorf("store chunks %s: %w", rec.Path, err)
	}
	return nil
}

func statusOf(processed, total int) ProcessingStatus {
	status := ProcessingStatus{Total: total, Processed: processed}
	if total > 0 {
		status.Percentage = int(math.Round(float64(processed) / float64(total) * 100))
	}
	return status
}
