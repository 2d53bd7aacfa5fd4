// Package chunker turns raw document bytes into ordered text chunks with
// positional metadata, dispatching each file to a format-specific strategy.
package chunker

import (
	"errors"
	"fmt"
	"strings"
)

// Chunk is a bounded span of extracted document text, the unit handed to the
// embedder. Index is 0-based and contiguous within one file; TotalChunks is
// back-filled once all chunks for the file are known.
type Chunk struct {
	Content     string
	Path        string
	Index       int
	TotalChunks int
	Section     string
	PageNumber  int // 1-based, 0 when the format has no pages
	MimeType    string
}

// Config controls how files are chunked.
type Config struct {
	ChunkSize          int  // target chunk size in words
	ChunkOverlap       int  // words shared between consecutive chunks
	NormalizeText      bool // unify line endings, strip BOM
	ExtractMetadata    bool // attach section/page metadata
	MaxConcurrentFiles int
	UseGPU             bool // advisory; falls back to CPU when unavailable
}

// DefaultConfig returns the reference chunking configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:          100,
		ChunkOverlap:       10,
		NormalizeText:      true,
		ExtractMetadata:    true,
		MaxConcurrentFiles: 4,
	}
}

// Chunker is the per-format capability: Claims decides whether this strategy
// handles a file (extension check first, MIME sniff fallback) and Chunk
// produces its chunks.
type Chunker interface {
	Claims(path string) bool
	Extensions() []string
	Chunk(path string, size int64, cfg Config) ([]Chunk, error)
}

// ErrUnsupported is returned when no chunker claims a file. It is a skip
// signal, not a failure of the batch.
var ErrUnsupported = errors.New("unsupported file type")

// FormatError reports malformed document content. It is fatal to that one
// file's chunking only.
type FormatError struct {
	Format string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// normalizeText unifies line endings and strips a leading BOM.
func normalizeText(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// maybeNormalize applies normalizeText when the config asks for it.
func maybeNormalize(s string, cfg Config) string {
	if cfg.NormalizeText {
		return normalizeText(s)
	}
	return s
}

// chunkWords splits text on whitespace and emits windows of size words
// advancing by size-overlap. The final window may be shorter; text with fewer
// words than size becomes one chunk; empty text yields none.
func chunkWords(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		size = 1
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var out []string
	for start := 0; start < len(words); {
		end := min(start+size, len(words))
		out = append(out, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
		start += size - overlap
	}
	return out
}

// backfillTotals stamps every chunk with the final count.
func backfillTotals(chunks []Chunk) []Chunk {
	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}
